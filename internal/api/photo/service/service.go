package photoService

import (
	"mime/multipart"
	"os"
	"strconv"
	"time"

	"DrunkDetect/internal/api/photo"
	"DrunkDetect/pkg/detector"
	"DrunkDetect/pkg/inflight"
	"DrunkDetect/pkg/llm"
	"DrunkDetect/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	DefaultMaxDimension = 2048
	jpegQuality         = 90
)

type IPhotoService interface {
	AnalyzeUpload(ctx context.Context, clientKey string, file *multipart.FileHeader) (*photo.AnalyzeResponse, error)
	AnalyzeBase64(ctx context.Context, clientKey string, encoded string) (*photo.AnalyzeResponse, error)
}

type Config struct {
	RemoteTimeout time.Duration
	MaxDimension  int
}

// ConfigFromEnv reads REMOTE_TIMEOUT and PHOTO_MAX_DIMENSION.
func ConfigFromEnv() Config {
	maxDim, err := strconv.Atoi(os.Getenv("PHOTO_MAX_DIMENSION"))
	if err != nil || maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	return Config{
		RemoteTimeout: llm.TimeoutFromEnv(),
		MaxDimension:  maxDim,
	}
}

type photoService struct {
	log      *logrus.Logger
	model    llm.IModel
	detector detector.Detector
	utils    utils.IUtils
	guard    *inflight.Guard
	cfg      Config
}

func NewPhotoService(
	log *logrus.Logger,
	model llm.IModel,
	detector detector.Detector,
	utils utils.IUtils,
	guard *inflight.Guard,
	cfg Config,
) IPhotoService {
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = llm.DefaultTimeout
	}

	return &photoService{
		log:      log,
		model:    model,
		detector: detector,
		utils:    utils,
		guard:    guard,
		cfg:      cfg,
	}
}
