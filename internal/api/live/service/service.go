package liveService

import (
	"io"
	"os"
	"strconv"
	"time"

	"DrunkDetect/internal/api/live"
	"DrunkDetect/internal/entity"
	"DrunkDetect/pkg/camera"
	"DrunkDetect/pkg/detector"
	"DrunkDetect/pkg/tracking"
	"DrunkDetect/pkg/utils"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	DefaultSessionTTL    = 30 * time.Minute
	DefaultFrameInterval = 33 * time.Millisecond
)

type ILiveService interface {
	StartSession(ctx context.Context, req live.StartSessionRequest) (*entity.LiveSession, error)
	GetSession(ctx context.Context, id string) (*entity.LiveSession, error)
	ReportMetadata(ctx context.Context, id string, width, height int) (*entity.LiveSession, error)
	StopSession(ctx context.Context, id string) (*entity.LiveSession, error)
	RenderOverlay(ctx context.Context, id string, w io.Writer) error
	Subscribe(ctx context.Context, id string) (<-chan live.Event, func(), error)
	Shutdown()
}

type Config struct {
	SessionTTL            time.Duration
	FrameInterval         time.Duration
	DetectionInterval     time.Duration
	IntoxicationThreshold float64
}

// ConfigFromEnv reads the LIVE_* variables, falling back to the defaults.
func ConfigFromEnv() Config {
	return Config{
		SessionTTL:            envDuration("LIVE_SESSION_TTL", DefaultSessionTTL),
		FrameInterval:         envDuration("LIVE_FRAME_INTERVAL", DefaultFrameInterval),
		DetectionInterval:     envDuration("LIVE_DETECTION_INTERVAL", detector.DefaultInterval),
		IntoxicationThreshold: envThreshold("LIVE_INTOXICATION_THRESHOLD", detector.LiveIntoxicationThreshold),
	}
}

type Option func(*liveService)

// WithDetectorFactory replaces the per-session random simulator.
func WithDetectorFactory(f func() detector.Detector) Option {
	return func(s *liveService) {
		s.newDetector = f
	}
}

// WithAnimatorSource replaces the per-session random source of the tracking box.
func WithAnimatorSource(f func() tracking.Source) Option {
	return func(s *liveService) {
		s.newSource = f
	}
}

type liveService struct {
	log         *logrus.Logger
	device      camera.Device
	utils       utils.IUtils
	cfg         Config
	sessions    *cache.Cache
	newDetector func() detector.Detector
	newSource   func() tracking.Source
	now         func() time.Time
}

func NewLiveService(
	log *logrus.Logger,
	device camera.Device,
	utils utils.IUtils,
	cfg Config,
	opts ...Option,
) ILiveService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.DetectionInterval <= 0 {
		cfg.DetectionInterval = detector.DefaultInterval
	}
	if cfg.IntoxicationThreshold <= 0 {
		cfg.IntoxicationThreshold = detector.LiveIntoxicationThreshold
	}

	s := &liveService{
		log:      log,
		device:   device,
		utils:    utils,
		cfg:      cfg,
		sessions: cache.New(cfg.SessionTTL, janitorInterval(cfg.SessionTTL)),
		now:      func() time.Time { return time.Now().UTC() },
	}

	s.newDetector = func() detector.Detector {
		return detector.NewSimulator(detector.WithIntoxicationThreshold(s.cfg.IntoxicationThreshold))
	}
	s.newSource = func() tracking.Source {
		return detector.NewRand(uint64(time.Now().UnixNano()))
	}

	for _, opt := range opts {
		opt(s)
	}

	s.sessions.OnEvicted(func(id string, value interface{}) {
		if sess, ok := value.(*session); ok {
			sess.stop("expired")
		}
	})

	return s
}

func janitorInterval(ttl time.Duration) time.Duration {
	if half := ttl / 2; half < time.Minute {
		return half
	}
	return time.Minute
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envThreshold(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 || v >= 1 {
		return fallback
	}
	return v
}
