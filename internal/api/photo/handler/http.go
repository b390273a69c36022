package photoHandler

import (
	"time"

	photoService "DrunkDetect/internal/api/photo/service"
	"DrunkDetect/internal/middleware"
	"DrunkDetect/pkg/llm"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PhotoHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	photoService photoService.IPhotoService

	requestBudget time.Duration
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ps photoService.IPhotoService,
	remoteTimeout time.Duration,
) *PhotoHandler {
	return &PhotoHandler{
		log:           log,
		validator:     validator,
		middleware:    middleware,
		photoService:  ps,
		requestBudget: RequestBudget(remoteTimeout),
	}
}

// RequestBudget leaves room for decoding and resizing on top of the remote call.
func RequestBudget(remoteTimeout time.Duration) time.Duration {
	if remoteTimeout <= 0 {
		remoteTimeout = llm.DefaultTimeout
	}
	return remoteTimeout + 15*time.Second
}

func (h *PhotoHandler) Start(srv fiber.Router) {
	photo := srv.Group("/photo")
	photo.Use(h.middleware.NewRateLimiter)

	photo.Post("/analyze", h.Analyze)
}
