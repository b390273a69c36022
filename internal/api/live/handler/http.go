package liveHandler

import (
	liveService "DrunkDetect/internal/api/live/service"
	"DrunkDetect/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type LiveHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	liveService liveService.ILiveService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ls liveService.ILiveService,
) *LiveHandler {
	return &LiveHandler{
		log:         log,
		validator:   validator,
		middleware:  middleware,
		liveService: ls,
	}
}

func (h *LiveHandler) Start(srv fiber.Router) {
	live := srv.Group("/live")

	live.Post("/sessions", h.middleware.NewRateLimiter, h.StartSession)
	live.Get("/sessions/:id", h.GetSession)
	live.Delete("/sessions/:id", h.StopSession)
	live.Post("/sessions/:id/metadata", h.ReportMetadata)
	live.Get("/sessions/:id/overlay.png", h.RenderOverlay)

	live.Use("/sessions/:id/ws", h.wsMiddleware)
	live.Get("/sessions/:id/ws", websocket.New(h.handleStream))
}
