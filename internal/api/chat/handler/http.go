package chatHandler

import (
	"time"

	chatService "DrunkDetect/internal/api/chat/service"
	"DrunkDetect/internal/middleware"
	"DrunkDetect/pkg/llm"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	chatService chatService.IChatService

	messageBudget time.Duration
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	cs chatService.IChatService,
	remoteTimeout time.Duration,
) *ChatHandler {
	return &ChatHandler{
		log:           log,
		validator:     validator,
		middleware:    middleware,
		chatService:   cs,
		messageBudget: MessageBudget(remoteTimeout),
	}
}

// MessageBudget is the handler deadline for a chat message: the remote
// timeout plus room for the session store round trips.
func MessageBudget(remoteTimeout time.Duration) time.Duration {
	if remoteTimeout <= 0 {
		remoteTimeout = llm.DefaultTimeout
	}
	return remoteTimeout + 5*time.Second
}

func (h *ChatHandler) Start(srv fiber.Router) {
	chat := srv.Group("/chat")

	chat.Post("/sessions", h.CreateSession)
	chat.Get("/sessions/:id", h.GetSession)
	chat.Delete("/sessions/:id", h.EndSession)
	chat.Post("/sessions/:id/messages", h.middleware.NewRateLimiter, h.SendMessage)
}
