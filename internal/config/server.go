package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	chatHandler "DrunkDetect/internal/api/chat/handler"
	chatRepository "DrunkDetect/internal/api/chat/repository"
	chatService "DrunkDetect/internal/api/chat/service"
	liveHandler "DrunkDetect/internal/api/live/handler"
	liveService "DrunkDetect/internal/api/live/service"
	photoHandler "DrunkDetect/internal/api/photo/handler"
	photoService "DrunkDetect/internal/api/photo/service"
	"DrunkDetect/internal/middleware"
	"DrunkDetect/pkg/camera"
	"DrunkDetect/pkg/detector"
	"DrunkDetect/pkg/gemini"
	"DrunkDetect/pkg/inflight"
	"DrunkDetect/pkg/llm"
	"DrunkDetect/pkg/openai"
	"DrunkDetect/pkg/redis"
	"DrunkDetect/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	redisServer redis.IRedis
	model       llm.IModel
	camera      camera.Device
	guard       *inflight.Guard
	liveService liveService.ILiveService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.model == nil {
		return nil, fmt.Errorf("remote model is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log)
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.camera == nil {
		server.camera = camera.NewDevice()
	}
	if server.guard == nil {
		server.guard = inflight.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithRedisServer is optional; without it chat sessions stay in memory.
func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithModel(model llm.IModel) ServerOption {
	return func(s *Server) error {
		s.model = model
		return nil
	}
}

// WithModelFromEnv builds the remote model named by LLM_PROVIDER.
func WithModelFromEnv() ServerOption {
	return func(s *Server) error {
		provider := os.Getenv("LLM_PROVIDER")
		if provider == "" {
			provider = ProviderGemini
		}

		var (
			model llm.IModel
			err   error
		)

		switch provider {
		case ProviderGemini:
			model, err = gemini.NewGeminiClient()
		case ProviderOpenAI:
			model, err = openai.NewChatGPT()
		default:
			return fmt.Errorf("unknown LLM_PROVIDER %q", provider)
		}

		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create %s client: %v", provider, err)
			}
			return fmt.Errorf("failed to create %s client: %w", provider, err)
		}

		s.model = model
		return nil
	}
}

func WithCamera(device camera.Device) ServerOption {
	return func(s *Server) error {
		s.camera = device
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	remoteTimeout := llm.TimeoutFromEnv()

	// Live
	s.liveService = liveService.NewLiveService(s.log, s.camera, s.utils, liveService.ConfigFromEnv())
	liveHandlers := liveHandler.New(s.log, s.validator, s.middleware, s.liveService)

	// Photo
	photoDetector := detector.NewSimulator(
		detector.WithIntoxicationThreshold(photoThresholdFromEnv()),
	)
	photoConfig := photoService.ConfigFromEnv()
	photoServices := photoService.NewPhotoService(s.log, s.model, photoDetector, s.utils, s.guard, photoConfig)
	photoHandlers := photoHandler.New(s.log, s.validator, s.middleware, photoServices, photoConfig.RemoteTimeout)

	// Chat
	chatRepo := s.chatRepository()
	chatServices := chatService.NewChatService(s.log, chatRepo, s.model, s.utils, s.guard, remoteTimeout)
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices, remoteTimeout)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, liveHandlers, photoHandlers, chatHandlers)
}

func (s *Server) chatRepository() chatRepository.Repository {
	ttl := chatRepository.SessionTTLFromEnv()

	if s.redisServer != nil {
		s.log.Info("Chat sessions stored in Redis")
		return chatRepository.NewRedis(s.redisServer, ttl, s.log)
	}

	s.log.Info("Chat sessions stored in memory")
	return chatRepository.NewMemory(ttl, s.log)
}

func (s *Server) mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Run() error {
	s.mount()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops live sessions first so their camera streams are released,
// then drains HTTP and closes remote clients.
func (s *Server) Shutdown(timeout time.Duration) error {
	if s.liveService != nil {
		s.liveService.Shutdown()
	}

	err := s.engine.ShutdownWithTimeout(timeout)

	if closeErr := s.model.Close(); closeErr != nil {
		s.log.Errorf("Failed to close remote model: %v", closeErr)
	}
	if s.redisServer != nil {
		if closeErr := s.redisServer.Close(); closeErr != nil {
			s.log.Errorf("Failed to close Redis: %v", closeErr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}

func photoThresholdFromEnv() float64 {
	threshold, err := strconv.ParseFloat(os.Getenv("PHOTO_INTOXICATION_THRESHOLD"), 64)
	if err != nil || threshold <= 0 || threshold >= 1 {
		return detector.PhotoIntoxicationThreshold
	}
	return threshold
}
