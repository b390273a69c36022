package middleware

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

type middleware struct {
	rateLimitter        *rateLimiter
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger) Middleware {
	rps := envFloat("RATE_LIMIT_RPS", defaultRateLimitRPS)
	burst := int(envFloat("RATE_LIMIT_BURST", defaultRateLimitBurst))

	return &middleware{
		rateLimitter:        newRateLimiter(rate.Limit(rps), burst, limiterIdleTTLFromEnv()),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return LoggerConfig()
}

// limiterIdleTTLFromEnv reads RATE_LIMIT_IDLE_TTL as a Go duration.
func limiterIdleTTLFromEnv() time.Duration {
	ttl, err := time.ParseDuration(os.Getenv("RATE_LIMIT_IDLE_TTL"))
	if err != nil || ttl <= 0 {
		return defaultLimiterIdleTTL
	}
	return ttl
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
