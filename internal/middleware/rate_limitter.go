package middleware

import (
	"net/http"
	"sync"
	"time"

	"DrunkDetect/pkg/context"
	"DrunkDetect/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "too many requests")
)

const defaultLimiterIdleTTL = 10 * time.Minute

// rateLimiter keeps one token bucket per client key. Buckets untouched for
// idleTTL are evicted; an evicted client starts again with a full bucket.
type rateLimiter struct {
	bucket    *cache.Cache
	rate      rate.Limit
	burstSize int
	mutex     *sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int, idleTTL time.Duration) *rateLimiter {
	if idleTTL <= 0 {
		idleTTL = defaultLimiterIdleTTL
	}
	return &rateLimiter{
		bucket:    cache.New(idleTTL, idleTTL/2),
		rate:      reqRate,
		burstSize: burstSize,
		mutex:     &sync.Mutex{},
	}
}

func (r *rateLimiter) GetLimiterFrom(key string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	limiter, exist := r.bucket.Get(key)
	if !exist {
		limiter = rate.NewLimiter(r.rate, r.burstSize)
	}
	r.bucket.SetDefault(key, limiter)

	return limiter.(*rate.Limiter)
}

func (r *rateLimiter) Len() int {
	return r.bucket.ItemCount()
}

// NewRateLimiter throttles per client key so tabs behind one NAT do not share a bucket.
func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientKey := context.ClientKeyFromFiber(ctx)
	limiter := m.rateLimitter.GetLimiterFrom(clientKey)

	if !limiter.Allow() {
		m.log.Warnf("too many requests for %s", clientKey)
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many requests",
			"code":  "TOO_MANY_REQUESTS",
		})
	}

	return ctx.Next()
}
