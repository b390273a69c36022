package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "request_id"
	ClientKey    ctxKey = "client_key"

	// ClientIDHeader lets a browser tab identify itself independently of its IP.
	ClientIDHeader = "X-Client-ID"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func WithClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ClientKey, key)
}

func GetClientKey(ctx context.Context) string {
	key, ok := ctx.Value(ClientKey).(string)
	if !ok || key == "" {
		return "anonymous"
	}
	return key
}

// ClientKeyFromFiber prefers the X-Client-ID header and falls back to the remote IP.
func ClientKeyFromFiber(c *fiber.Ctx) string {
	if id := c.Get(ClientIDHeader); id != "" {
		return "client:" + id
	}
	return "ip:" + c.IP()
}

func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := context.Background()

	requestID, ok := c.Locals("X-Request-ID").(string)
	if !ok || requestID == "" {
		requestID = c.Get("X-Request-ID")

		if requestID == "" {
			requestID = "unknown"
		}
	}

	ctx = WithRequestID(ctx, requestID)
	return WithClientKey(ctx, ClientKeyFromFiber(c))
}
