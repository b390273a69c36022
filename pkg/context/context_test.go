package context

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters_Defaults(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", GetRequestID(ctx))
	assert.Equal(t, "anonymous", GetClientKey(ctx))

	ctx = WithClientKey(WithRequestID(ctx, "req-1"), "ip:1.2.3.4")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "ip:1.2.3.4", GetClientKey(ctx))
}

func TestFromFiberCtx(t *testing.T) {
	app := fiber.New()
	var got context.Context
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("X-Request-ID", "from-locals")
		got = FromFiberCtx(c)
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/header", func(c *fiber.Ctx) error {
		got = FromFiberCtx(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(ClientIDHeader, "tab-7")
	_, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "from-locals", GetRequestID(got))
	assert.Equal(t, "client:tab-7", GetClientKey(got))

	req = httptest.NewRequest("GET", "/header", nil)
	req.Header.Set("X-Request-ID", "from-header")
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "from-header", GetRequestID(got))
	assert.True(t, strings.HasPrefix(GetClientKey(got), "ip:"))
}
