package config

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DrunkDetect/pkg/camera"
	"DrunkDetect/pkg/llm/llmtest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	return l
}

func TestNewServer_RequiresModel(t *testing.T) {
	logger := quietLogger()

	_, err := NewServer(WithFiber(NewFiber(logger)), WithLogger(logger))
	assert.Error(t, err)
}

func TestWithModelFromEnv(t *testing.T) {
	logger := quietLogger()

	t.Setenv("LLM_PROVIDER", "carrier-pigeon")
	_, err := NewServer(WithFiber(NewFiber(logger)), WithLogger(logger), WithModelFromEnv())
	assert.ErrorContains(t, err, "carrier-pigeon")

	t.Setenv("LLM_PROVIDER", ProviderOpenAI)
	t.Setenv("OPENAI_API_KEY", "")
	_, err = NewServer(WithFiber(NewFiber(logger)), WithLogger(logger), WithModelFromEnv())
	assert.Error(t, err)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	srv, err := NewServer(WithFiber(NewFiber(logger)), WithLogger(logger), WithModelFromEnv())
	require.NoError(t, err)
	assert.NotNil(t, srv.model)
}

func TestServerRoutes(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("REDIS_ADDRESS", "")

	logger := quietLogger()
	model := &llmtest.Model{Reply: "ok"}

	srv, err := NewServer(
		WithFiber(NewFiber(logger)),
		WithLogger(logger),
		WithMiddleware(),
		WithValidator(NewValidator()),
		WithModel(model),
		WithCamera(camera.NewClientDevice()),
		WithUtils(),
	)
	require.NoError(t, err)

	srv.RegisterHandler()
	srv.mount()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodPost, "/api/v1/chat/sessions", http.StatusCreated},
		{http.MethodGet, "/api/v1/chat/sessions/missing", http.StatusNotFound},
		{http.MethodGet, "/api/v1/live/sessions/missing", http.StatusNotFound},
		{http.MethodPost, "/api/v1/live/sessions", http.StatusForbidden},
	}

	for _, tt := range tests {
		resp, err := srv.engine.Test(httptest.NewRequest(tt.method, tt.path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tt.status, resp.StatusCode, "%s %s", tt.method, tt.path)
	}

	_ = srv.Shutdown(time.Second)
	assert.True(t, model.Closed())
}

func TestNewValidator_UsesJSONNames(t *testing.T) {
	type payload struct {
		Width int `json:"width" validate:"required"`
	}

	err := NewValidator().Struct(payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'width'")
}
