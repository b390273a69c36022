package chatHandler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"DrunkDetect/internal/api/chat"
	chatRepository "DrunkDetect/internal/api/chat/repository"
	chatService "DrunkDetect/internal/api/chat/service"
	"DrunkDetect/internal/entity"
	"DrunkDetect/internal/middleware"
	"DrunkDetect/pkg/handlerUtil"
	"DrunkDetect/pkg/inflight"
	"DrunkDetect/pkg/llm"
	"DrunkDetect/pkg/llm/llmtest"
	"DrunkDetect/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, model *llmtest.Model) *fiber.App {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mw := middleware.New(logger)
	repo := chatRepository.NewMemory(time.Minute, logger)
	svc := chatService.NewChatService(logger, repo, model, utils.New(), inflight.New(), time.Second)

	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, validator.New(), mw, svc, time.Second).Start(app.Group("/api/v1"))

	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestChatFlow(t *testing.T) {
	model := &llmtest.Model{Reply: "Stay **hydrated**."}
	app := newTestApp(t, model)

	var session entity.ChatSession
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/v1/chat/sessions", "", &session))
	require.Len(t, session.Messages, 1)
	assert.Equal(t, chat.Greeting, session.Messages[0].Text)

	var reply chat.SendMessageResponse
	status := do(t, app, http.MethodPost, "/api/v1/chat/sessions/"+session.ID+"/messages", `{"message":"tips?"}`, &reply)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Stay **hydrated**.", reply.Reply.Text)
	assert.Contains(t, reply.Reply.HTML, ">hydrated</strong>")

	var fetched entity.ChatSession
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/v1/chat/sessions/"+session.ID, "", &fetched))
	assert.Len(t, fetched.Messages, 3)

	assert.Equal(t, http.StatusNoContent, do(t, app, http.MethodDelete, "/api/v1/chat/sessions/"+session.ID, "", nil))

	var notFound handlerUtil.ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/api/v1/chat/sessions/"+session.ID, "", &notFound))
	assert.Equal(t, "CHAT_SESSION_NOT_FOUND", notFound.Code)
}

func TestSendMessage_Validation(t *testing.T) {
	model := &llmtest.Model{Reply: "unused"}
	app := newTestApp(t, model)

	var session entity.ChatSession
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/v1/chat/sessions", "", &session))

	var errBody handlerUtil.ErrorResponse
	status := do(t, app, http.MethodPost, "/api/v1/chat/sessions/"+session.ID+"/messages", `{"message":""}`, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", errBody.Code)

	status = do(t, app, http.MethodPost, "/api/v1/chat/sessions/"+session.ID+"/messages", `{"message":"   "}`, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "EMPTY_MESSAGE", errBody.Code)

	assert.Empty(t, model.ChatCalls())
}

func TestMessageBudget_CoversRemoteTimeout(t *testing.T) {
	tests := []struct {
		name   string
		remote time.Duration
		want   time.Duration
	}{
		{name: "configured", remote: 120 * time.Second, want: 125 * time.Second},
		{name: "short", remote: time.Second, want: 6 * time.Second},
		{name: "unset falls back to default", remote: 0, want: llm.DefaultTimeout + 5*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(logrus.New(), validator.New(), nil, nil, tt.remote)
			assert.Equal(t, tt.want, h.messageBudget)
			assert.Greater(t, h.messageBudget, tt.remote)
		})
	}
}
