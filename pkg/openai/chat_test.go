package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"DrunkDetect/pkg/llm"

	jsoniter "github.com/json-iterator/go"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, reply string) (llm.IModel, *openai.ChatCompletionRequest) {
	t.Helper()

	var captured openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.NoError(t, jsoniter.NewDecoder(r.Body).Decode(&captured))

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", srv.URL+"/v1")
	t.Setenv("OPENAI_CHAT_MODEL", "")

	model, err := NewChatGPT()
	require.NoError(t, err)
	return model, &captured
}

func TestNewChatGPT_RequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewChatGPT()
	assert.Error(t, err)
}

func TestChat_MapsHistoryRoles(t *testing.T) {
	model, captured := newTestClient(t, "Sure.")

	reply, err := model.Chat(context.Background(), "be nice", []llm.Turn{
		{Role: llm.RoleUser, Text: "hi"},
		{Role: llm.RoleModel, Text: "hello"},
	}, "help")
	require.NoError(t, err)
	assert.Equal(t, "Sure.", reply)

	assert.Equal(t, DefaultModel, captured.Model)
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, captured.Messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, captured.Messages[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, captured.Messages[2].Role)
	assert.Equal(t, "help", captured.Messages[3].Content)
}

func TestAnalyzeImage_SendsDataURL(t *testing.T) {
	model, captured := newTestClient(t, "**Summary**: calm")

	reply, err := model.AnalyzeImage(context.Background(), "image/png", []byte{1, 2, 3}, "describe")
	require.NoError(t, err)
	assert.Equal(t, "**Summary**: calm", reply)

	require.Len(t, captured.Messages, 1)
	parts := captured.Messages[0].MultiContent
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].ImageURL)
	assert.Equal(t, "data:image/png;base64,AQID", parts[0].ImageURL.URL)
	assert.Equal(t, "describe", parts[1].Text)
}

func TestEmptyReply(t *testing.T) {
	model, _ := newTestClient(t, "")

	_, err := model.Chat(context.Background(), "", nil, "hi")
	assert.True(t, errors.Is(err, llm.ErrEmptyResponse))
}
