package gemini

import (
	"testing"

	"DrunkDetect/pkg/llm"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		res     *genai.GenerateContentResponse
		want    string
		wantErr error
	}{
		{
			name:    "nil response",
			res:     nil,
			wantErr: llm.ErrEmptyResponse,
		},
		{
			name:    "no candidates",
			res:     &genai.GenerateContentResponse{},
			wantErr: llm.ErrEmptyResponse,
		},
		{
			name: "joins text parts",
			res: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []genai.Part{
						genai.Text("**Summary**: "),
						genai.Blob{MIMEType: "image/png", Data: []byte{1}},
						genai.Text("calm"),
					}},
				}},
			},
			want: "**Summary**: calm",
		},
		{
			name: "only non-text parts",
			res: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
				}},
			},
			wantErr: llm.ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responseText(tt.res)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewGeminiClient()
	assert.Error(t, err)
}
