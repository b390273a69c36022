package photoService

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"DrunkDetect/internal/api/photo"
	"DrunkDetect/internal/entity"
	"DrunkDetect/pkg/detector"
	"DrunkDetect/pkg/inflight"
	"DrunkDetect/pkg/llm"
	"DrunkDetect/pkg/llm/llmtest"
	"DrunkDetect/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService(t *testing.T, model *llmtest.Model, u utils.IUtils, guard *inflight.Guard) IPhotoService {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sim := detector.NewSimulator(
		detector.WithSource(fixedSource(0.7)),
		detector.WithIntoxicationThreshold(detector.PhotoIntoxicationThreshold),
	)

	return NewPhotoService(logger, model, sim, u, guard, Config{
		RemoteTimeout: time.Second,
		MaxDimension:  DefaultMaxDimension,
	})
}

func TestExtractSummary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "summary only",
			in:   "**Summary**: The subject shows **calm** affect.",
			want: "**Summary**: The subject shows **calm** affect.",
		},
		{
			name: "details before summary",
			in:   "## Emotion\n\nHappy.\n\n**Summary**: Mostly **happy**.",
			want: "**Summary**: Mostly **happy**.",
		},
		{
			name: "last marker wins",
			in:   "**Summary**: first\n\n**Summary**: second",
			want: "**Summary**: second",
		},
		{
			name: "no marker keeps everything",
			in:   "Just some text.",
			want: "Just some text.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSummary(tt.in))
		})
	}
}

func TestAnalyzeBase64_Success(t *testing.T) {
	model := &llmtest.Model{Reply: "## Details\n\nRelaxed brow.\n\n**Summary**: The subject shows **calm** affect."}
	svc := newTestService(t, model, utils.New(), inflight.New())

	encoded := base64.StdEncoding.EncodeToString(pngFixture(t, 8, 8))
	resp, err := svc.AnalyzeBase64(context.Background(), "client:a", encoded)
	require.NoError(t, err)

	assert.Equal(t, "**Summary**: The subject shows **calm** affect.", resp.Summary)
	assert.Contains(t, resp.SummaryHTML, ">calm</strong>")
	assert.False(t, resp.Fallback)
	assert.Equal(t, "image/png", resp.MIMEType)
	assert.Equal(t, 1, model.ImageCalls())

	// 0.7 exceeds the photo threshold but not the live one.
	assert.Equal(t, entity.IntoxicationIntoxicated, resp.Detection.Intoxication)
	assert.GreaterOrEqual(t, resp.Detection.Confidence, detector.MinConfidence)
	assert.LessOrEqual(t, resp.Detection.Confidence, detector.MaxConfidence)
}

func TestAnalyzeBase64_DataURL(t *testing.T) {
	model := &llmtest.Model{Reply: "**Summary**: ok"}
	svc := newTestService(t, model, utils.New(), inflight.New())

	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngFixture(t, 4, 4))
	resp, err := svc.AnalyzeBase64(context.Background(), "client:a", encoded)
	require.NoError(t, err)
	assert.Equal(t, "**Summary**: ok", resp.Summary)
}

func TestAnalyzeBase64_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		limit   int64
		encoded string
		wantErr error
	}{
		{
			name:    "empty",
			limit:   utils.DefaultMaxImageSize,
			encoded: "",
			wantErr: photo.ErrNoImage,
		},
		{
			name:    "too large",
			limit:   32,
			encoded: base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x89}, 256)),
			wantErr: photo.ErrFileTooLarge,
		},
		{
			name:    "not an image",
			limit:   utils.DefaultMaxImageSize,
			encoded: base64.StdEncoding.EncodeToString([]byte("hello, this is plain text")),
			wantErr: photo.ErrUnsupportedImage,
		},
		{
			name:    "bad base64",
			limit:   utils.DefaultMaxImageSize,
			encoded: "!!!not-base64!!!",
			wantErr: photo.ErrInvalidImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &llmtest.Model{Reply: "**Summary**: unused"}
			svc := newTestService(t, model, utils.NewWithLimit(tt.limit), inflight.New())

			_, err := svc.AnalyzeBase64(context.Background(), "client:a", tt.encoded)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, model.ImageCalls(), "rejected upload must not reach the model")
		})
	}
}

func TestAnalyze_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		model *llmtest.Model
		want  string
	}{
		{
			name:  "remote error",
			model: &llmtest.Model{Err: errors.New("quota exceeded")},
			want:  photo.FallbackAnalysisError,
		},
		{
			name:  "empty reply",
			model: &llmtest.Model{Reply: "  "},
			want:  photo.FallbackEmptyAnalysis,
		},
		{
			name:  "provider reports no text",
			model: &llmtest.Model{Err: llm.ErrEmptyResponse},
			want:  photo.FallbackEmptyAnalysis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.model, utils.New(), inflight.New())

			encoded := base64.StdEncoding.EncodeToString(pngFixture(t, 4, 4))
			resp, err := svc.AnalyzeBase64(context.Background(), "client:a", encoded)
			require.NoError(t, err)

			assert.True(t, resp.Fallback)
			assert.Equal(t, tt.want, resp.Summary)
			assert.NotEmpty(t, resp.SummaryHTML)
		})
	}
}

func TestAnalyze_RejectsConcurrentSubmission(t *testing.T) {
	model := &llmtest.Model{Reply: "**Summary**: done", Block: make(chan struct{})}
	guard := inflight.New()
	svc := newTestService(t, model, utils.New(), guard)
	encoded := base64.StdEncoding.EncodeToString(pngFixture(t, 4, 4))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.AnalyzeBase64(context.Background(), "client:a", encoded)
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return model.ImageCalls() == 1 }, time.Second, 5*time.Millisecond)

	_, err := svc.AnalyzeBase64(context.Background(), "client:a", encoded)
	assert.ErrorIs(t, err, photo.ErrRequestInProgress)

	// Another client is not serialized behind the first one.
	go func() {
		_, _ = svc.AnalyzeBase64(context.Background(), "client:b", encoded)
	}()
	require.Eventually(t, func() bool { return model.ImageCalls() == 2 }, time.Second, 5*time.Millisecond)

	close(model.Block)
	wg.Wait()

	assert.Equal(t, 2, model.ImageCalls())
	assert.False(t, guard.Busy(actionKey("client:a")))
}

func TestAnalyze_DownscalesLargeImages(t *testing.T) {
	model := &llmtest.Model{Reply: "**Summary**: ok"}
	t.Setenv("APP_ENV", "test")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewPhotoService(logger, model, detector.NewSimulator(), utils.New(), inflight.New(), Config{
		RemoteTimeout: time.Second,
		MaxDimension:  16,
	})

	encoded := base64.StdEncoding.EncodeToString(pngFixture(t, 64, 32))
	resp, err := svc.AnalyzeBase64(context.Background(), "client:a", encoded)
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.MIMEType)
	assert.Equal(t, 1, model.ImageCalls())
}
