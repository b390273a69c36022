package photoService

import (
	"errors"
	"mime/multipart"
	"strings"

	"DrunkDetect/internal/api/photo"
	"DrunkDetect/pkg/llm"
	"DrunkDetect/pkg/log"
	"DrunkDetect/pkg/markdown"
	"DrunkDetect/pkg/utils"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/context"
)

func (s *photoService) AnalyzeUpload(ctx context.Context, clientKey string, file *multipart.FileHeader) (*photo.AnalyzeResponse, error) {
	if file == nil {
		return nil, photo.ErrNoImage
	}

	release, ok := s.guard.TryAcquire(actionKey(clientKey))
	if !ok {
		return nil, photo.ErrRequestInProgress
	}
	defer release()

	img, err := s.utils.ReadImageFile(file)
	if err != nil {
		return nil, mapImageError(err)
	}

	return s.analyze(ctx, img)
}

func (s *photoService) AnalyzeBase64(ctx context.Context, clientKey string, encoded string) (*photo.AnalyzeResponse, error) {
	if encoded == "" {
		return nil, photo.ErrNoImage
	}

	release, ok := s.guard.TryAcquire(actionKey(clientKey))
	if !ok {
		return nil, photo.ErrRequestInProgress
	}
	defer release()

	img, err := s.utils.DecodeBase64Image(stripDataURL(encoded))
	if err != nil {
		return nil, mapImageError(err)
	}

	return s.analyze(ctx, img)
}

func (s *photoService) analyze(ctx context.Context, img *utils.Image) (*photo.AnalyzeResponse, error) {
	logger := log.WithRequestID(ctx)

	detection, err := s.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}

	resp := &photo.AnalyzeResponse{
		Detection: detection,
		MIMEType:  img.MIMEType,
		ImageSize: humanize.IBytes(uint64(len(img.Data))),
	}

	fitted, err := s.utils.FitImage(img, s.cfg.MaxDimension, jpegQuality)
	if err != nil {
		return nil, mapImageError(err)
	}

	logger.WithField("upload_size", resp.ImageSize).
		WithField("sent_size", humanize.IBytes(uint64(len(fitted.Data)))).
		Debug("Sending image to remote model")

	remoteCtx, cancel := context.WithTimeout(ctx, s.cfg.RemoteTimeout)
	defer cancel()

	text, err := s.model.AnalyzeImage(remoteCtx, fitted.MIMEType, fitted.Data, photo.AnalysisPrompt)
	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		logger.Warn("Remote image analysis returned no text")
		text = photo.FallbackEmptyAnalysis
		resp.Fallback = true
	case err != nil:
		logger.WithError(err).Error("Remote image analysis failed")
		text = photo.FallbackAnalysisError
		resp.Fallback = true
	case strings.TrimSpace(text) == "":
		text = photo.FallbackEmptyAnalysis
		resp.Fallback = true
	}

	resp.Summary = ExtractSummary(text)
	resp.SummaryHTML = markdown.RenderBlocks(resp.Summary)

	return resp, nil
}

// ExtractSummary keeps everything from the last summary marker on, or the
// whole text when the model left the marker out.
func ExtractSummary(text string) string {
	idx := strings.LastIndex(text, photo.SummaryMarker)
	if idx < 0 {
		return text
	}
	return text[idx:]
}

func actionKey(clientKey string) string {
	return "photo:" + clientKey
}

// stripDataURL accepts "data:image/png;base64,..." as well as bare base64.
func stripDataURL(encoded string) string {
	if !strings.HasPrefix(encoded, "data:") {
		return encoded
	}
	if idx := strings.Index(encoded, ","); idx >= 0 {
		return encoded[idx+1:]
	}
	return encoded
}

func mapImageError(err error) error {
	switch {
	case errors.Is(err, utils.ErrNoFile):
		return photo.ErrNoImage
	case errors.Is(err, utils.ErrFileTooLarge):
		return photo.ErrFileTooLarge
	case errors.Is(err, utils.ErrUnsupportedImage):
		return photo.ErrUnsupportedImage
	case errors.Is(err, utils.ErrInvalidBase64):
		return photo.ErrInvalidImage
	default:
		return err
	}
}
