package photoHandler

import (
	"DrunkDetect/internal/api/photo"
	contextPkg "DrunkDetect/pkg/context"
	"DrunkDetect/pkg/handlerUtil"
	"DrunkDetect/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *PhotoHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.requestBudget)
	defer cancel()

	errHandler := handlerUtil.New(h.log)
	clientKey := contextPkg.GetClientKey(c)

	var (
		result *photo.AnalyzeResponse
		err    error
	)

	file, formErr := ctx.FormFile("image")
	if formErr == nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing file upload")

		result, err = h.photoService.AnalyzeUpload(c, clientKey, file)
	} else {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
		}).Debug("Processing JSON request")

		var req photo.AnalyzeRequest
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.Handle(ctx, requestID, photo.ErrNoImage, ctx.Path(), "parse_request_body")
		}

		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		result, err = h.photoService.AnalyzeBase64(c, clientKey, req.ImageBase64)
	}

	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_photo")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id":   requestID,
			"path":         ctx.Path(),
			"emotion":      result.Detection.Emotion,
			"intoxication": result.Detection.Intoxication,
			"fallback":     result.Fallback,
		}).Info("Photo analysis completed")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}
