package photo

import (
	"net/http"

	"DrunkDetect/pkg/response"
)

var (
	ErrNoImage             = response.NewError(http.StatusBadRequest, "NO_IMAGE", "Please select an image first.")
	ErrFileTooLarge        = response.NewError(http.StatusBadRequest, "FILE_TOO_LARGE", "File is too large. Please select an image smaller than 4MB.")
	ErrUnsupportedImage    = response.NewError(http.StatusBadRequest, "UNSUPPORTED_IMAGE", "Please select a PNG or JPEG image.")
	ErrInvalidImage        = response.NewError(http.StatusBadRequest, "INVALID_IMAGE", "Image data could not be decoded.")
	ErrRequestInProgress   = response.NewError(http.StatusConflict, "REQUEST_IN_PROGRESS", "request already in progress")
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
)
