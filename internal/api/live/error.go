package live

import (
	"net/http"

	"DrunkDetect/pkg/response"
)

var (
	ErrSessionNotFound        = response.NewError(http.StatusNotFound, "LIVE_SESSION_NOT_FOUND", "live session not found")
	ErrSessionStopped         = response.NewError(http.StatusConflict, "LIVE_SESSION_STOPPED", "live session already stopped")
	ErrMetadataNotAccepted    = response.NewError(http.StatusBadRequest, "METADATA_NOT_ACCEPTED", "this camera source reports its own dimensions")
	ErrCameraPermissionDenied = response.NewError(http.StatusForbidden, "CAMERA_PERMISSION_DENIED", "Camera access denied. Please allow camera access in your browser settings and refresh the page.")
	ErrCameraNotFound         = response.NewError(http.StatusNotFound, "CAMERA_NOT_FOUND", "No camera found. Please ensure a camera is connected and enabled.")
	ErrCameraUnavailable      = response.NewError(http.StatusServiceUnavailable, "CAMERA_UNAVAILABLE", "Could not access camera. Please grant permission and try again.")
	ErrOverlayEmpty           = response.NewError(http.StatusConflict, "OVERLAY_EMPTY", "camera has not reported its dimensions yet")
	ErrInternalServerError    = response.NewError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
)
