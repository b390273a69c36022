package chat

import (
	"net/http"

	"DrunkDetect/pkg/response"
)

var (
	ErrSessionNotFound     = response.NewError(http.StatusNotFound, "CHAT_SESSION_NOT_FOUND", "chat session not found")
	ErrEmptyMessage        = response.NewError(http.StatusBadRequest, "EMPTY_MESSAGE", "message must not be blank")
	ErrRequestInProgress   = response.NewError(http.StatusConflict, "REQUEST_IN_PROGRESS", "request already in progress")
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
)
