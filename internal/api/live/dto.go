package live

import "DrunkDetect/internal/entity"

type StartSessionRequest struct {
	// Consent is the user's answer to the browser's camera prompt.
	Consent bool `json:"consent"`
	// ClientError is the getUserMedia error name, when the browser failed to open the camera.
	ClientError string `json:"client_error" validate:"max=64"`
	Width       int    `json:"width" validate:"gte=0,lte=7680"`
	Height      int    `json:"height" validate:"gte=0,lte=4320"`
}

type MetadataRequest struct {
	Width  int `json:"width" validate:"required,gt=0,lte=7680"`
	Height int `json:"height" validate:"required,gt=0,lte=4320"`
}

type Frame struct {
	Tracking entity.TrackingFrame `json:"tracking"`
	Ops      []entity.DrawOp      `json:"ops"`
}

type EventType string

const (
	EventState     EventType = "state"
	EventDetection EventType = "detection"
	EventFrame     EventType = "frame"
	EventError     EventType = "error"
)

// Event is pushed to websocket subscribers of a live session.
type Event struct {
	Type      EventType               `json:"type"`
	Session   *entity.LiveSession     `json:"session,omitempty"`
	Detection *entity.DetectionResult `json:"detection,omitempty"`
	Frame     *Frame                  `json:"frame,omitempty"`
	Error     string                  `json:"error,omitempty"`
}

type ClientMessageType string

const (
	ClientMetadata ClientMessageType = "metadata"
	ClientStop     ClientMessageType = "stop"
)

// ClientMessage is what a browser may send over the session websocket.
type ClientMessage struct {
	Type   ClientMessageType `json:"type"`
	Width  int               `json:"width,omitempty"`
	Height int               `json:"height,omitempty"`
}
