package entity

import "time"

type LiveSessionState string

const (
	LiveSessionStarting LiveSessionState = "starting"
	LiveSessionActive   LiveSessionState = "active"
	LiveSessionStopped  LiveSessionState = "stopped"
)

type LiveSession struct {
	ID           string           `json:"id"`
	State        LiveSessionState `json:"state"`
	Source       string           `json:"source"`
	Detection    DetectionResult  `json:"detection"`
	CameraWidth  int              `json:"camera_width"`
	CameraHeight int              `json:"camera_height"`
	StartedAt    time.Time        `json:"started_at"`
	StoppedAt    *time.Time       `json:"stopped_at,omitempty"`
}
