// Package camera acquires the video source behind a live analysis session.
package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720

	SourceClient = "client"
	SourceDevice = "device"
)

var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNotFound         = errors.New("camera not found")
	ErrUnavailable      = errors.New("camera unavailable")
)

type Constraints struct {
	Width  int
	Height int
	// Consent is the user's answer to the capture prompt.
	Consent bool
	// ClientError carries the error name a browser got from getUserMedia, if any.
	ClientError string
}

func (c Constraints) withDefaults() Constraints {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	return c
}

type Device interface {
	Name() string
	Open(ctx context.Context, constraints Constraints) (Stream, error)
}

type Stream interface {
	// Dimensions reports 0x0 until the source knows its frame size.
	Dimensions() (width, height int)
	Close() error
}

// MetadataSink is implemented by streams whose size is reported by the client.
type MetadataSink interface {
	SetDimensions(width, height int) error
}

// NewDevice picks an implementation from CAMERA_SOURCE and CAMERA_DEVICE.
func NewDevice() Device {
	switch os.Getenv("CAMERA_SOURCE") {
	case SourceDevice:
		path := os.Getenv("CAMERA_DEVICE")
		if path == "" {
			path = "/dev/video0"
		}
		return NewNodeDevice(path)
	default:
		return NewClientDevice()
	}
}

// Category returns ErrPermissionDenied, ErrNotFound or ErrUnavailable for any acquisition error.
func Category(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrPermissionDenied):
		return ErrPermissionDenied
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	default:
		return ErrUnavailable
	}
}

// FromClientError maps a DOMException name reported by the browser.
func FromClientError(name string) error {
	switch name {
	case "":
		return nil
	case "NotAllowedError", "PermissionDeniedError":
		return fmt.Errorf("%w: %s", ErrPermissionDenied, name)
	case "NotFoundError":
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	default:
		return fmt.Errorf("%w: %s", ErrUnavailable, name)
	}
}
