package camera

import (
	"context"
	"errors"
	"sync"
)

var ErrStreamClosed = errors.New("camera stream closed")

type clientDevice struct{}

// NewClientDevice represents the camera of the connected browser. The browser
// captures; the service only learns consent and the frame size.
func NewClientDevice() Device {
	return clientDevice{}
}

func (clientDevice) Name() string {
	return SourceClient
}

func (clientDevice) Open(ctx context.Context, constraints Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := FromClientError(constraints.ClientError); err != nil {
		return nil, err
	}
	if !constraints.Consent {
		return nil, ErrPermissionDenied
	}

	return &clientStream{}, nil
}

type clientStream struct {
	mu     sync.RWMutex
	width  int
	height int
	closed bool
}

func (s *clientStream) Dimensions() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, 0
	}
	return s.width, s.height
}

func (s *clientStream) SetDimensions(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	s.width, s.height = width, height
	return nil
}

func (s *clientStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
