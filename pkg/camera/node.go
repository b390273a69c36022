package camera

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

type nodeDevice struct {
	path string
}

// NewNodeDevice opens a local video device node such as /dev/video0. Only
// ownership of the node is taken; frames are not read.
func NewNodeDevice(path string) Device {
	return &nodeDevice{path: path}
}

func (d *nodeDevice) Name() string {
	return SourceDevice
}

func (d *nodeDevice) Open(ctx context.Context, constraints Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !constraints.Consent {
		return nil, ErrPermissionDenied
	}

	f, err := os.OpenFile(d.path, os.O_RDWR, 0)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrNotFound, d.path)
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, d.path)
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	c := constraints.withDefaults()
	return &nodeStream{file: f, width: c.Width, height: c.Height}, nil
}

type nodeStream struct {
	mu     sync.Mutex
	file   *os.File
	width  int
	height int
}

func (s *nodeStream) Dimensions() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return 0, 0
	}
	return s.width, s.height
}

func (s *nodeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
