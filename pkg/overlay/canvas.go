// Package overlay keeps the draw commands for a session's tracking overlay and
// can rasterise them for clients that cannot paint the commands themselves.
package overlay

import (
	"errors"
	"image/color"
	"io"
	"sync"

	"DrunkDetect/internal/entity"

	"github.com/fogleman/gg"
)

var ErrEmptyCanvas = errors.New("canvas has no dimensions yet")

var (
	FaceStyle = entity.StrokeStyle{R: 0, G: 255, B: 255, A: 0.8, Width: 4}
	EyeStyle  = entity.StrokeStyle{R: 255, G: 0, B: 255, A: 0.7, Width: 2}
)

// Surface is what the tracking animator draws on.
type Surface interface {
	Resize(width, height int)
	Clear()
	StrokeRect(r entity.Rect, style entity.StrokeStyle)
}

// Canvas records the ops drawn since the last Clear. It is safe for concurrent use.
type Canvas struct {
	mu     sync.RWMutex
	width  int
	height int
	ops    []entity.DrawOp
}

func NewCanvas() *Canvas {
	return &Canvas{}
}

func (c *Canvas) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.width = width
	c.height = height
}

func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ops = c.ops[:0]
}

func (c *Canvas) StrokeRect(r entity.Rect, style entity.StrokeStyle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rect := r
	s := style
	c.ops = append(c.ops, entity.DrawOp{Kind: entity.DrawOpStrokeRect, Rect: &rect, Style: &s})
}

func (c *Canvas) Size() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.width, c.height
}

// Ops returns a copy of the current frame, prefixed with a clear op.
func (c *Canvas) Ops() []entity.DrawOp {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ops := make([]entity.DrawOp, 0, len(c.ops)+1)
	ops = append(ops, entity.DrawOp{Kind: entity.DrawOpClear})
	return append(ops, c.ops...)
}

func (c *Canvas) IsBlank() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.ops) == 0
}

// EncodePNG renders the current frame on a transparent background.
func (c *Canvas) EncodePNG(w io.Writer) error {
	c.mu.RLock()
	width, height := c.width, c.height
	ops := append([]entity.DrawOp(nil), c.ops...)
	c.mu.RUnlock()

	if width <= 0 || height <= 0 {
		return ErrEmptyCanvas
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.Transparent)
	dc.Clear()

	for _, op := range ops {
		if op.Kind != entity.DrawOpStrokeRect || op.Rect == nil || op.Style == nil {
			continue
		}
		dc.SetRGBA255(int(op.Style.R), int(op.Style.G), int(op.Style.B), int(op.Style.A*255))
		dc.SetLineWidth(op.Style.Width)
		dc.DrawRectangle(op.Rect.X, op.Rect.Y, op.Rect.W, op.Rect.H)
		dc.Stroke()
	}

	return dc.EncodePNG(w)
}
