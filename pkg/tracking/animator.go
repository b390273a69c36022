// Package tracking animates the simulated face-detection box drawn over a live feed.
package tracking

import (
	"sync"

	"DrunkDetect/internal/entity"
	"DrunkDetect/pkg/overlay"
)

const (
	Margin = 10.0

	boxWidthRatio  = 0.4
	boxHeightRatio = 0.6

	initialSpeed   = 1.0
	resampleChance = 0.02
	resampleSpeed  = 2.0
	bounceDamping  = 0.8
	jitterAmount   = 1.25
	lossChance     = 0.01

	eyeWidthRatio  = 0.2
	eyeHeightRatio = 0.1
	leftEyeOffset  = 0.2
	rightEyeOffset = 0.6
	eyeRowOffset   = 0.3
)

type Source interface {
	Float64() float64
}

// Animator owns the box of a single camera session. Step is called once per frame.
type Animator struct {
	mu  sync.Mutex
	rng Source
	box entity.TrackingBox
}

func NewAnimator(rng Source) *Animator {
	return &Animator{rng: rng}
}

// Box returns the persisted (unjittered) state.
func (a *Animator) Box() entity.TrackingBox {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.box
}

// Reset marks the box uninitialized so the next session starts centered again.
func (a *Animator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.box.Initialized = false
}

// symmetric returns a draw in [-span, span).
func (a *Animator) symmetric(span float64) float64 {
	return (a.rng.Float64() - 0.5) * 2 * span
}

// Step advances the box by one frame and draws it on surface. With no usable
// frame size it does nothing and reports ok=false so the caller retries on the
// next frame.
func (a *Animator) Step(width, height int, surface overlay.Surface) (frame entity.TrackingFrame, ok bool) {
	if width <= 0 || height <= 0 {
		return entity.TrackingFrame{}, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	w, h := float64(width), float64(height)

	surface.Resize(width, height)
	surface.Clear()

	b := &a.box
	if !b.Initialized {
		b.W = w * boxWidthRatio
		b.H = h * boxHeightRatio
		b.X = (w - b.W) / 2
		b.Y = (h - b.H) / 2
		b.VX = a.symmetric(initialSpeed)
		b.VY = a.symmetric(initialSpeed)
		b.Initialized = true
	}

	if a.rng.Float64() < resampleChance {
		b.VX = a.symmetric(resampleSpeed)
		b.VY = a.symmetric(resampleSpeed)
	}

	b.X += b.VX
	b.Y += b.VY

	if b.X < Margin || b.X+b.W > w-Margin {
		b.VX *= -bounceDamping
		b.X = clamp(b.X, Margin, w-Margin-b.W)
	}
	if b.Y < Margin || b.Y+b.H > h-Margin {
		b.VY *= -bounceDamping
		b.Y = clamp(b.Y, Margin, h-Margin-b.H)
	}

	jitterX := a.symmetric(jitterAmount)
	jitterY := a.symmetric(jitterAmount)

	frame = entity.TrackingFrame{Width: width, Height: height}

	if a.rng.Float64() <= lossChance {
		return frame, true
	}

	face := entity.Rect{X: b.X + jitterX, Y: b.Y + jitterY, W: b.W, H: b.H}
	eyeW, eyeH := b.W*eyeWidthRatio, b.H*eyeHeightRatio
	eyeY := b.Y + b.H*eyeRowOffset + jitterY
	left := entity.Rect{X: b.X + b.W*leftEyeOffset + jitterX, Y: eyeY, W: eyeW, H: eyeH}
	right := entity.Rect{X: b.X + b.W*rightEyeOffset + jitterX, Y: eyeY, W: eyeW, H: eyeH}

	surface.StrokeRect(face, overlay.FaceStyle)
	surface.StrokeRect(left, overlay.EyeStyle)
	surface.StrokeRect(right, overlay.EyeStyle)

	frame.Tracking = true
	frame.Face = &face
	frame.LeftEye = &left
	frame.RightEye = &right

	return frame, true
}

// clamp keeps the lower bound when the frame is too small for the box, the
// same way max(lo, min(v, hi)) does.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
