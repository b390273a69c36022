package entity

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// TrackingBox is the simulated face box persisted between frames of one camera session.
type TrackingBox struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w"`
	H           float64 `json:"h"`
	VX          float64 `json:"vx"`
	VY          float64 `json:"vy"`
	Initialized bool    `json:"initialized"`
}

func (b TrackingBox) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

type TrackingFrame struct {
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	Tracking bool  `json:"tracking"`
	Face     *Rect `json:"face,omitempty"`
	LeftEye  *Rect `json:"left_eye,omitempty"`
	RightEye *Rect `json:"right_eye,omitempty"`
}

type StrokeStyle struct {
	R     uint8   `json:"r"`
	G     uint8   `json:"g"`
	B     uint8   `json:"b"`
	A     float64 `json:"a"`
	Width float64 `json:"width"`
}

type DrawOpKind string

const (
	DrawOpClear      DrawOpKind = "clear"
	DrawOpStrokeRect DrawOpKind = "stroke_rect"
)

type DrawOp struct {
	Kind  DrawOpKind   `json:"kind"`
	Rect  *Rect        `json:"rect,omitempty"`
	Style *StrokeStyle `json:"style,omitempty"`
}
