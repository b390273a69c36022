package overlay

import (
	"bytes"
	"image/png"
	"testing"

	"DrunkDetect/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvas_ClearDropsOps(t *testing.T) {
	c := NewCanvas()
	c.Resize(100, 50)
	c.StrokeRect(entity.Rect{X: 10, Y: 10, W: 20, H: 20}, FaceStyle)

	assert.False(t, c.IsBlank())
	assert.Len(t, c.Ops(), 2)

	c.Clear()
	assert.True(t, c.IsBlank())

	ops := c.Ops()
	require.Len(t, ops, 1)
	assert.Equal(t, entity.DrawOpClear, ops[0].Kind)
}

func TestCanvas_EncodePNG(t *testing.T) {
	c := NewCanvas()

	var buf bytes.Buffer
	assert.ErrorIs(t, c.EncodePNG(&buf), ErrEmptyCanvas)

	c.Resize(64, 48)
	c.StrokeRect(entity.Rect{X: 8, Y: 8, W: 30, H: 20}, FaceStyle)
	c.StrokeRect(entity.Rect{X: 12, Y: 12, W: 6, H: 2}, EyeStyle)
	require.NoError(t, c.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	_, _, _, a := img.At(8, 20).RGBA()
	assert.NotZero(t, a, "box edge should be painted")
	_, _, _, a = img.At(60, 45).RGBA()
	assert.Zero(t, a, "background should stay transparent")
}
