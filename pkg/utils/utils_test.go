package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func fileHeader(t *testing.T, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "upload.bin")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func TestReadImageFile(t *testing.T) {
	u := NewWithLimit(64 * 1024)

	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantErr  error
	}{
		{name: "png", data: pngBytes(t, 8, 8), wantMIME: "image/png"},
		{name: "jpeg", data: jpegBytes(t, 8, 8), wantMIME: "image/jpeg"},
		{name: "gif rejected", data: []byte("GIF89a\x01\x00\x01\x00"), wantErr: ErrUnsupportedImage},
		{name: "text rejected", data: []byte("hello"), wantErr: ErrUnsupportedImage},
		{name: "too large", data: bytes.Repeat([]byte{0}, 64*1024+1), wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := u.ReadImageFile(fileHeader(t, tt.data))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, img.MIMEType)
			assert.Equal(t, tt.data, img.Data)
		})
	}
}

func TestReadImageFile_Nil(t *testing.T) {
	_, err := New().ReadImageFile(nil)
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestDecodeBase64Image(t *testing.T) {
	u := NewWithLimit(64 * 1024)
	raw := pngBytes(t, 4, 4)

	img, err := u.DecodeBase64Image(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)

	_, err = u.DecodeBase64Image("")
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = u.DecodeBase64Image("not*base64")
	assert.ErrorIs(t, err, ErrInvalidBase64)

	big := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 70*1024))
	_, err = u.DecodeBase64Image(big)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestFitImage(t *testing.T) {
	u := New()

	small := &Image{MIMEType: "image/png", Data: pngBytes(t, 20, 10)}
	same, err := u.FitImage(small, 100, 90)
	require.NoError(t, err)
	assert.Same(t, small, same)

	large := &Image{MIMEType: "image/png", Data: pngBytes(t, 200, 100)}
	fitted, err := u.FitImage(large, 50, 90)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(fitted.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)

	_, err = u.FitImage(&Image{MIMEType: "image/png", Data: []byte("junk")}, 50, 90)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestHumanMaxImageSize(t *testing.T) {
	assert.Equal(t, "4.0 MiB", New().HumanMaxImageSize())
	assert.Equal(t, DefaultMaxImageSize, New().MaxImageSize())
}

func TestNewULIDFromTimestamp(t *testing.T) {
	id, err := New().NewULIDFromTimestamp(time.Now())
	require.NoError(t, err)
	assert.Len(t, id, 26)
}
