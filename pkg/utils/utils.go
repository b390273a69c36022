package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"image"
	"io"
	"mime/multipart"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/oklog/ulid/v2"
)

const DefaultMaxImageSize int64 = 4 * 1024 * 1024

var (
	ErrNoFile           = errors.New("no file uploaded")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrUnsupportedImage = errors.New("uploaded file is not a PNG or JPEG image")
	ErrInvalidBase64    = errors.New("invalid base64 image data")
)

// Image is an upload that passed validation.
type Image struct {
	MIMEType string
	Data     []byte
}

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	MaxImageSize() int64
	HumanMaxImageSize() string
	ValidateImageFile(file *multipart.FileHeader) error
	ReadImageFile(file *multipart.FileHeader) (*Image, error)
	DecodeBase64Image(encoded string) (*Image, error)
	FitImage(img *Image, maxDimension int, quality int) (*Image, error)
}

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return NewWithLimit(DefaultMaxImageSize)
}

func NewWithLimit(maxFileSize int64) IUtils {
	return &utils{
		maxFileSize: maxFileSize,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) MaxImageSize() int64 {
	return u.maxFileSize
}

func (u *utils) HumanMaxImageSize() string {
	return humanize.IBytes(uint64(u.maxFileSize))
}

// ValidateImageFile only looks at the multipart header; content is sniffed in ReadImageFile.
func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	return nil
}

func (u *utils) ReadImageFile(file *multipart.FileHeader) (*Image, error) {
	if err := u.ValidateImageFile(file); err != nil {
		return nil, err
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, u.maxFileSize+1))
	if err != nil {
		return nil, err
	}

	return u.sniff(data)
}

func (u *utils) DecodeBase64Image(encoded string) (*Image, error) {
	if encoded == "" {
		return nil, ErrNoFile
	}

	if int64(base64.StdEncoding.DecodedLen(len(encoded))) > u.maxFileSize+2 {
		return nil, ErrFileTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidBase64
	}

	return u.sniff(data)
}

func (u *utils) sniff(data []byte) (*Image, error) {
	if int64(len(data)) > u.maxFileSize {
		return nil, ErrFileTooLarge
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	switch kind {
	case matchers.TypePng, matchers.TypeJpeg:
		return &Image{MIMEType: kind.MIME.Value, Data: data}, nil
	default:
		return nil, ErrUnsupportedImage
	}
}

// FitImage downscales img so neither side exceeds maxDimension. Images that
// already fit are returned untouched.
func (u *utils) FitImage(img *Image, maxDimension int, quality int) (*Image, error) {
	if img == nil || maxDimension <= 0 {
		return img, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	if cfg.Width <= maxDimension && cfg.Height <= maxDimension {
		return img, nil
	}

	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	resized := imaging.Fit(decoded, maxDimension, maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	format := imaging.JPEG
	if img.MIMEType == matchers.TypePng.MIME.Value {
		format = imaging.PNG
	}

	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}

	return &Image{MIMEType: img.MIMEType, Data: buf.Bytes()}, nil
}
