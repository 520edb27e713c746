package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1920
	// DefaultMaxPixels caps width*height read from an image header before
	// the pixel data is decoded.
	DefaultMaxPixels   = int64(40_000_000)
	defaultJPEGQuality = 85
)

var ErrUnsupportedImage = errors.New("media: unsupported image")

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Extension   string
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error)
}

// ScaleProcessor decodes jpeg, png, gif and webp images and downsizes them so
// that neither side exceeds the configured dimension. Images that already fit
// are passed through untouched; resized images are re-encoded as png when the
// source was png and as jpeg otherwise.
type ScaleProcessor struct {
	maxDimension int
	maxPixels    int64
	jpegQuality  int
}

type ScaleOption func(*ScaleProcessor)

// WithMaxPixels rejects images whose declared width*height exceeds n.
func WithMaxPixels(n int64) ScaleOption {
	return func(p *ScaleProcessor) {
		if n > 0 {
			p.maxPixels = n
		}
	}
}

func NewScaleProcessor(maxDimension int, opts ...ScaleOption) *ScaleProcessor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	p := &ScaleProcessor{
		maxDimension: maxDimension,
		maxPixels:    DefaultMaxPixels,
		jpegQuality:  defaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ScaleProcessor) Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty image data")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnsupportedImage, cfg.Width, cfg.Height)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, p.maxPixels)
	}

	targetMax := maxDimension
	if targetMax <= 0 {
		targetMax = p.maxDimension
	}
	if cfg.Width <= targetMax && cfg.Height <= targetMax {
		contentType := normalizeContentType(upload.ContentType, upload.FileName, format)
		return &Result{
			Bytes:       data,
			ContentType: contentType,
			Extension:   extensionFor(contentType),
			Resized:     false,
		}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	targetW, targetH := scaleToFit(cfg.Width, cfg.Height, targetMax)
	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var out bytes.Buffer
	contentType := "image/jpeg"
	if format == "png" {
		contentType = "image/png"
		err = png.Encode(&out, dst)
	} else {
		err = jpeg.Encode(&out, dst, &jpeg.Options{Quality: p.jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("media: encode image: %w", err)
	}

	return &Result{
		Bytes:       out.Bytes(),
		ContentType: contentType,
		Extension:   extensionFor(contentType),
		Resized:     true,
	}, nil
}

func scaleToFit(width, height, maxDim int) (int, int) {
	if width >= height {
		newW := maxDim
		newH := int(math.Round(float64(height) * float64(maxDim) / float64(width)))
		return ensureMin(newW), ensureMin(newH)
	}
	newH := maxDim
	newW := int(math.Round(float64(width) * float64(maxDim) / float64(height)))
	return ensureMin(newW), ensureMin(newH)
}

func ensureMin(value int) int {
	if value < 1 {
		return 1
	}
	return value
}

func normalizeContentType(value, fileName, format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png", "gif", "webp":
		return "image/" + format
	}
	ct := strings.ToLower(strings.TrimSpace(value))
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	if ct != "" {
		return ct
	}
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(mt)
		}
	}
	return "application/octet-stream"
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
