package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	// Registered decoders for File sources.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Encoding formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatWebP = "webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("raster: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("raster: empty data")
)

// Decode decodes an image from r, auto-detecting the format, and returns it
// as a raster together with the format name. Images wider or taller than
// MaxDimension are rejected before their pixels are decoded.
func Decode(r io.Reader) (*Raster, string, error) {
	return DecodeLimit(r, MaxDimension)
}

// DecodeLimit is Decode with a caller-chosen size limit. The header is read
// first so oversized images fail with ErrInvalidDimensions without
// allocating their pixels.
func DecodeLimit(r io.Reader, maxDim int) (*Raster, string, error) {
	if maxDim <= 0 || maxDim > MaxDimension {
		maxDim = MaxDimension
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("raster: read: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("raster: decode: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxDim || cfg.Height > maxDim {
		return nil, format, fmt.Errorf("raster: decode %s: %w: %dx%d", format, ErrInvalidDimensions, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("raster: decode: %w", err)
	}
	out, err := FromImage(img)
	if err != nil {
		return nil, format, fmt.Errorf("raster: decode %s: %w", format, err)
	}
	return out, format, nil
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(data []byte) (*Raster, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Encode writes r to w in the given format. quality in (0, 1] applies to
// lossy formats. There is no webp encoder in the stack, so webp requests are
// written as PNG; the returned string names the format actually written.
func Encode(w io.Writer, r *Raster, format string, quality float64) (string, error) {
	if r == nil {
		return "", ErrNilRaster
	}
	switch format {
	case FormatPNG, FormatWebP:
		if err := png.Encode(w, r.img); err != nil {
			return "", fmt.Errorf("raster: encode PNG: %w", err)
		}
		return FormatPNG, nil
	case FormatJPEG:
		q := int(math.Round(quality * 100))
		q = max(1, min(100, q))
		if err := jpeg.Encode(w, r.img, &jpeg.Options{Quality: q}); err != nil {
			return "", fmt.Errorf("raster: encode JPEG: %w", err)
		}
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Extension returns the file extension (without dot) for an encoding format.
func Extension(format string) string {
	if format == FormatJPEG {
		return "jpg"
	}
	return format
}
