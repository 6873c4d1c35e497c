package raster

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// MaxDimension bounds the width and height of any surface.
const MaxDimension = 1 << 14

// Errors returned by raster operations.
var (
	// ErrInvalidDimensions is returned when a surface size is non-positive or too large.
	ErrInvalidDimensions = errors.New("raster: invalid dimensions")

	// ErrNilRaster is returned when an operation receives a nil raster.
	ErrNilRaster = errors.New("raster: nil raster")
)

// Dims is the size a node reports alongside its raster. It may differ from the
// raster's pixel size (a Transform reports its scaled extent, not its padded
// working surface).
type Dims struct {
	Width  float64
	Height float64
}

// DimsOf returns the pixel size of r as Dims.
func DimsOf(r *Raster) Dims {
	if r == nil {
		return Dims{}
	}
	return Dims{Width: float64(r.Width()), Height: float64(r.Height())}
}

// Raster is a rectangular non-premultiplied RGBA pixel buffer.
type Raster struct {
	img *image.NRGBA

	fpOnce sync.Once
	fp     uint64
}

// New creates a transparent raster with the given dimensions.
func New(width, height int) (*Raster, error) {
	if !validSize(width, height) {
		return nil, ErrInvalidDimensions
	}
	return &Raster{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// FromImage copies any image into a new raster anchored at the origin.
func FromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, ErrNilRaster
	}
	b := img.Bounds()
	r, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	// Fast path for NRGBA sources
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			srcStart := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(r.img.Pix[y*r.img.Stride:], src.Pix[srcStart:srcStart+b.Dx()*4])
		}
		return r, nil
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			r.img.SetNRGBA(x, y, c)
		}
	}
	return r, nil
}

func validSize(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxDimension && height <= MaxDimension
}

// Width returns the width of the raster in pixels.
func (r *Raster) Width() int {
	return r.img.Rect.Dx()
}

// Height returns the height of the raster in pixels.
func (r *Raster) Height() int {
	return r.img.Rect.Dy()
}

// Pix returns the raw pixel data, 4 bytes per pixel, row-major.
func (r *Raster) Pix() []uint8 {
	return r.img.Pix
}

// Stride returns the number of bytes between vertically adjacent pixels.
func (r *Raster) Stride() int {
	return r.img.Stride
}

// NRGBA returns the raster as an *image.NRGBA sharing its pixels.
func (r *Raster) NRGBA() *image.NRGBA {
	return r.img
}

// NRGBAAt returns the color of a single pixel.
func (r *Raster) NRGBAAt(x, y int) color.NRGBA {
	return r.img.NRGBAAt(x, y)
}

// SetNRGBA sets the color of a single pixel. Out-of-range coordinates are ignored.
func (r *Raster) SetNRGBA(x, y int, c color.NRGBA) {
	r.img.SetNRGBA(x, y, c)
}

// Clone returns a deep copy of r.
func (r *Raster) Clone() *Raster {
	c := &Raster{img: image.NewNRGBA(r.img.Rect)}
	copy(c.img.Pix, r.img.Pix)
	return c
}

// Fingerprint returns a content hash of the pixels and size. It is computed
// once; the raster must not be modified after the first call.
func (r *Raster) Fingerprint() uint64 {
	r.fpOnce.Do(func() {
		d := xxhash.New()
		var size [8]byte
		binary.LittleEndian.PutUint32(size[:4], uint32(r.Width()))  //nolint:gosec // bounded by MaxDimension
		binary.LittleEndian.PutUint32(size[4:], uint32(r.Height())) //nolint:gosec // bounded by MaxDimension
		_, _ = d.Write(size[:])
		_, _ = d.Write(r.img.Pix)
		r.fp = d.Sum64()
	})
	return r.fp
}

// Equal reports whether a and b have the same size and pixels.
func Equal(a, b *Raster) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	return a.Fingerprint() == b.Fingerprint()
}

// clear zeroes the pixels and forgets the fingerprint. Only the pool calls it.
func (r *Raster) clear() {
	clear(r.img.Pix)
	r.fpOnce = sync.Once{}
	r.fp = 0
}

// At implements the image.Image interface.
func (r *Raster) At(x, y int) color.Color {
	return r.img.At(x, y)
}

// Bounds implements the image.Image interface.
func (r *Raster) Bounds() image.Rectangle {
	return r.img.Rect
}

// ColorModel implements the image.Image interface.
func (r *Raster) ColorModel() color.Model {
	return color.NRGBAModel
}
