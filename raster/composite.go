package raster

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Fit maps a source raster into a target-sized surface.
type Fit uint8

const (
	// FitFill stretches the source to exactly the target size.
	FitFill Fit = iota

	// FitContain scales uniformly to fit inside the target, letterboxed.
	FitContain

	// FitCover scales uniformly to cover the target, cropping overflow.
	FitCover

	// FitNone draws the source unscaled at the origin.
	FitNone
)

// Opacity returns src with its alpha multiplied by alpha, clamped to [0, 1].
// Color channels are left alone, so alpha 1 reproduces src exactly.
func Opacity(alloc Allocator, src *Raster, alpha float64) (*Raster, error) {
	if src == nil {
		return nil, ErrNilRaster
	}
	dst, err := alloc.NewSurface(src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	alpha = max(0, min(1, alpha))
	if alpha == 0 {
		return dst, nil
	}

	copy(dst.img.Pix, src.img.Pix)
	if alpha == 1 {
		return dst, nil
	}
	pix := dst.img.Pix
	for i := 3; i < len(pix); i += 4 {
		pix[i] = uint8(math.Round(float64(pix[i]) * alpha))
	}
	return dst, nil
}

// Layer composites src over dst at the origin, unscaled. dst is modified in
// place and must not be shared yet.
func Layer(dst, src *Raster) error {
	if dst == nil || src == nil {
		return ErrNilRaster
	}
	xdraw.Draw(dst.img, src.img.Rect, src.img, image.Point{}, xdraw.Over)
	return nil
}

// Stretch returns src resampled to exactly width x height.
func Stretch(alloc Allocator, src *Raster, width, height int) (*Raster, error) {
	return FitInto(alloc, src, width, height, FitFill)
}

// FitInto draws src onto a transparent width x height surface using mode.
func FitInto(alloc Allocator, src *Raster, width, height int, mode Fit) (*Raster, error) {
	if src == nil {
		return nil, ErrNilRaster
	}
	dst, err := alloc.NewSurface(width, height)
	if err != nil {
		return nil, err
	}

	sw, sh := float64(src.Width()), float64(src.Height())
	tw, th := float64(width), float64(height)

	if mode == FitNone || (mode == FitFill && src.Width() == width && src.Height() == height) {
		xdraw.Draw(dst.img, src.img.Rect, src.img, image.Point{}, xdraw.Src)
		return dst, nil
	}

	var m Affine
	switch mode {
	case FitContain, FitCover:
		s := min(tw/sw, th/sh)
		if mode == FitCover {
			s = max(tw/sw, th/sh)
		}
		m = Scale(s, s).Then(Translate((tw-sw*s)/2, (th-sh*s)/2))
	default:
		m = Scale(tw/sw, th/sh)
	}

	xdraw.CatmullRom.Transform(dst.img, m.Aff3(), src.img, src.img.Rect, xdraw.Over, nil)
	return dst, nil
}
