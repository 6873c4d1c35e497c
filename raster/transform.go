package raster

import (
	"math"

	xdraw "golang.org/x/image/draw"
)

// TransformParams describes a Transform: uniform scale, clockwise rotation in
// degrees, then a translation in scaled pixels.
type TransformParams struct {
	Scale      float64
	Rotation   float64
	TranslateX float64
	TranslateY float64
}

// TransformLayout is the geometry of a transform applied to a w x h source.
type TransformLayout struct {
	// Scaled is the scaled, unrotated extent. This is what the node reports.
	Scaled Dims

	// Surface is the working surface: the rotated bounding box padded on
	// every side by the largest translation.
	SurfaceWidth  int
	SurfaceHeight int

	// Matrix maps source pixels onto the working surface.
	Matrix Affine
}

// Layout computes the transform geometry for a w x h source.
func (p TransformParams) Layout(w, h float64) TransformLayout {
	scaledW := w * p.Scale
	scaledH := h * p.Scale
	rad := p.Rotation * math.Pi / 180
	cos := snapUnit(math.Abs(math.Cos(rad)))
	sin := snapUnit(math.Abs(math.Sin(rad)))
	boundingW := scaledW*cos + scaledH*sin
	boundingH := scaledW*sin + scaledH*cos
	padding := max(math.Abs(p.TranslateX), math.Abs(p.TranslateY), 0)

	sw := surfaceExtent(boundingW + padding*2)
	sh := surfaceExtent(boundingH + padding*2)

	// Center the image on the origin, translate, scale, rotate, then move
	// the origin to the middle of the surface.
	m := Translate(-w/2, -h/2).
		Then(Translate(p.TranslateX, p.TranslateY)).
		Then(Scale(p.Scale, p.Scale)).
		Then(Rotate(rad)).
		Then(Translate(float64(sw)/2, float64(sh)/2))

	return TransformLayout{
		Scaled:        Dims{Width: scaledW, Height: scaledH},
		SurfaceWidth:  sw,
		SurfaceHeight: sh,
		Matrix:        m,
	}
}

// Transform draws src onto a new working surface per p. It returns the
// surface and the scaled extent, which is smaller than the surface whenever
// the image is rotated or translated.
func Transform(alloc Allocator, src *Raster, p TransformParams) (*Raster, Dims, error) {
	if src == nil {
		return nil, Dims{}, ErrNilRaster
	}
	l := p.Layout(float64(src.Width()), float64(src.Height()))
	if l.SurfaceWidth > MaxDimension || l.SurfaceHeight > MaxDimension {
		return nil, Dims{}, ErrInvalidDimensions
	}
	dst, err := alloc.NewSurface(l.SurfaceWidth, l.SurfaceHeight)
	if err != nil {
		return nil, Dims{}, err
	}
	xdraw.BiLinear.Transform(dst.img, l.Matrix.Aff3(), src.img, src.img.Rect, xdraw.Over, nil)
	return dst, l.Scaled, nil
}

// surfaceExtent rounds a working-surface extent up to whole pixels. Extents
// past MaxDimension, including NaN and Inf, map to MaxDimension+1 so the
// allocator rejects them instead of int conversion wrapping.
func surfaceExtent(v float64) int {
	if !(v <= MaxDimension) {
		return MaxDimension + 1
	}
	return max(1, int(math.Ceil(v)))
}

// snapUnit rounds values within float noise of 0 or 1, so right-angle
// rotations do not grow the working surface by a pixel.
func snapUnit(v float64) float64 {
	const eps = 1e-12
	switch {
	case v < eps:
		return 0
	case math.Abs(v-1) < eps:
		return 1
	}
	return v
}
