package raster

import (
	"image/color"
	"testing"
)

// createTestRaster creates a raster filled with a solid color.
func createTestRaster(t *testing.T, width, height int, c color.NRGBA) *Raster {
	t.Helper()
	r, err := New(width, height)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", width, height, err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.SetNRGBA(x, y, c)
		}
	}
	return r
}

// createGradientRaster creates a raster with a horizontal/vertical gradient.
func createGradientRaster(t *testing.T, width, height int) *Raster {
	t.Helper()
	r, err := New(width, height)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", width, height, err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(1, width-1)),
				G: uint8(y * 255 / max(1, height-1)),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return r
}

// colorApproxEqual checks if two colors are approximately equal.
func colorApproxEqual(a, b color.NRGBA, tolerance int) bool {
	diff := func(x, y uint8) int {
		d := int(x) - int(y)
		if d < 0 {
			return -d
		}
		return d
	}
	return diff(a.R, b.R) <= tolerance &&
		diff(a.G, b.G) <= tolerance &&
		diff(a.B, b.B) <= tolerance &&
		diff(a.A, b.A) <= tolerance
}
