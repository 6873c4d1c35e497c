package raster

import "math"

// ColorAdjust holds color correction parameters. Brightness, Contrast and
// Saturation are percentages in [-100, 100], Exposure is in stops and Hue in
// degrees.
type ColorAdjust struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Exposure   float64
	Hue        float64
}

// IsIdentity reports whether a leaves every pixel unchanged.
func (a ColorAdjust) IsIdentity() bool {
	return a == ColorAdjust{}
}

// contrastFactor maps a contrast in [-1, 1] to a slope around mid-gray.
func contrastFactor(c float64) float64 {
	switch {
	case math.Abs(c) < 0.99:
		return (1 + c) / (1 - c)
	case c >= 0.99:
		return 100
	default:
		return 0.01
	}
}

// ColorCorrect applies a to the color channels of src. Alpha is untouched.
//
// Per pixel, in order: exposure gain, normalization, brightness offset,
// contrast around 0.5, saturation against Rec. 601 luma, hue rotation, clamp.
func ColorCorrect(alloc Allocator, src *Raster, a ColorAdjust) (*Raster, error) {
	if src == nil {
		return nil, ErrNilRaster
	}
	dst, err := alloc.NewSurface(src.Width(), src.Height())
	if err != nil {
		return nil, err
	}

	gain := math.Pow(2, a.Exposure)
	brightness := a.Brightness / 100
	contrast := contrastFactor(a.Contrast / 100)
	saturation := 1 + a.Saturation/100
	hue := a.Hue

	w, h := src.Width(), src.Height()
	for y := 0; y < h; y++ {
		srow := src.img.Pix[y*src.img.Stride : y*src.img.Stride+w*4]
		drow := dst.img.Pix[y*dst.img.Stride : y*dst.img.Stride+w*4]
		for i := 0; i < len(srow); i += 4 {
			r := min(255, float64(srow[i+0])*gain) / 255
			g := min(255, float64(srow[i+1])*gain) / 255
			b := min(255, float64(srow[i+2])*gain) / 255

			r, g, b = r+brightness, g+brightness, b+brightness

			r = (r-0.5)*contrast + 0.5
			g = (g-0.5)*contrast + 0.5
			b = (b-0.5)*contrast + 0.5

			gray := 0.299*r + 0.587*g + 0.114*b
			r = gray + (r-gray)*saturation
			g = gray + (g-gray)*saturation
			b = gray + (b-gray)*saturation

			if hue != 0 {
				r, g, b = rotateHue(r, g, b, hue)
			}

			drow[i+0] = unitToByte(r)
			drow[i+1] = unitToByte(g)
			drow[i+2] = unitToByte(b)
			drow[i+3] = srow[i+3]
		}
	}
	return dst, nil
}

// rotateHue shifts the hue of (r, g, b) by deg degrees, keeping the chroma
// and the minimum channel. Near-gray colors are returned unchanged.
func rotateHue(r, g, b, deg float64) (float64, float64, float64) {
	hi := max(r, g, b)
	lo := min(r, g, b)
	delta := hi - lo
	if delta <= 0.001 {
		return r, g, b
	}

	var h float64
	switch hi {
	case r:
		h = math.Mod((g-b)/delta, 6)
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h = math.Mod(h*60+deg, 360)
	if h < 0 {
		h += 360
	}

	c := delta
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))

	var nr, ng, nb float64
	switch {
	case h < 60:
		nr, ng, nb = c, x, 0
	case h < 120:
		nr, ng, nb = x, c, 0
	case h < 180:
		nr, ng, nb = 0, c, x
	case h < 240:
		nr, ng, nb = 0, x, c
	case h < 300:
		nr, ng, nb = x, 0, c
	default:
		nr, ng, nb = c, 0, x
	}
	return nr + lo, ng + lo, nb + lo
}

func unitToByte(v float64) uint8 {
	v = max(0, min(1, v))
	return uint8(math.Round(v * 255))
}
