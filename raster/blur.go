package raster

import (
	"sync"
)

// Blur convolves src with a separable kernel of the given radius and returns
// a new surface of the same size. Pixels outside the raster are treated as
// transparent, so edges fade the way a canvas blur filter does. Color channels
// are blurred premultiplied to avoid dark fringes around transparent areas.
//
// A radius <= 0 returns an exact copy.
func Blur(alloc Allocator, src *Raster, radius float64, kind KernelKind) (*Raster, error) {
	if src == nil {
		return nil, ErrNilRaster
	}
	width, height := src.Width(), src.Height()
	dst, err := alloc.NewSurface(width, height)
	if err != nil {
		return nil, err
	}

	if radius <= 0 {
		copy(dst.img.Pix, src.img.Pix)
		return dst, nil
	}

	kernel := CachedKernel(kind, radius)

	plane := getTempBuffer(width, height)
	defer putTempBuffer(plane)
	temp := getTempBuffer(width, height)
	defer putTempBuffer(temp)

	premultiply(src, plane)
	blurHorizontal(plane, temp, width, height, kernel)
	blurVertical(temp, plane, width, height, kernel)
	unpremultiply(plane, dst)

	return dst, nil
}

// premultiply expands src into a float32 premultiplied RGBA plane.
func premultiply(src *Raster, plane []float32) {
	w, h := src.Width(), src.Height()
	for y := 0; y < h; y++ {
		row := src.img.Pix[y*src.img.Stride : y*src.img.Stride+w*4]
		for x := 0; x < w; x++ {
			i := x * 4
			a := float32(row[i+3]) / 255
			o := (y*w + x) * 4
			plane[o+0] = float32(row[i+0]) * a
			plane[o+1] = float32(row[i+1]) * a
			plane[o+2] = float32(row[i+2]) * a
			plane[o+3] = float32(row[i+3])
		}
	}
}

// unpremultiply writes a premultiplied plane back into dst.
func unpremultiply(plane []float32, dst *Raster) {
	w, h := dst.Width(), dst.Height()
	for y := 0; y < h; y++ {
		row := dst.img.Pix[y*dst.img.Stride : y*dst.img.Stride+w*4]
		for x := 0; x < w; x++ {
			o := (y*w + x) * 4
			a := plane[o+3]
			i := x * 4
			if a <= 0 {
				row[i+0], row[i+1], row[i+2], row[i+3] = 0, 0, 0, 0
				continue
			}
			inv := 255 / a
			row[i+0] = clampUint8(plane[o+0] * inv)
			row[i+1] = clampUint8(plane[o+1] * inv)
			row[i+2] = clampUint8(plane[o+2] * inv)
			row[i+3] = clampUint8(a)
		}
	}
}

// blurHorizontal applies 1D horizontal convolution from src to dst.
func blurHorizontal(src, dst []float32, width, height int, kernel []float32) {
	half := len(kernel) / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float32

			for k, weight := range kernel {
				kx := x + k - half
				if kx < 0 || kx >= width {
					continue
				}
				i := (y*width + kx) * 4
				r += src[i+0] * weight
				g += src[i+1] * weight
				b += src[i+2] * weight
				a += src[i+3] * weight
			}

			o := (y*width + x) * 4
			dst[o+0] = r
			dst[o+1] = g
			dst[o+2] = b
			dst[o+3] = a
		}
	}
}

// blurVertical applies 1D vertical convolution from src to dst.
func blurVertical(src, dst []float32, width, height int, kernel []float32) {
	half := len(kernel) / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float32

			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 || ky >= height {
					continue
				}
				i := (ky*width + x) * 4
				r += src[i+0] * weight
				g += src[i+1] * weight
				b += src[i+2] * weight
				a += src[i+3] * weight
			}

			o := (y*width + x) * 4
			dst[o+0] = r
			dst[o+1] = g
			dst[o+2] = b
			dst[o+3] = a
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() interface{} {
		return &floatBuffer{data: make([]float32, 512*512*4)}
	},
}

// getTempBuffer retrieves a zeroed buffer of at least width*height*4 elements.
func getTempBuffer(width, height int) []float32 {
	size := width * height * 4
	wrapper := tempBufferPool.Get().(*floatBuffer)

	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}

	buf := wrapper.data[:size]
	clear(buf)
	return buf
}

// putTempBuffer returns a temporary buffer to the pool.
func putTempBuffer(buf []float32) {
	// Only pool reasonably-sized buffers
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampUint8 clamps a float32 to [0, 255] and converts to uint8.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5) // Round to nearest
}
