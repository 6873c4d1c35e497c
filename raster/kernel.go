package raster

import (
	"math"
	"sync"
)

// KernelKind selects the blur kernel fidelity.
type KernelKind uint8

const (
	// KernelGaussian is an exact Gaussian with sigma equal to the radius.
	KernelGaussian KernelKind = iota

	// KernelBox approximates the same Gaussian with three box passes.
	KernelBox
)

// GaussianKernel generates a 1D Gaussian kernel for the given radius.
// The kernel is normalized so all values sum to 1.0.
//
// The kernel size is computed as 2 * ceil(radius * 3) + 1, which covers
// 99.7% of the Gaussian distribution (3 standard deviations).
//
// For radius <= 0, returns a single-element kernel [1.0] (identity).
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	sigma := radius
	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1

	kernel := make([]float32, size)
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)

	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range kernel {
			kernel[i] *= invSum
		}
	}

	return kernel
}

// BoxKernel generates a 1D box (uniform) kernel for the given radius.
// All values are equal: 1/(2*radius+1).
func BoxKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	size := radius*2 + 1
	kernel := make([]float32, size)
	val := float32(1.0) / float32(size)

	for i := range kernel {
		kernel[i] = val
	}

	return kernel
}

// TripleBoxKernel returns three box passes folded into one kernel whose
// variance matches a Gaussian of the given radius (sigma).
func TripleBoxKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}
	// Three boxes of width w have variance (w*w - 1) / 4.
	w := math.Sqrt(4*radius*radius + 1)
	box := BoxKernel(int(math.Round((w - 1) / 2)))
	return convolve(convolve(box, box), box)
}

func convolve(a, b []float32) []float32 {
	out := make([]float32, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// kernelKey quantizes the radius to 0.01 precision.
type kernelKey struct {
	kind   KernelKind
	radius int
}

// kernelCache caches computed kernels to avoid recomputation.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[kernelKey][]float32
	maxLen int
}

var defaultKernelCache = newKernelCache(64)

func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		cache:  make(map[kernelKey][]float32),
		maxLen: maxLen,
	}
}

func (c *kernelCache) get(kind KernelKind, radius float64) []float32 {
	key := kernelKey{kind: kind, radius: int(radius * 100)}

	c.mu.RLock()
	if kernel, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	var kernel []float32
	if kind == KernelBox {
		kernel = TripleBoxKernel(radius)
	} else {
		kernel = GaussianKernel(radius)
	}

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Simple eviction: clear half the cache
		count := 0
		for k := range c.cache {
			delete(c.cache, k)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// CachedKernel returns a cached kernel of the given kind and radius.
func CachedKernel(kind KernelKind, radius float64) []float32 {
	return defaultKernelCache.get(kind, radius)
}
