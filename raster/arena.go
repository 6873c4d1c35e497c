package raster

import (
	"fmt"
	"sync"
)

// Allocator provides fresh transparent surfaces.
type Allocator interface {
	NewSurface(width, height int) (*Raster, error)
}

type heapAllocator struct{}

func (heapAllocator) NewSurface(width, height int) (*Raster, error) {
	return New(width, height)
}

// Heap allocates surfaces directly, without pooling or reference counting.
var Heap Allocator = heapAllocator{}

// Arena owns the rasters shared between graph nodes.
//
// Every holder of a raster (a node's committed output, a cache entry, an
// in-flight evaluation reading its upstream) takes a reference with Retain and
// drops it with Release. When the last reference is dropped the raster is
// returned to the pool and its pixels may be reused by a later NewSurface.
//
// Thread safety: All methods are safe for concurrent use.
type Arena struct {
	mu     sync.Mutex
	refs   map[*Raster]int
	pool   *Pool
	maxDim int
}

// NewArena creates an arena recycling through pool. Surfaces larger than
// maxDim in either direction are refused; maxDim <= 0 means MaxDimension.
func NewArena(pool *Pool, maxDim int) *Arena {
	if pool == nil {
		pool = NewPool(0)
	}
	if maxDim <= 0 || maxDim > MaxDimension {
		maxDim = MaxDimension
	}
	return &Arena{
		refs:   make(map[*Raster]int),
		pool:   pool,
		maxDim: maxDim,
	}
}

// NewSurface implements Allocator. The returned raster is not referenced yet.
func (a *Arena) NewSurface(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 || width > a.maxDim || height > a.maxDim {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return a.pool.Get(width, height)
}

// MaxDim returns the largest width or height NewSurface accepts.
func (a *Arena) MaxDim() int {
	return a.maxDim
}

// Retain adds a reference to r. A nil raster is ignored.
func (a *Arena) Retain(r *Raster) {
	if r == nil {
		return
	}
	a.mu.Lock()
	a.refs[r]++
	a.mu.Unlock()
}

// Release drops a reference to r, recycling it when none remain. Releasing a
// raster the arena does not track is a no-op.
func (a *Arena) Release(r *Raster) {
	if r == nil {
		return
	}
	a.mu.Lock()
	n, ok := a.refs[r]
	if !ok {
		a.mu.Unlock()
		return
	}
	if n > 1 {
		a.refs[r] = n - 1
		a.mu.Unlock()
		return
	}
	delete(a.refs, r)
	a.mu.Unlock()

	a.pool.Put(r)
}

// Refs returns the number of references held on r.
func (a *Arena) Refs(r *Raster) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refs[r]
}

// Live returns the number of referenced rasters.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.refs)
}
