package raster

import "sync"

// Pool is a thread-safe pool for reusing rasters.
//
// Pool groups rasters by their dimensions, allowing efficient reuse of
// identically-sized surfaces. Effects in a pipeline mostly produce surfaces of
// the same size as their input, so a released output is usually the right
// size for the next evaluation of the same node.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Raster
	maxSize int // max rasters per bucket
}

// poolKey identifies a bucket of identically-sized rasters.
type poolKey struct {
	width  int
	height int
}

// NewPool creates a raster pool retaining at most maxPerBucket rasters of
// each size. A maxPerBucket of 0 means unlimited (use with caution).
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Raster),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a transparent raster from the pool or creates a new one.
func (p *Pool) Get(width, height int) (*Raster, error) {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		r := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	return New(width, height)
}

// Put returns a raster to the pool. The raster is cleared before being stored
// and must not be used by the caller afterwards.
func (p *Pool) Put(r *Raster) {
	if r == nil {
		return
	}
	r.clear()

	key := poolKey{width: r.Width(), height: r.Height()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, r)
}

// Len returns the number of pooled rasters.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
