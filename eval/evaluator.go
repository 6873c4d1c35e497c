package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/gogpu/canal/effect"
	"github.com/gogpu/canal/graph"
	"github.com/gogpu/canal/internal/cache"
	"github.com/gogpu/canal/raster"
)

// Result is a computed node output.
type Result struct {
	Raster *raster.Raster
	Dims   raster.Dims

	retained bool // the caller's reference is already held
}

// Evaluator computes effect outputs. Every surface it produces comes from
// its arena.
//
// Thread safety: Evaluate may be called concurrently.
type Evaluator struct {
	arena  *raster.Arena
	logger *slog.Logger

	// decodeMu makes cache lookups and the following Retain atomic with
	// respect to evictions, which release the evicted raster.
	decodeMu sync.Mutex
	decoded  *cache.Cache[string, *raster.Raster]
}

// New creates an evaluator allocating from arena.
func New(arena *raster.Arena, opts ...Option) *Evaluator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if arena == nil {
		arena = raster.NewArena(raster.NewPool(0), 0)
	}
	e := &Evaluator{
		arena:  arena,
		logger: o.logger,
	}
	if o.decodeCacheSize > 0 {
		e.decoded = cache.New(o.decodeCacheSize, func(_ string, r *raster.Raster) {
			arena.Release(r)
		})
	}
	return e
}

// Arena returns the arena surfaces are allocated from.
func (e *Evaluator) Arena() *raster.Arena {
	return e.arena
}

// DecodeCacheStats returns statistics of the decode cache.
func (e *Evaluator) DecodeCacheStats() cache.Stats {
	if e.decoded == nil {
		return cache.Stats{}
	}
	return e.decoded.Stats()
}

// Close empties the decode cache, releasing its rasters.
func (e *Evaluator) Close() {
	if e.decoded == nil {
		return
	}
	e.decodeMu.Lock()
	defer e.decodeMu.Unlock()
	e.decoded.Clear()
}

// Evaluate computes the output of spec given its upstream. It returns nil
// for "no output". The caller owns one reference on the returned raster and
// must release it through the arena.
func (e *Evaluator) Evaluate(ctx context.Context, spec effect.Spec, up graph.Upstream) *Result {
	if spec == nil {
		return nil
	}
	start := time.Now()

	var (
		res *Result
		err error
		pc  panics.Catcher
	)
	pc.Try(func() {
		res, err = e.evaluate(ctx, effect.Normalize(spec), up)
	})
	if r := pc.Recovered(); r != nil {
		e.logger.Warn("eval: effect panicked",
			"kind", spec.Kind(),
			"err", fmt.Errorf("%w: %v", ErrPanic, r.Value),
			"stack", string(r.Stack))
		return nil
	}
	if err != nil {
		e.logger.Debug("eval: no output",
			"kind", spec.Kind(),
			"reason", err,
			"duration", time.Since(start))
		return nil
	}
	if res == nil {
		return nil
	}
	if !res.retained {
		e.arena.Retain(res.Raster)
	}
	e.logger.Debug("eval: done",
		"kind", spec.Kind(),
		"width", res.Dims.Width,
		"height", res.Dims.Height,
		"duration", time.Since(start))
	return res
}

// evaluate dispatches on the effect kind. A returned raster is fresh from
// the arena, borrowed from up, or already retained for the caller.
func (e *Evaluator) evaluate(ctx context.Context, spec effect.Spec, up graph.Upstream) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch s := spec.(type) {
	case effect.File:
		return e.file(ctx, s)
	case effect.Text:
		return e.text(s)
	case effect.Null:
		return passthrough(up.Single())
	case effect.Export:
		return passthrough(up.Single())
	case effect.Blur:
		return e.blur(s, up.Single())
	case effect.Opacity:
		return e.opacity(s, up.Single())
	case effect.ColorCorrect:
		return e.colorCorrect(s, up.Single())
	case effect.Transform:
		return e.transform(s, up.Single())
	case effect.Merge:
		return e.merge(s, up)
	case effect.Composition:
		return e.composition(s, up.Single())
	default:
		return nil, fmt.Errorf("%w: %s", effect.ErrUnknownKind, spec.Kind())
	}
}

// input returns the upstream raster of a single-input effect.
func input(ref *graph.Ref) (*raster.Raster, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: not connected", ErrMissingUpstream)
	}
	if ref.Output == nil {
		return nil, fmt.Errorf("%w: %q has no output", ErrMissingUpstream, ref.NodeID)
	}
	return ref.Output, nil
}

// surface classifies allocation failures.
func surface(r *raster.Raster, err error) (*raster.Raster, error) {
	if err != nil {
		if errors.Is(err, raster.ErrInvalidDimensions) {
			return nil, fmt.Errorf("%w: %w", ErrNoSurface, err)
		}
		return nil, err
	}
	return r, nil
}
