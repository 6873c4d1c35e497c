package eval

import (
	"context"
	"fmt"
	"math"

	"github.com/gogpu/canal/effect"
	"github.com/gogpu/canal/graph"
	"github.com/gogpu/canal/raster"
	"github.com/gogpu/canal/text"
)

// passthrough forwards the upstream raster and dims unchanged.
func passthrough(ref *graph.Ref) (*Result, error) {
	src, err := input(ref)
	if err != nil {
		return nil, err
	}
	return &Result{Raster: src, Dims: ref.Dims}, nil
}

func (e *Evaluator) text(s effect.Text) (*Result, error) {
	c, err := raster.ParseColor(s.Color)
	if err != nil {
		// An unparsable fill style leaves the canvas default, black.
		e.logger.Debug("eval: text color", "color", s.Color, "err", err)
		c, _ = raster.ParseColor("black")
	}
	opts := text.Options{
		Text:    s.Text,
		Size:    s.FontSize,
		Color:   c,
		Padding: s.Padding,
	}
	if s.FontWeight == effect.WeightBold {
		opts.Weight = text.WeightBold
	}
	switch s.Alignment {
	case effect.AlignCenter:
		opts.Align = text.AlignCenter
	case effect.AlignRight:
		opts.Align = text.AlignRight
	}

	r, err := surface(text.Render(e.arena, opts))
	if err != nil {
		return nil, err
	}
	return &Result{Raster: r, Dims: raster.DimsOf(r)}, nil
}

func (e *Evaluator) blur(s effect.Blur, ref *graph.Ref) (*Result, error) {
	src, err := input(ref)
	if err != nil {
		return nil, err
	}
	kind := raster.KernelGaussian
	if s.Quality == effect.QualityLow {
		kind = raster.KernelBox
	}
	r, err := surface(raster.Blur(e.arena, src, s.Amount, kind))
	if err != nil {
		return nil, err
	}
	return &Result{Raster: r, Dims: ref.Dims}, nil
}

func (e *Evaluator) opacity(s effect.Opacity, ref *graph.Ref) (*Result, error) {
	src, err := input(ref)
	if err != nil {
		return nil, err
	}
	r, err := surface(raster.Opacity(e.arena, src, s.Opacity))
	if err != nil {
		return nil, err
	}
	return &Result{Raster: r, Dims: ref.Dims}, nil
}

func (e *Evaluator) colorCorrect(s effect.ColorCorrect, ref *graph.Ref) (*Result, error) {
	src, err := input(ref)
	if err != nil {
		return nil, err
	}
	adjust := raster.ColorAdjust{
		Brightness: s.Brightness,
		Contrast:   s.Contrast,
		Saturation: s.Saturation,
		Exposure:   s.Exposure,
		Hue:        s.Hue,
	}
	if adjust.IsIdentity() {
		return &Result{Raster: src, Dims: ref.Dims}, nil
	}
	r, err := surface(raster.ColorCorrect(e.arena, src, adjust))
	if err != nil {
		return nil, err
	}
	return &Result{Raster: r, Dims: ref.Dims}, nil
}

// transform measures the upstream raster itself, not its reported dims: a
// rotated upstream hands over its whole working surface.
func (e *Evaluator) transform(s effect.Transform, ref *graph.Ref) (*Result, error) {
	src, err := input(ref)
	if err != nil {
		return nil, err
	}
	r, dims, err := raster.Transform(e.arena, src, raster.TransformParams{
		Scale:      s.Scale,
		Rotation:   s.Rotation,
		TranslateX: s.TranslateX,
		TranslateY: s.TranslateY,
	})
	if r, err = surface(r, err); err != nil {
		return nil, err
	}
	return &Result{Raster: r, Dims: dims}, nil
}

// merge layers inputs 1..n-1 over input 0. A merge with only input-0
// connected passes it through; otherwise every input must have output.
func (e *Evaluator) merge(s effect.Merge, up graph.Upstream) (*Result, error) {
	if up.Connected() == 1 && len(up) > 0 && up[0] != nil {
		return passthrough(up[0])
	}
	if len(up) < s.InputCount {
		return nil, fmt.Errorf("%w: %d of %d handles", ErrMergeIncomplete, len(up), s.InputCount)
	}
	for i, ref := range up[:s.InputCount] {
		if ref == nil || ref.Output == nil {
			return nil, fmt.Errorf("%w: %s", ErrMergeIncomplete, effect.MergeHandle(i))
		}
	}

	base := up[0]
	w := int(math.Ceil(base.Dims.Width))
	h := int(math.Ceil(base.Dims.Height))
	dst, err := surface(raster.Stretch(e.arena, base.Output, w, h))
	if err != nil {
		return nil, err
	}
	for _, ref := range up[1:s.InputCount] {
		if err := raster.Layer(dst, ref.Output); err != nil {
			return nil, err
		}
	}
	return &Result{Raster: dst, Dims: base.Dims}, nil
}

func (e *Evaluator) composition(s effect.Composition, ref *graph.Ref) (*Result, error) {
	src, err := input(ref)
	if err != nil {
		return nil, err
	}
	fit := raster.FitContain
	switch s.FitMode {
	case effect.FitCover:
		fit = raster.FitCover
	case effect.FitFill:
		fit = raster.FitFill
	case effect.FitNone:
		fit = raster.FitNone
	}
	r, err := surface(raster.FitInto(e.arena, src, s.Width, s.Height, fit))
	if err != nil {
		return nil, err
	}
	return &Result{
		Raster: r,
		Dims:   raster.Dims{Width: float64(s.Width), Height: float64(s.Height)},
	}, nil
}

// file decodes the source, sharing decoded rasters between nodes through
// the decode cache.
func (e *Evaluator) file(ctx context.Context, s effect.File) (*Result, error) {
	if s.Source == nil {
		return nil, ErrNoSource
	}
	key := s.Source.Key()

	if r, ok := e.cached(key); ok {
		return &Result{Raster: r, Dims: raster.DimsOf(r), retained: true}, nil
	}

	r, err := decode(s.Source, e.arena.MaxDim())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, s.FileName, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.store(key, r)
	return &Result{Raster: r, Dims: raster.DimsOf(r), retained: true}, nil
}

// decode reads src into a raster no larger than maxDim on either side.
func decode(src effect.Source, maxDim int) (*raster.Raster, error) {
	if d, ok := src.(effect.Decoded); ok {
		img := d.Image()
		if img == nil {
			return nil, raster.ErrNilRaster
		}
		if b := img.Bounds(); b.Dx() > maxDim || b.Dy() > maxDim {
			return nil, fmt.Errorf("%w: %dx%d", raster.ErrInvalidDimensions, b.Dx(), b.Dy())
		}
		return raster.FromImage(img)
	}
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	r, _, err := raster.DecodeLimit(rc, maxDim)
	return r, err
}

// cached returns a decoded raster with a reference held for the caller.
func (e *Evaluator) cached(key string) (*raster.Raster, bool) {
	if e.decoded == nil {
		return nil, false
	}
	e.decodeMu.Lock()
	defer e.decodeMu.Unlock()
	r, ok := e.decoded.Get(key)
	if ok {
		e.arena.Retain(r)
	}
	return r, ok
}

// store adds a decoded raster to the cache. Like cached, it leaves a
// reference held for the caller; the cache holds another.
func (e *Evaluator) store(key string, r *raster.Raster) {
	e.arena.Retain(r)
	if e.decoded == nil {
		return
	}
	e.decodeMu.Lock()
	defer e.decodeMu.Unlock()
	e.arena.Retain(r)
	e.decoded.Set(key, r)
}
