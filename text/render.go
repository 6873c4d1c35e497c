package text

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/canal/raster"
)

// LineHeight is the line advance as a multiple of the font size.
const LineHeight = 1.2

// Align is the horizontal alignment of each line.
type Align uint8

const (
	// AlignLeft places lines at the left padding.
	AlignLeft Align = iota

	// AlignCenter centers lines on the surface.
	AlignCenter

	// AlignRight places lines against the right padding.
	AlignRight
)

// Options describes a block of text to render.
type Options struct {
	Text    string
	Size    float64 // font size in pixels per em
	Weight  Weight
	Color   color.NRGBA
	Align   Align
	Padding float64
}

// Layout is a measured block of text.
type Layout struct {
	// Width and Height are the surface size in pixels.
	Width  int
	Height int

	lines   []line
	ascent  float64
	face    *fontFace
	options Options
}

// Measure shapes every line of opts.Text and computes the surface size.
func Measure(opts Options) (*Layout, error) {
	if strings.TrimSpace(opts.Text) == "" {
		return nil, ErrEmptyText
	}
	if !(opts.Size > 0) || math.IsInf(opts.Size, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, opts.Size)
	}
	opts.Padding = max(0, opts.Padding)

	face, err := faceFor(opts.Weight)
	if err != nil {
		return nil, err
	}

	var buf sfnt.Buffer
	metrics, err := face.outline.Metrics(&buf, floatToFixed(opts.Size), xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("text: font metrics: %w", err)
	}

	texts := strings.Split(opts.Text, "\n")
	lines := make([]line, len(texts))
	var maxWidth float64
	for i, s := range texts {
		lines[i] = shapeLine(face, s, opts.Size)
		maxWidth = max(maxWidth, lines[i].width)
	}

	lineHeight := opts.Size * LineHeight
	return &Layout{
		Width:   max(1, int(math.Ceil(maxWidth+opts.Padding*2))),
		Height:  max(1, int(math.Ceil(float64(len(lines))*lineHeight+opts.Padding*2))),
		lines:   lines,
		ascent:  fixedToFloat(metrics.Ascent),
		face:    face,
		options: opts,
	}, nil
}

// lineX returns the left edge of a line of the given width.
func (l *Layout) lineX(width float64) float64 {
	switch l.options.Align {
	case AlignCenter:
		return (float64(l.Width) - width) / 2
	case AlignRight:
		return float64(l.Width) - width - l.options.Padding
	default:
		return l.options.Padding
	}
}

// Draw renders the layout onto a fresh transparent surface.
func (l *Layout) Draw(alloc raster.Allocator) (*raster.Raster, error) {
	dst, err := alloc.NewSurface(l.Width, l.Height)
	if err != nil {
		return nil, err
	}

	z := vector.NewRasterizer(l.Width, l.Height)
	var buf sfnt.Buffer
	ppem := floatToFixed(l.options.Size)
	lineHeight := l.options.Size * LineHeight

	for i, ln := range l.lines {
		ox := l.lineX(ln.width)
		baseline := l.options.Padding + float64(i)*lineHeight + l.ascent
		for _, g := range ln.glyphs {
			segs, err := l.face.outline.LoadGlyph(&buf, sfnt.GlyphIndex(g.id), ppem, nil) //nolint:gosec // Go fonts have < 65536 glyphs
			if err != nil {
				// Missing or colored glyphs render as blanks.
				continue
			}
			addOutline(z, segs, ox+g.x, baseline+g.y)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, l.Width, l.Height))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	xdraw.DrawMask(dst.NRGBA(), mask.Bounds(), image.NewUniform(l.options.Color), image.Point{}, mask, image.Point{}, xdraw.Over)
	return dst, nil
}

// addOutline appends glyph segments to z, offset to (x, y).
func addOutline(z *vector.Rasterizer, segs sfnt.Segments, x, y float64) {
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(x + fixedToFloat(p.X)), float32(y + fixedToFloat(p.Y))
	}
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		z.ClosePath()
	}
}

// Render measures and draws opts in one step.
func Render(alloc raster.Allocator, opts Options) (*raster.Raster, error) {
	l, err := Measure(opts)
	if err != nil {
		return nil, err
	}
	return l.Draw(alloc)
}
