package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	ttf "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// glyph is a positioned glyph, relative to the start of its line's baseline.
type glyph struct {
	id   ttf.GID
	x, y float64
}

// line is a shaped line of text.
type line struct {
	glyphs []glyph
	width  float64
}

// shaperPool pools HarfbuzzShaper instances, which are not safe for
// concurrent use.
var shaperPool = sync.Pool{
	New: func() any {
		return &shaping.HarfbuzzShaper{}
	},
}

// run is a piece of a line with a single direction.
type run struct {
	text []rune
	dir  di.Direction
}

// splitRuns splits s into directional runs in display order.
func splitRuns(s string) []run {
	p := bidi.Paragraph{}
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return []run{{text: []rune(s), dir: di.DirectionLTR}}
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return []run{{text: []rune(s), dir: di.DirectionLTR}}
	}

	runs := make([]run, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		dir := di.DirectionLTR
		if r.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		runs = append(runs, run{text: []rune(r.String()), dir: dir})
	}
	return runs
}

// shapeLine shapes s at size pixels per em.
func shapeLine(f *fontFace, s string, size float64) line {
	if s == "" {
		return line{}
	}

	face := ttf.NewFace(f.shaping)
	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	defer shaperPool.Put(hb)

	var out line
	var pen float64
	for _, r := range splitRuns(s) {
		if len(r.text) == 0 {
			continue
		}
		shaped := hb.Shape(shaping.Input{
			Text:      r.text,
			RunStart:  0,
			RunEnd:    len(r.text),
			Direction: r.dir,
			Face:      face,
			Size:      floatToFixed(size),
			Script:    detectScript(r.text),
			Language:  language.NewLanguage("en"),
		})
		for _, g := range shaped.Glyphs {
			out.glyphs = append(out.glyphs, glyph{
				id: g.GlyphID,
				x:  pen + fixedToFloat(g.XOffset),
				y:  -fixedToFloat(g.YOffset),
			})
			pen += fixedToFloat(g.Advance)
		}
	}
	out.width = pen
	return out
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
