// Package text renders the Text effect: one or more lines of text on a
// transparent surface, sized to fit.
//
// The rendering pipeline:
//
//   - Font faces: the Go fonts (regular and bold), parsed once and shared
//   - Shaping: each line is split into bidi runs and shaped with HarfBuzz
//     (github.com/go-text/typesetting)
//   - Rasterization: glyph outlines from golang.org/x/image/font/sfnt are
//     filled with golang.org/x/image/vector into a single coverage mask
//
// # Layout
//
// Lines are separated by '\n'. Each line advances by 1.2 times the font
// size. The surface is the widest line plus twice the padding, by the line
// count times the line height plus twice the padding, rounded up. Lines are
// hung from their top edge, so the first baseline sits one ascent below the
// top padding.
//
// # Example usage
//
//	r, err := text.Render(raster.Heap, text.Options{
//	    Text:  "Hello\nWorld",
//	    Size:  32,
//	    Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
//	    Align: text.AlignCenter,
//	})
package text
