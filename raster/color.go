package raster

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned by ParseColor for unrecognized input.
var ErrInvalidColor = errors.New("raster: invalid color")

// ParseColor parses a CSS-style color: #rgb, #rgba, #rrggbb, #rrggbbaa or
// an SVG color keyword, or "transparent".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	name := strings.ToLower(s)
	if name == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		// Keywords are opaque, so the premultiplied values carry over.
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	var v [4]uint8
	v[3] = 255
	switch len(hex) {
	case 3, 4: // RGB, RGBA
		for i := range len(hex) {
			n, ok := parseHex(hex[i : i+1])
			if !ok {
				return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			v[i] = n * 17
		}
	case 6, 8: // RRGGBB, RRGGBBAA
		for i := 0; i < len(hex); i += 2 {
			n, ok := parseHex(hex[i : i+2])
			if !ok {
				return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			v[i/2] = n
		}
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

func parseHex(s string) (uint8, bool) {
	var val uint8
	for i := 0; i < len(s); i++ {
		c := s[i]
		val *= 16
		switch {
		case '0' <= c && c <= '9':
			val += c - '0'
		case 'a' <= c && c <= 'f':
			val += c - 'a' + 10
		case 'A' <= c && c <= 'F':
			val += c - 'A' + 10
		default:
			return 0, false
		}
	}
	return val, true
}
