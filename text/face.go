package text

import (
	"bytes"
	"fmt"
	"sync"

	ttf "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Weight selects a font face.
type Weight uint8

const (
	// WeightNormal is the regular face.
	WeightNormal Weight = iota

	// WeightBold is the bold face.
	WeightBold
)

// fontFace holds one font parsed twice: go-text for shaping and sfnt for
// glyph outlines. Both parsed forms are read-only and safe for concurrent use;
// per-call state (go-text faces, sfnt buffers) is created by the caller.
type fontFace struct {
	shaping *ttf.Font
	outline *sfnt.Font
}

func parseFace(name string, data []byte) (*fontFace, error) {
	face, err := ttf.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse %s: %w", name, err)
	}
	outline, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse %s outlines: %w", name, err)
	}
	return &fontFace{shaping: face.Font, outline: outline}, nil
}

var loadFaces = sync.OnceValues(func() ([2]*fontFace, error) {
	var faces [2]*fontFace
	var err error
	if faces[WeightNormal], err = parseFace("Go Regular", goregular.TTF); err != nil {
		return faces, err
	}
	if faces[WeightBold], err = parseFace("Go Bold", gobold.TTF); err != nil {
		return faces, err
	}
	return faces, nil
})

func faceFor(w Weight) (*fontFace, error) {
	faces, err := loadFaces()
	if err != nil {
		return nil, err
	}
	if w == WeightBold {
		return faces[WeightBold], nil
	}
	return faces[WeightNormal], nil
}
