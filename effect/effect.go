package effect

import "fmt"

// Kind identifies an effect variant.
type Kind string

// Effect kinds.
const (
	KindFile         Kind = "file"
	KindText         Kind = "text"
	KindNull         Kind = "null"
	KindBlur         Kind = "blur"
	KindOpacity      Kind = "opacity"
	KindColorCorrect Kind = "colorCorrect"
	KindTransform    Kind = "transform"
	KindMerge        Kind = "merge"
	KindComposition  Kind = "composition"
	KindExport       Kind = "export"
)

// Kinds lists every effect kind in palette order.
var Kinds = []Kind{
	KindFile, KindBlur, KindNull, KindText, KindMerge, KindTransform,
	KindOpacity, KindColorCorrect, KindComposition, KindExport,
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Spec is the parameter set of one effect. It is implemented only by the
// variant types in this package.
type Spec interface {
	Kind() Kind
	isSpec()
}

// Alignment is the horizontal alignment of text lines.
type Alignment string

// Text alignments.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// FontWeight selects the text face.
type FontWeight string

// Font weights.
const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

// BlurQuality selects the blur kernel.
type BlurQuality string

// Blur qualities.
const (
	QualityLow  BlurQuality = "low"
	QualityHigh BlurQuality = "high"
)

// FitMode maps a source raster into a target-sized surface.
type FitMode string

// Fit modes.
const (
	FitCover   FitMode = "cover"
	FitContain FitMode = "contain"
	FitFill    FitMode = "fill"
	FitNone    FitMode = "none"
)

// Format is an export encoding.
type Format string

// Export formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// File loads an image. Source is nil until a file has been chosen.
type File struct {
	FileName string
	Source   Source
}

// Text renders one or more lines of text onto a transparent surface.
type Text struct {
	Text       string
	FontSize   float64
	Color      string
	Alignment  Alignment
	FontWeight FontWeight
	Padding    float64
}

// Null passes its input through unchanged.
type Null struct{}

// Blur applies a blur of Amount pixels.
type Blur struct {
	Amount  float64
	Quality BlurQuality
}

// Opacity scales the alpha of its input.
type Opacity struct {
	Opacity float64
}

// ColorCorrect adjusts exposure, brightness, contrast, saturation and hue.
type ColorCorrect struct {
	Brightness float64 // [-100, 100]
	Contrast   float64 // [-100, 100]
	Saturation float64 // [-100, 100]
	Exposure   float64 // [-2, 2] stops
	Hue        float64 // [0, 360] degrees
}

// Transform scales, rotates (degrees) and translates its input.
type Transform struct {
	Scale      float64
	Rotation   float64
	TranslateX float64
	TranslateY float64
}

// Merge layers InputCount inputs over input-0.
type Merge struct {
	InputCount int
}

// Composition resizes its input onto a Width x Height surface.
type Composition struct {
	Width   int
	Height  int
	FitMode FitMode
}

// Export passes its input through; encoding happens on demand.
type Export struct {
	Format   Format
	Quality  float64
	FileName string
}

func (File) Kind() Kind         { return KindFile }
func (Text) Kind() Kind         { return KindText }
func (Null) Kind() Kind         { return KindNull }
func (Blur) Kind() Kind         { return KindBlur }
func (Opacity) Kind() Kind      { return KindOpacity }
func (ColorCorrect) Kind() Kind { return KindColorCorrect }
func (Transform) Kind() Kind    { return KindTransform }
func (Merge) Kind() Kind        { return KindMerge }
func (Composition) Kind() Kind  { return KindComposition }
func (Export) Kind() Kind       { return KindExport }

func (File) isSpec()         {}
func (Text) isSpec()         {}
func (Null) isSpec()         {}
func (Blur) isSpec()         {}
func (Opacity) isSpec()      {}
func (ColorCorrect) isSpec() {}
func (Transform) isSpec()    {}
func (Merge) isSpec()        {}
func (Composition) isSpec()  {}
func (Export) isSpec()       {}
