package effect

// Default values used when a node is created and when a field is out of its
// domain.
const (
	DefaultBlurAmount     = 10
	MaxBlurAmount         = 100
	DefaultFontSize       = 16
	DefaultTextColor      = "#ffffff"
	DefaultExportQuality  = 0.92
	DefaultCompositionW   = 1920
	DefaultCompositionH   = 1080
	MinMergeInputs        = 2
	MaxMergeInputs        = 10
	defaultPaletteText    = "Text"
	defaultPaletteSize    = 32
	defaultPalettePadding = 10
)

// Default returns the spec a freshly created node of the given kind carries.
func Default(k Kind) (Spec, error) {
	switch k {
	case KindFile:
		return File{}, nil
	case KindText:
		return Text{
			Text:       defaultPaletteText,
			FontSize:   defaultPaletteSize,
			Color:      DefaultTextColor,
			Alignment:  AlignLeft,
			FontWeight: WeightNormal,
			Padding:    defaultPalettePadding,
		}, nil
	case KindNull:
		return Null{}, nil
	case KindBlur:
		return Blur{Amount: DefaultBlurAmount, Quality: QualityHigh}, nil
	case KindOpacity:
		return Opacity{Opacity: 1}, nil
	case KindColorCorrect:
		return ColorCorrect{}, nil
	case KindTransform:
		return Transform{Scale: 1}, nil
	case KindMerge:
		return Merge{InputCount: MinMergeInputs}, nil
	case KindComposition:
		return Composition{Width: DefaultCompositionW, Height: DefaultCompositionH, FitMode: FitContain}, nil
	case KindExport:
		return Export{Format: FormatPNG, Quality: DefaultExportQuality}, nil
	default:
		return nil, ErrUnknownKind
	}
}
