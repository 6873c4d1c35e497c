package effect

import "math"

// Normalize returns s with every field clamped into its domain. Unknown enum
// values fall back to their defaults. Normalize never fails; a nil spec stays nil.
func Normalize(s Spec) Spec {
	switch v := s.(type) {
	case File, Null:
		return v
	case Text:
		if v.FontSize <= 0 || math.IsNaN(v.FontSize) {
			v.FontSize = DefaultFontSize
		}
		if v.Color == "" {
			v.Color = DefaultTextColor
		}
		switch v.Alignment {
		case AlignLeft, AlignCenter, AlignRight:
		default:
			v.Alignment = AlignLeft
		}
		if v.FontWeight != WeightBold {
			v.FontWeight = WeightNormal
		}
		v.Padding = math.Max(finite(v.Padding), 0)
		return v
	case Blur:
		v.Amount = clamp(finite(v.Amount), 0, MaxBlurAmount)
		if v.Quality != QualityLow {
			v.Quality = QualityHigh
		}
		return v
	case Opacity:
		v.Opacity = clamp(finite(v.Opacity), 0, 1)
		return v
	case ColorCorrect:
		v.Brightness = clamp(finite(v.Brightness), -100, 100)
		v.Contrast = clamp(finite(v.Contrast), -100, 100)
		v.Saturation = clamp(finite(v.Saturation), -100, 100)
		v.Exposure = clamp(finite(v.Exposure), -2, 2)
		v.Hue = clamp(finite(v.Hue), 0, 360)
		return v
	case Transform:
		if v.Scale <= 0 || math.IsNaN(v.Scale) || math.IsInf(v.Scale, 0) {
			v.Scale = 1
		}
		v.Rotation = math.Mod(finite(v.Rotation), 360)
		if v.Rotation < 0 {
			v.Rotation += 360
		}
		v.TranslateX = finite(v.TranslateX)
		v.TranslateY = finite(v.TranslateY)
		return v
	case Merge:
		v.InputCount = max(MinMergeInputs, min(MaxMergeInputs, v.InputCount))
		return v
	case Composition:
		if v.Width <= 0 {
			v.Width = DefaultCompositionW
		}
		if v.Height <= 0 {
			v.Height = DefaultCompositionH
		}
		switch v.FitMode {
		case FitCover, FitContain, FitFill, FitNone:
		default:
			v.FitMode = FitContain
		}
		return v
	case Export:
		switch v.Format {
		case FormatPNG, FormatJPEG, FormatWebP:
		default:
			v.Format = FormatPNG
		}
		if v.Quality <= 0 || math.IsNaN(v.Quality) {
			v.Quality = DefaultExportQuality
		}
		v.Quality = math.Min(v.Quality, 1)
		return v
	default:
		return s
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// finite maps NaN and infinities to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
