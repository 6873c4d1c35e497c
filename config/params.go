package config

import (
	"fmt"
	"path/filepath"

	"github.com/gogpu/canal/effect"
)

// params are the document form of one effect kind. The same structs decode
// from YAML and HCL; fields absent from a document keep their defaults.
type params interface {
	spec(baseDir string) effect.Spec
}

type fileParams struct {
	Path     string `yaml:"path" hcl:"path,optional"`
	FileName string `yaml:"file_name" hcl:"file_name,optional"`
}

// spec resolves relative paths against the document's directory.
func (p *fileParams) spec(baseDir string) effect.Spec {
	if p.Path == "" {
		return effect.File{FileName: p.FileName}
	}
	path := p.Path
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	name := p.FileName
	if name == "" {
		name = filepath.Base(path)
	}
	return effect.File{FileName: name, Source: effect.Path(path)}
}

type textParams struct {
	Text       string  `yaml:"text" hcl:"text,optional"`
	FontSize   float64 `yaml:"font_size" hcl:"font_size,optional"`
	Color      string  `yaml:"color" hcl:"color,optional"`
	Alignment  string  `yaml:"alignment" hcl:"alignment,optional"`
	FontWeight string  `yaml:"font_weight" hcl:"font_weight,optional"`
	Padding    float64 `yaml:"padding" hcl:"padding,optional"`
}

func (p *textParams) spec(string) effect.Spec {
	return effect.Text{
		Text:       p.Text,
		FontSize:   p.FontSize,
		Color:      p.Color,
		Alignment:  effect.Alignment(p.Alignment),
		FontWeight: effect.FontWeight(p.FontWeight),
		Padding:    p.Padding,
	}
}

type nullParams struct{}

func (*nullParams) spec(string) effect.Spec { return effect.Null{} }

type blurParams struct {
	Amount  float64 `yaml:"amount" hcl:"amount,optional"`
	Quality string  `yaml:"quality" hcl:"quality,optional"`
}

func (p *blurParams) spec(string) effect.Spec {
	return effect.Blur{Amount: p.Amount, Quality: effect.BlurQuality(p.Quality)}
}

type opacityParams struct {
	Opacity float64 `yaml:"opacity" hcl:"opacity,optional"`
}

func (p *opacityParams) spec(string) effect.Spec {
	return effect.Opacity{Opacity: p.Opacity}
}

type colorCorrectParams struct {
	Brightness float64 `yaml:"brightness" hcl:"brightness,optional"`
	Contrast   float64 `yaml:"contrast" hcl:"contrast,optional"`
	Saturation float64 `yaml:"saturation" hcl:"saturation,optional"`
	Exposure   float64 `yaml:"exposure" hcl:"exposure,optional"`
	Hue        float64 `yaml:"hue" hcl:"hue,optional"`
}

func (p *colorCorrectParams) spec(string) effect.Spec {
	return effect.ColorCorrect(*p)
}

type transformParams struct {
	Scale      float64 `yaml:"scale" hcl:"scale,optional"`
	Rotation   float64 `yaml:"rotation" hcl:"rotation,optional"`
	TranslateX float64 `yaml:"translate_x" hcl:"translate_x,optional"`
	TranslateY float64 `yaml:"translate_y" hcl:"translate_y,optional"`
}

func (p *transformParams) spec(string) effect.Spec {
	return effect.Transform(*p)
}

type mergeParams struct {
	InputCount int `yaml:"input_count" hcl:"input_count,optional"`
}

func (p *mergeParams) spec(string) effect.Spec {
	return effect.Merge{InputCount: p.InputCount}
}

type compositionParams struct {
	Width   int    `yaml:"width" hcl:"width,optional"`
	Height  int    `yaml:"height" hcl:"height,optional"`
	FitMode string `yaml:"fit_mode" hcl:"fit_mode,optional"`
}

func (p *compositionParams) spec(string) effect.Spec {
	return effect.Composition{Width: p.Width, Height: p.Height, FitMode: effect.FitMode(p.FitMode)}
}

type exportParams struct {
	Format   string  `yaml:"format" hcl:"format,optional"`
	Quality  float64 `yaml:"quality" hcl:"quality,optional"`
	FileName string  `yaml:"file_name" hcl:"file_name,optional"`
}

func (p *exportParams) spec(string) effect.Spec {
	return effect.Export{Format: effect.Format(p.Format), Quality: p.Quality, FileName: p.FileName}
}

// newParams returns the params of kind, filled with the kind's defaults.
func newParams(kind string) (params, error) {
	k, err := effect.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	def, err := effect.Default(k)
	if err != nil {
		return nil, err
	}
	switch d := def.(type) {
	case effect.File:
		return &fileParams{FileName: d.FileName}, nil
	case effect.Text:
		return &textParams{
			Text:       d.Text,
			FontSize:   d.FontSize,
			Color:      d.Color,
			Alignment:  string(d.Alignment),
			FontWeight: string(d.FontWeight),
			Padding:    d.Padding,
		}, nil
	case effect.Null:
		return &nullParams{}, nil
	case effect.Blur:
		return &blurParams{Amount: d.Amount, Quality: string(d.Quality)}, nil
	case effect.Opacity:
		return &opacityParams{Opacity: d.Opacity}, nil
	case effect.ColorCorrect:
		p := colorCorrectParams(d)
		return &p, nil
	case effect.Transform:
		p := transformParams(d)
		return &p, nil
	case effect.Merge:
		return &mergeParams{InputCount: d.InputCount}, nil
	case effect.Composition:
		return &compositionParams{Width: d.Width, Height: d.Height, FitMode: string(d.FitMode)}, nil
	case effect.Export:
		return &exportParams{Format: string(d.Format), Quality: d.Quality, FileName: d.FileName}, nil
	default:
		return nil, fmt.Errorf("%w: %s", effect.ErrUnknownKind, kind)
	}
}
