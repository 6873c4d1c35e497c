package raster

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestKernelsNormalized(t *testing.T) {
	tests := []struct {
		name   string
		kernel []float32
	}{
		{"gaussian 1", GaussianKernel(1)},
		{"gaussian 5.5", GaussianKernel(5.5)},
		{"box 3", BoxKernel(3)},
		{"triple box 4", TripleBoxKernel(4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sum float64
			for _, v := range tt.kernel {
				sum += float64(v)
			}
			if math.Abs(sum-1) > 1e-4 {
				t.Errorf("sum = %v, want 1", sum)
			}
			if len(tt.kernel)%2 != 1 {
				t.Errorf("len = %d, want odd", len(tt.kernel))
			}
		})
	}
	if len(GaussianKernel(0)) != 1 || len(TripleBoxKernel(-1)) != 1 {
		t.Error("non-positive radius should give the identity kernel")
	}
}

func TestBlurZeroIsCopy(t *testing.T) {
	src := createGradientRaster(t, 12, 7)
	got, err := Blur(Heap, src, 0, KernelGaussian)
	if err != nil {
		t.Fatal(err)
	}
	if got == src || !Equal(got, src) {
		t.Error("zero blur should return an equal copy")
	}
}

func TestBlurSolidInterior(t *testing.T) {
	c := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	src := createTestRaster(t, 40, 40, c)

	for _, kind := range []KernelKind{KernelGaussian, KernelBox} {
		got, err := Blur(Heap, src, 2, kind)
		if err != nil {
			t.Fatal(err)
		}
		if got.Width() != 40 || got.Height() != 40 {
			t.Fatalf("size = %dx%d", got.Width(), got.Height())
		}
		if center := got.NRGBAAt(20, 20); !colorApproxEqual(center, c, 1) {
			t.Errorf("kind %d: center = %v, want %v", kind, center, c)
		}
		// Transparent outside edge fades the border alpha.
		if corner := got.NRGBAAt(0, 0); corner.A >= 255 {
			t.Errorf("kind %d: corner alpha = %d, want < 255", kind, corner.A)
		}
		// Color does not darken next to transparency.
		if corner := got.NRGBAAt(0, 0); !colorApproxEqual(color.NRGBA{R: corner.R, G: corner.G, B: corner.B, A: 255}, c, 2) {
			t.Errorf("kind %d: corner color = %v, want hue of %v", kind, corner, c)
		}
	}
}

func TestBlurLeavesSourceUntouched(t *testing.T) {
	src := createGradientRaster(t, 10, 10)
	before := src.Clone()
	if _, err := Blur(Heap, src, 3, KernelBox); err != nil {
		t.Fatal(err)
	}
	if !Equal(src, before) {
		t.Error("blur modified its input")
	}
}

func TestColorCorrectIdentity(t *testing.T) {
	src := createGradientRaster(t, 32, 16)
	src.SetNRGBA(3, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	got, err := ColorCorrect(Heap, src, ColorAdjust{})
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(got, src) {
		t.Error("zero adjustment should be an identity")
	}
}

func TestColorCorrect(t *testing.T) {
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 200}
	tests := []struct {
		name   string
		src    color.NRGBA
		adjust ColorAdjust
		want   color.NRGBA
	}{
		{"exposure +1", color.NRGBA{R: 50, G: 100, B: 200, A: 255}, ColorAdjust{Exposure: 1}, color.NRGBA{R: 100, G: 200, B: 255, A: 255}},
		{"brightness +100", gray, ColorAdjust{Brightness: 100}, color.NRGBA{R: 255, G: 255, B: 255, A: 200}},
		{"brightness -100", gray, ColorAdjust{Brightness: -100}, color.NRGBA{A: 200}},
		{"full desaturate", color.NRGBA{R: 255, A: 255}, ColorAdjust{Saturation: -100}, color.NRGBA{R: 76, G: 76, B: 76, A: 255}},
		{"max contrast", color.NRGBA{R: 140, G: 100, B: 150, A: 255}, ColorAdjust{Contrast: 100}, color.NRGBA{R: 255, G: 0, B: 255, A: 255}},
		{"hue 120", color.NRGBA{R: 255, A: 255}, ColorAdjust{Hue: 120}, color.NRGBA{G: 255, A: 255}},
		{"hue on gray", gray, ColorAdjust{Hue: 90}, gray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := createTestRaster(t, 1, 1, tt.src)
			got, err := ColorCorrect(Heap, src, tt.adjust)
			if err != nil {
				t.Fatal(err)
			}
			if c := got.NRGBAAt(0, 0); !colorApproxEqual(c, tt.want, 1) {
				t.Errorf("got %v, want %v", c, tt.want)
			}
		})
	}
}

func TestTransformLayout(t *testing.T) {
	tests := []struct {
		name       string
		params     TransformParams
		wantScaled Dims
		wantW      int
		wantH      int
	}{
		{"identity", TransformParams{Scale: 1}, Dims{100, 50}, 100, 50},
		{"scale 2 rotate 90", TransformParams{Scale: 2, Rotation: 90}, Dims{200, 100}, 100, 200},
		{"translate pads", TransformParams{Scale: 1, TranslateX: -10, TranslateY: 4}, Dims{100, 50}, 120, 70},
		{"rotate 45", TransformParams{Scale: 1, Rotation: 45}, Dims{100, 50}, 107, 107},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.params.Layout(100, 50)
			if math.Abs(l.Scaled.Width-tt.wantScaled.Width) > 1e-9 || math.Abs(l.Scaled.Height-tt.wantScaled.Height) > 1e-9 {
				t.Errorf("Scaled = %+v, want %+v", l.Scaled, tt.wantScaled)
			}
			if l.SurfaceWidth != tt.wantW || l.SurfaceHeight != tt.wantH {
				t.Errorf("surface = %dx%d, want %dx%d", l.SurfaceWidth, l.SurfaceHeight, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestTransformIdentityPixels(t *testing.T) {
	src := createGradientRaster(t, 20, 10)
	got, dims, err := Transform(Heap, src, TransformParams{Scale: 1})
	if err != nil {
		t.Fatal(err)
	}
	if dims != (Dims{20, 10}) {
		t.Errorf("dims = %+v", dims)
	}
	for _, p := range [][2]int{{0, 0}, {10, 5}, {19, 9}} {
		if a, b := got.NRGBAAt(p[0], p[1]), src.NRGBAAt(p[0], p[1]); !colorApproxEqual(a, b, 1) {
			t.Errorf("pixel %v = %v, want %v", p, a, b)
		}
	}
}

func TestTransformRejectsOversizedSurface(t *testing.T) {
	src := createGradientRaster(t, 4, 4)
	tests := []struct {
		name   string
		params TransformParams
	}{
		{"huge translate", TransformParams{Scale: 1, TranslateX: 1e300}},
		{"infinite translate", TransformParams{Scale: 1, TranslateY: math.Inf(-1)}},
		{"huge scale", TransformParams{Scale: 1e12}},
		{"nan scale", TransformParams{Scale: math.NaN()}},
		{"just past limit", TransformParams{Scale: 1, TranslateX: MaxDimension / 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.params.Layout(4, 4)
			if l.SurfaceWidth <= MaxDimension && l.SurfaceHeight <= MaxDimension {
				t.Errorf("surface = %dx%d, want past %d", l.SurfaceWidth, l.SurfaceHeight, MaxDimension)
			}
			if _, _, err := Transform(Heap, src, tt.params); !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("err = %v, want ErrInvalidDimensions", err)
			}
		})
	}
}

func TestTransformMapsCenter(t *testing.T) {
	l := TransformParams{Scale: 2, Rotation: 90, TranslateX: 5}.Layout(100, 50)
	// The source center lands translated from the surface center, then rotated.
	x, y := l.Matrix.TransformPoint(50, 25)
	cx, cy := float64(l.SurfaceWidth)/2, float64(l.SurfaceHeight)/2
	if math.Abs(x-cx) > 1e-9 || math.Abs(y-(cy+10)) > 1e-9 {
		t.Errorf("center -> (%v, %v), want (%v, %v)", x, y, cx, cy+10)
	}
}

func TestOpacity(t *testing.T) {
	src := createGradientRaster(t, 8, 8)
	src.SetNRGBA(1, 1, color.NRGBA{R: 9, G: 8, B: 7, A: 100})

	same, err := Opacity(Heap, src, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(same, src) {
		t.Error("opacity 1 should be pixel-identical")
	}

	half, _ := Opacity(Heap, src, 0.5)
	if got := half.NRGBAAt(1, 1); got != (color.NRGBA{R: 9, G: 8, B: 7, A: 50}) {
		t.Errorf("half = %v", got)
	}

	none, _ := Opacity(Heap, src, -3)
	if got := none.NRGBAAt(4, 4); got.A != 0 {
		t.Errorf("clamped zero opacity alpha = %d", got.A)
	}
}

func TestLayer(t *testing.T) {
	dst := createTestRaster(t, 4, 4, color.NRGBA{R: 255, A: 255})
	src := createTestRaster(t, 2, 2, color.NRGBA{B: 255, A: 255})
	if err := Layer(dst, src); err != nil {
		t.Fatal(err)
	}
	if got := dst.NRGBAAt(1, 1); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("covered pixel = %v", got)
	}
	if got := dst.NRGBAAt(3, 3); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("uncovered pixel = %v", got)
	}
	if err := Layer(dst, nil); !errors.Is(err, ErrNilRaster) {
		t.Errorf("nil layer error = %v", err)
	}
}

func TestFitInto(t *testing.T) {
	opaque := color.NRGBA{R: 10, G: 200, B: 30, A: 255}
	src := createTestRaster(t, 200, 100, opaque)

	tests := []struct {
		name        string
		mode        Fit
		opaqueAt    [][2]int
		transparent [][2]int
	}{
		{"contain letterboxes", FitContain, [][2]int{{50, 50}, {0, 30}}, [][2]int{{50, 5}, {50, 94}}},
		{"cover fills", FitCover, [][2]int{{0, 0}, {99, 99}, {50, 50}}, nil},
		{"fill stretches", FitFill, [][2]int{{0, 0}, {99, 99}}, nil},
		{"none anchors origin", FitNone, [][2]int{{0, 0}, {99, 99}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FitInto(Heap, src, 100, 100, tt.mode)
			if err != nil {
				t.Fatal(err)
			}
			if got.Width() != 100 || got.Height() != 100 {
				t.Fatalf("size = %dx%d", got.Width(), got.Height())
			}
			for _, p := range tt.opaqueAt {
				if c := got.NRGBAAt(p[0], p[1]); !colorApproxEqual(c, opaque, 2) {
					t.Errorf("pixel %v = %v, want %v", p, c, opaque)
				}
			}
			for _, p := range tt.transparent {
				if c := got.NRGBAAt(p[0], p[1]); c.A != 0 {
					t.Errorf("pixel %v = %v, want transparent", p, c)
				}
			}
		})
	}
}

func TestFitNoneLeavesMargin(t *testing.T) {
	src := createTestRaster(t, 10, 10, color.NRGBA{R: 255, A: 255})
	got, err := FitInto(Heap, src, 20, 20, FitNone)
	if err != nil {
		t.Fatal(err)
	}
	if c := got.NRGBAAt(15, 15); c.A != 0 {
		t.Errorf("margin = %v, want transparent", c)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ffffff", color.NRGBA{255, 255, 255, 255}, false},
		{"#f00", color.NRGBA{255, 0, 0, 255}, false},
		{"#0f08", color.NRGBA{0, 255, 0, 136}, false},
		{"#11223344", color.NRGBA{0x11, 0x22, 0x33, 0x44}, false},
		{" Black ", color.NRGBA{0, 0, 0, 255}, false},
		{"transparent", color.NRGBA{}, false},
		{"cornflowerblue", color.NRGBA{100, 149, 237, 255}, false},
		{"#12345", color.NRGBA{}, true},
		{"#gg0000", color.NRGBA{}, true},
		{"rgb(1,2,3)", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
