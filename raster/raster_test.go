package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestNewInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, 5},
		{"too wide", MaxDimension + 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.w, tt.h); !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("New(%d, %d) error = %v, want ErrInvalidDimensions", tt.w, tt.h, err)
			}
		})
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	src.SetNRGBA(5, 5, color.NRGBA{R: 10, A: 255})
	src.SetNRGBA(7, 6, color.NRGBA{B: 20, A: 255})

	r, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if r.Width() != 3 || r.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", r.Width(), r.Height())
	}
	if got := r.NRGBAAt(0, 0); got.R != 10 {
		t.Errorf("(0,0) = %v, want R=10", got)
	}
	if got := r.NRGBAAt(2, 1); got.B != 20 {
		t.Errorf("(2,1) = %v, want B=20", got)
	}
}

func TestFromImageConvertsModel(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 1, color.Gray{Y: 200})

	r, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	want := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	if got := r.NRGBAAt(1, 1); got != want {
		t.Errorf("(1,1) = %v, want %v", got, want)
	}
}

func TestFingerprintAndEqual(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	a := createTestRaster(t, 4, 4, red)
	b := createTestRaster(t, 4, 4, red)
	c := createTestRaster(t, 4, 4, color.NRGBA{G: 255, A: 255})
	d := createTestRaster(t, 2, 8, red)

	if !Equal(a, b) {
		t.Error("identical content should be equal")
	}
	if Equal(a, c) {
		t.Error("different content should not be equal")
	}
	if Equal(a, d) {
		t.Error("different sizes should not be equal")
	}
	if Equal(a, nil) || !Equal(nil, nil) {
		t.Error("nil handling is wrong")
	}
	if a.Fingerprint() != a.Clone().Fingerprint() {
		t.Error("clone should share the fingerprint")
	}
}

func TestPoolReuse(t *testing.T) {
	p := NewPool(1)
	r, err := p.Get(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	r.SetNRGBA(0, 0, color.NRGBA{R: 1, A: 1})
	p.Put(r)
	p.Put(createTestRaster(t, 8, 8, color.NRGBA{})) // over the bucket cap

	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	got, _ := p.Get(8, 8)
	if got != r {
		t.Error("Get should return the pooled raster")
	}
	if got.NRGBAAt(0, 0) != (color.NRGBA{}) {
		t.Error("pooled raster should be cleared")
	}
}

func TestArenaRefCounting(t *testing.T) {
	pool := NewPool(4)
	a := NewArena(pool, 64)

	r, err := a.NewSurface(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	a.Retain(r)
	a.Retain(r)
	if a.Refs(r) != 2 || a.Live() != 1 {
		t.Fatalf("Refs = %d, Live = %d; want 2, 1", a.Refs(r), a.Live())
	}

	a.Release(r)
	if pool.Len() != 0 {
		t.Error("raster recycled while still referenced")
	}
	a.Release(r)
	if a.Live() != 0 || pool.Len() != 1 {
		t.Errorf("Live = %d, pool = %d; want 0, 1", a.Live(), pool.Len())
	}

	// Untracked rasters are ignored.
	a.Release(createTestRaster(t, 2, 2, color.NRGBA{}))
	if pool.Len() != 1 {
		t.Error("untracked release should not reach the pool")
	}

	if _, err := a.NewSurface(65, 1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("oversized surface error = %v", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	src := createGradientRaster(t, 16, 9)

	tests := []struct {
		format string
		want   string
		exact  bool
	}{
		{FormatPNG, FormatPNG, true},
		{FormatWebP, FormatPNG, true},
		{FormatJPEG, FormatJPEG, false},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			written, err := Encode(&buf, src, tt.format, 0.92)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if written != tt.want {
				t.Errorf("written format = %q, want %q", written, tt.want)
			}
			got, format, err := DecodeBytes(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if format != tt.want {
				t.Errorf("decoded format = %q, want %q", format, tt.want)
			}
			if got.Width() != 16 || got.Height() != 9 {
				t.Errorf("size = %dx%d", got.Width(), got.Height())
			}
			if tt.exact && !Equal(got, src) {
				t.Error("lossless round trip changed pixels")
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, _, err := DecodeBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("empty data error = %v", err)
	}
	if _, _, err := DecodeBytes([]byte("not an image")); err == nil {
		t.Error("garbage should fail to decode")
	}
	if _, err := Encode(&bytes.Buffer{}, createTestRaster(t, 1, 1, color.NRGBA{}), "gif", 1); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("gif encode error = %v", err)
	}
}

func TestDecodeLimit(t *testing.T) {
	encode := func(w, h int) []byte {
		var buf bytes.Buffer
		if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	tests := []struct {
		name    string
		data    []byte
		maxDim  int
		wantErr bool
	}{
		{"within limit", encode(64, 10), 64, false},
		{"too wide", encode(64, 10), 32, true},
		{"too tall", encode(10, 64), 32, true},
		{"default limit", encode(MaxDimension+1, 1), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, err := DecodeLimit(bytes.NewReader(tt.data), tt.maxDim)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Errorf("err = %v, want ErrInvalidDimensions", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if r.Width() > tt.maxDim || r.Height() > tt.maxDim {
				t.Errorf("decoded %dx%d past limit %d", r.Width(), r.Height(), tt.maxDim)
			}
		})
	}
}

func TestDecodeStdlibPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	r, _, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.NRGBAAt(1, 1); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("(1,1) = %v", got)
	}
}

func TestExtension(t *testing.T) {
	if Extension(FormatJPEG) != "jpg" || Extension(FormatPNG) != "png" {
		t.Error("unexpected extensions")
	}
}
