package effect

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Source supplies the image behind a File effect.
//
// Key identifies the content: two sources with equal keys decode to the same
// raster, which lets the evaluator share decoded images.
type Source interface {
	Key() string
	Open() (io.ReadCloser, error)
}

// Decoded is implemented by sources that already hold a decoded image.
type Decoded interface {
	Source
	Image() image.Image
}

// Blob is an in-memory encoded image, such as a file picked by the user.
type Blob struct {
	name string
	data []byte
	key  string
}

// NewBlob wraps encoded image bytes. The data must not be modified afterwards.
func NewBlob(name string, data []byte) *Blob {
	return &Blob{
		name: name,
		data: data,
		key:  fmt.Sprintf("blob:%x", xxhash.Sum64(data)),
	}
}

// Name returns the original file name.
func (b *Blob) Name() string { return b.name }

// Key implements Source.
func (b *Blob) Key() string { return b.key }

// Open implements Source.
func (b *Blob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// Path is an image file on disk.
type Path string

// Key implements Source.
func (p Path) Key() string { return "path:" + filepath.Clean(string(p)) }

// Open implements Source.
func (p Path) Open() (io.ReadCloser, error) {
	f, err := os.Open(filepath.Clean(string(p)))
	if err != nil {
		return nil, fmt.Errorf("effect: open source: %w", err)
	}
	return f, nil
}

// ImageSource is an already-decoded image handle.
type ImageSource struct {
	img image.Image
	id  uint64
}

// imageSourceIDs numbers decoded handles. Keys must not be reused after a
// handle is collected, so they cannot derive from its address.
var imageSourceIDs atomic.Uint64

// NewImageSource wraps a decoded image.
func NewImageSource(img image.Image) *ImageSource {
	return &ImageSource{img: img, id: imageSourceIDs.Add(1)}
}

// Key implements Source. Each handle has its own key.
func (s *ImageSource) Key() string { return "image:" + strconv.FormatUint(s.id, 10) }

// Open implements Source; a decoded handle has no encoded form.
func (s *ImageSource) Open() (io.ReadCloser, error) { return nil, ErrNotEncoded }

// Image implements Decoded.
func (s *ImageSource) Image() image.Image { return s.img }
