package canal

import (
	"log/slog"

	"github.com/gogpu/canal/eval"
)

// Default engine limits.
const (
	// DefaultPoolSize is the number of released rasters kept per size.
	DefaultPoolSize = 8

	// DefaultMaxSurface is the largest surface side, in pixels, an
	// evaluation may allocate.
	DefaultMaxSurface = 16384
)

// Option configures an Engine during creation.
//
// Example:
//
//	eng := canal.New(
//	    canal.WithDecodeCacheSize(64),
//	    canal.WithMaxSurface(8192),
//	)
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	logger          *slog.Logger
	decodeCacheSize int
	poolSize        int
	maxSurface      int
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		decodeCacheSize: eval.DefaultDecodeCacheSize,
		poolSize:        DefaultPoolSize,
		maxSurface:      DefaultMaxSurface,
	}
}

// WithLogger sets the logger of one engine, overriding [SetLogger].
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// WithDecodeCacheSize sets how many decoded File sources the engine keeps.
// Nodes reading the same source share one decoded raster. A size <= 0
// disables sharing.
func WithDecodeCacheSize(n int) Option {
	return func(o *engineOptions) {
		o.decodeCacheSize = n
	}
}

// WithPoolSize sets how many released rasters of each size are kept for
// reuse. Zero keeps all of them.
func WithPoolSize(n int) Option {
	return func(o *engineOptions) {
		if n >= 0 {
			o.poolSize = n
		}
	}
}

// WithMaxSurface limits the side of any surface an evaluation allocates.
// Evaluations needing more produce no output.
func WithMaxSurface(px int) Option {
	return func(o *engineOptions) {
		if px > 0 {
			o.maxSurface = px
		}
	}
}
