package eval

import "log/slog"

// DefaultDecodeCacheSize is the number of decoded File sources kept.
const DefaultDecodeCacheSize = 32

// Option configures an Evaluator.
type Option func(*options)

type options struct {
	logger          *slog.Logger
	decodeCacheSize int
}

func defaultOptions() options {
	return options{
		logger:          slog.New(slog.DiscardHandler),
		decodeCacheSize: DefaultDecodeCacheSize,
	}
}

// WithLogger sets the logger for evaluation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDecodeCacheSize sets how many decoded File sources are kept. A size
// <= 0 disables the cache.
func WithDecodeCacheSize(n int) Option {
	return func(o *options) {
		o.decodeCacheSize = n
	}
}
