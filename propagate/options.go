package propagate

import (
	"context"
	"log/slog"
)

// Option configures a Scheduler.
type Option func(*options)

type options struct {
	logger *slog.Logger
	ctx    context.Context
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.DiscardHandler),
		ctx:    context.Background(),
	}
}

// WithLogger sets the logger for scheduling diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithContext sets the parent context of every evaluation. Cancelling it
// cancels all work in flight.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}
