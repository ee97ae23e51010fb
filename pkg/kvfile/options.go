package kvfile

import (
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/kvfile-go/pkg/codec"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	clock      clock.Clock
	registerer prometheus.Registerer
	serializer []codec.Option
}

func defaultOptions() options {
	return options{
		logger: slog.Default(),
		clock:  clock.New(),
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the time source used by PeriodicDump and temp file naming.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRegisterer registers dump metrics with reg.
// Without it metrics are collected but not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithCompression stores snapshots zstd-compressed. A file written with
// compression must be loaded with compression.
func WithCompression() Option {
	return func(o *options) {
		o.serializer = append(o.serializer, codec.WithCompression())
	}
}
