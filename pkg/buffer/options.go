package buffer

import (
	"log/slog"

	"github.com/c360/ringbuf/metric"
)

// Option configures buffer behavior using the functional options pattern.
type Option[T any] func(*bufferOptions[T])

// bufferOptions holds internal configuration for buffer instances.
// Stats are ALWAYS collected - they are not optional.
type bufferOptions[T any] struct {
	shrinkPolicy ShrinkPolicy
	dropCallback DropCallback[T]

	// maxCapacity caps every allocation; 0 means unlimited
	maxCapacity int

	// metricsReg is optional - if provided, buffer stats are also exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsPrefix is used as the component label for Prometheus metrics
	metricsPrefix string

	logger *slog.Logger
}

// WithShrinkPolicy sets which elements Resize keeps when shrinking.
// Defaults to KeepOldest. Unknown policies are ignored.
func WithShrinkPolicy[T any](policy ShrinkPolicy) Option[T] {
	return func(opts *bufferOptions[T]) {
		if policy.Valid() {
			opts.shrinkPolicy = policy
		}
	}
}

// WithDropCallback sets a callback function that is called when items are dropped.
// The callback receives the item that was dropped.
func WithDropCallback[T any](callback DropCallback[T]) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.dropCallback = callback
	}
}

// WithMaxCapacity limits the capacity New, Resize and Reserve may allocate.
// Requests above the limit fail with ErrAllocationFailure. Zero disables the limit.
func WithMaxCapacity[T any](limit int) Option[T] {
	return func(opts *bufferOptions[T]) {
		if limit >= 0 {
			opts.maxCapacity = limit
		}
	}
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetrics[T any](registry *metric.MetricsRegistry, prefix string) Option[T] {
	return func(opts *bufferOptions[T]) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithLogger sets the logger used for debug output. Defaults to slog.Default().
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(opts *bufferOptions[T]) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// applyOptions applies functional options to create final buffer configuration.
func applyOptions[T any](options ...Option[T]) *bufferOptions[T] {
	opts := &bufferOptions[T]{
		shrinkPolicy: KeepOldest,
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	return opts
}
