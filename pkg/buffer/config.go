package buffer

import (
	"fmt"

	"github.com/c360/ringbuf/errors"
)

// Config contains configuration for ring buffer creation.
type Config struct {
	// Capacity is the maximum number of elements held.
	Capacity int `json:"capacity" yaml:"capacity"`

	// MaxCapacity caps the capacity Resize and Reserve may grow to. Zero means unlimited.
	MaxCapacity int `json:"max_capacity,omitempty" yaml:"max_capacity,omitempty"`

	// ShrinkPolicy decides which elements survive a shrinking Resize.
	ShrinkPolicy ShrinkPolicy `json:"shrink_policy,omitempty" yaml:"shrink_policy,omitempty"`
}

// DefaultConfig returns a default ring buffer configuration.
func DefaultConfig() Config {
	return Config{
		Capacity:     8,
		ShrinkPolicy: KeepOldest,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return errors.WrapInvalid(errors.ErrInvalidCapacity, "buffer", "Validate",
			fmt.Sprintf("capacity must be at least 1, got %d", c.Capacity))
	}

	if c.MaxCapacity < 0 {
		return errors.WrapInvalid(errors.ErrInvalidCapacity, "buffer", "Validate",
			fmt.Sprintf("max_capacity must not be negative, got %d", c.MaxCapacity))
	}

	if c.MaxCapacity > 0 && c.Capacity > c.MaxCapacity {
		return errors.WrapInvalid(errors.ErrInvalidCapacity, "buffer", "Validate",
			fmt.Sprintf("capacity %d exceeds max_capacity %d", c.Capacity, c.MaxCapacity))
	}

	if c.ShrinkPolicy != "" && !c.ShrinkPolicy.Valid() {
		return errors.WrapInvalid(errors.ErrInvalidData, "buffer", "Validate",
			fmt.Sprintf("unknown shrink_policy: %s", c.ShrinkPolicy))
	}

	return nil
}

// NewFromConfig creates a ring buffer based on the provided configuration.
// Additional functional options (metrics, callbacks, logger) are applied after
// the configured ones.
func NewFromConfig[T any](config Config, options ...Option[T]) (*RingBuffer[T], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "buffer", "NewFromConfig", "config validation failed")
	}

	configured := []Option[T]{WithMaxCapacity[T](config.MaxCapacity)}
	if config.ShrinkPolicy != "" {
		configured = append(configured, WithShrinkPolicy[T](config.ShrinkPolicy))
	}

	return New[T](config.Capacity, append(configured, options...)...)
}
