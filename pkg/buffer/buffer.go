package buffer

import (
	"fmt"
	"math"

	"github.com/c360/ringbuf/errors"
)

// ShrinkPolicy decides which elements survive when Resize shrinks a buffer
// below its current length.
type ShrinkPolicy string

const (
	// KeepOldest retains the oldest elements and drops the newest overflow.
	KeepOldest ShrinkPolicy = "keep_oldest"

	// KeepNewest retains the most recent elements and drops the oldest overflow,
	// matching the eviction direction of PushBack.
	KeepNewest ShrinkPolicy = "keep_newest"
)

// String returns a human-readable representation of the shrink policy.
func (p ShrinkPolicy) String() string {
	switch p {
	case KeepOldest:
		return "KeepOldest"
	case KeepNewest:
		return "KeepNewest"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is a known policy.
func (p ShrinkPolicy) Valid() bool {
	return p == KeepOldest || p == KeepNewest
}

// End identifies the side of the buffer an operation touched.
type End string

const (
	// Front is the oldest end, where Begin points.
	Front End = "front"
	// Back is the newest end, one slot before End.
	Back End = "back"
)

// DropCallback is called when an element leaves the buffer without being
// popped: evicted by a push into a full buffer, cut by a shrinking Resize,
// or discarded by Clear.
type DropCallback[T any] func(item T)

// allocate returns the backing storage for capacity elements plus the
// sentinel slot. Refusals by the runtime (length out of range) surface as
// ErrAllocationFailure instead of a panic; limit <= 0 means no limit.
func allocate[T any](capacity, limit int) (slots []T, err error) {
	if limit > 0 && capacity > limit {
		return nil, fmt.Errorf("%w: capacity %d exceeds limit %d",
			errors.ErrAllocationFailure, capacity, limit)
	}
	if capacity >= math.MaxInt {
		return nil, fmt.Errorf("%w: capacity %d overflows slot count",
			errors.ErrAllocationFailure, capacity)
	}

	defer func() {
		if r := recover(); r != nil {
			slots = nil
			err = fmt.Errorf("%w: %v", errors.ErrAllocationFailure, r)
		}
	}()

	return make([]T, capacity+1), nil
}
