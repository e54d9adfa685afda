package buffer

import (
	"cmp"

	"github.com/c360/ringbuf/errors"
)

// Iterator is a random-access position in a RingBuffer.
//
// It is a small value: the buffer, a physical slot index and the storage
// generation it was created under. Arithmetic wraps across the physical end of
// storage, and distance and ordering follow the head-to-tail traversal order,
// not raw index magnitude. Positions outside [Begin(), End()] order after
// End().
//
// Any reallocation (Resize, Reserve that grows) invalidates every iterator;
// dereferencing a stale iterator returns ErrIteratorInvalidated. Comparing
// iterators of different buffers is meaningless.
type Iterator[T any] struct {
	rb         *RingBuffer[T]
	index      int
	generation uint64
}

// Valid reports whether the iterator's buffer has not been reallocated since
// the iterator was obtained.
func (it Iterator[T]) Valid() bool {
	return it.rb != nil && it.generation == it.rb.generation
}

// Index returns the raw slot index.
func (it Iterator[T]) Index() int {
	return it.index
}

// Offset returns the logical position: 0 for Begin(), Len() for End().
func (it Iterator[T]) Offset() int {
	return it.rb.offset(it.index)
}

func (it Iterator[T]) check(method string) error {
	if it.rb == nil {
		return errors.WrapInvalid(errors.ErrIteratorInvalidated, "Iterator", method, "zero iterator")
	}
	if it.generation != it.rb.generation {
		return errors.WrapInvalid(errors.ErrIteratorInvalidated, "Iterator", method,
			"buffer storage was reallocated")
	}
	if it.rb.offset(it.index) >= it.rb.size {
		return errors.WrapInvalid(errors.ErrInvalidAccess, "Iterator", method,
			"dereference outside [Begin, End)")
	}
	return nil
}

// Value returns the element at the iterator.
// End() and positions outside the logical range return ErrInvalidAccess.
func (it Iterator[T]) Value() (T, error) {
	if err := it.check("Value"); err != nil {
		var zero T
		return zero, err
	}
	return it.rb.slots[it.index], nil
}

// SetValue replaces the element at the iterator.
func (it Iterator[T]) SetValue(v T) error {
	if err := it.check("SetValue"); err != nil {
		return err
	}
	it.rb.slots[it.index] = v
	return nil
}

// Next returns the iterator one position forward.
func (it Iterator[T]) Next() Iterator[T] {
	return it.Add(1)
}

// Prev returns the iterator one position back.
func (it Iterator[T]) Prev() Iterator[T] {
	return it.Add(-1)
}

// Add returns the iterator moved by k positions; negative k moves back.
func (it Iterator[T]) Add(k int) Iterator[T] {
	it.index = it.rb.step(it.index, k)
	return it
}

// Sub returns the iterator moved back by k positions.
func (it Iterator[T]) Sub(k int) Iterator[T] {
	return it.Add(-k)
}

// Peek returns the element k positions away without moving the iterator.
func (it Iterator[T]) Peek(k int) (T, error) {
	return it.Add(k).Value()
}

// Distance returns the number of steps from other to it in traversal order,
// so that other.Add(it.Distance(other)) == it and
// End().Distance(Begin()) == Len().
func (it Iterator[T]) Distance(other Iterator[T]) int {
	return it.Offset() - other.Offset()
}

// Compare returns -1, 0 or +1 as it is before, at or after other in
// traversal order.
func (it Iterator[T]) Compare(other Iterator[T]) int {
	return cmp.Compare(it.Offset(), other.Offset())
}

// Equal reports whether both iterators point at the same slot of the same buffer.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.rb == other.rb && it.index == other.index
}

// Less reports whether it comes before other.
func (it Iterator[T]) Less(other Iterator[T]) bool {
	return it.Compare(other) < 0
}

// Greater reports whether it comes after other.
func (it Iterator[T]) Greater(other Iterator[T]) bool {
	return it.Compare(other) > 0
}

// LessEqual reports whether it does not come after other.
func (it Iterator[T]) LessEqual(other Iterator[T]) bool {
	return !it.Greater(other)
}

// GreaterEqual reports whether it does not come before other.
func (it Iterator[T]) GreaterEqual(other Iterator[T]) bool {
	return !it.Less(other)
}
