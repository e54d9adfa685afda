package buffer

import (
	"github.com/c360/ringbuf/errors"
)

// span returns the number of elements in [first, last), or -1 when the pair
// does not describe a readable range of one live buffer.
func span[T any](first, last Iterator[T]) int {
	if first.rb == nil || first.rb != last.rb || !first.Valid() || !last.Valid() {
		return -1
	}
	n := last.Distance(first)
	if n < 0 || first.Offset()+n > first.rb.size {
		return -1
	}
	return n
}

// FindFunc returns the first iterator in [first, last) whose element
// satisfies pred, or last when none does.
func FindFunc[T any](first, last Iterator[T], pred func(T) bool) Iterator[T] {
	n := span(first, last)
	it := first
	for i := 0; i < n; i++ {
		if pred(it.rb.slots[it.index]) {
			return it
		}
		it = it.Next()
	}
	return last
}

// Find returns the first iterator in [first, last) whose element equals v,
// or last when v is absent.
func Find[T comparable](first, last Iterator[T], v T) Iterator[T] {
	return FindFunc(first, last, func(item T) bool { return item == v })
}

// Contains reports whether v occurs in the buffer.
func Contains[T comparable](rb *RingBuffer[T], v T) bool {
	return !Find(rb.Begin(), rb.End(), v).Equal(rb.End())
}

// Count returns how many elements in [first, last) equal v.
func Count[T comparable](first, last Iterator[T], v T) int {
	count := 0
	_ = ForEach(first, last, func(item T) {
		if item == v {
			count++
		}
	})
	return count
}

// ForEach calls fn for every element in [first, last), in traversal order.
// It returns ErrIteratorInvalidated or ErrInvalidAccess when the range is not
// a readable range of one live buffer.
func ForEach[T any](first, last Iterator[T], fn func(T)) error {
	n := span(first, last)
	if n < 0 {
		if !first.Valid() || !last.Valid() || first.rb != last.rb {
			return errors.WrapInvalid(errors.ErrIteratorInvalidated, "buffer", "ForEach", "iterate range")
		}
		return errors.WrapInvalid(errors.ErrInvalidAccess, "buffer", "ForEach", "iterate range")
	}

	it := first
	for i := 0; i < n; i++ {
		fn(it.rb.slots[it.index])
		it = it.Next()
	}
	return nil
}
