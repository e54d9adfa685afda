// Package buffer provides a generic double-ended ring buffer with a
// random-access iterator, built-in statistics tracking, and optional Prometheus
// metrics integration.
//
// # Overview
//
// RingBuffer keeps its elements in capacity+1 slots addressed modulo the slot
// count. Two cursors delimit the logical sequence: head points at the oldest
// element and tail one past the newest. The spare sentinel slot means
// head == tail always reads as empty, so no separate full flag is needed.
//
// Pushing into a full buffer never grows it. PushBack evicts the oldest
// element, PushFront evicts the newest, and the evicted element is handed to
// the drop callback when one is configured.
//
// # Quick Start
//
//	rb, err := buffer.New[int](8)
//	if err != nil {
//		return err
//	}
//
//	for i := 0; i < 10; i++ {
//		rb.PushBack(i)
//	}
//	fmt.Println(rb.Slice()) // [2 3 4 5 6 7 8 9]
//
//	front, err := rb.Front() // 2
//
// # Iterators
//
// Begin and End return an Iterator pair describing the half-open range
// [Begin, End). Iterators support random access (Add, Sub, Peek), traversal
// order distance (Distance) and ordering (Less, Compare), all computed in the
// buffer's modulo space, so they keep working after head and tail have wrapped
// around the physical end of storage:
//
//	it := buffer.Find(rb.Begin(), rb.End(), 5)
//	if !it.Equal(rb.End()) {
//		it, _ = rb.Insert(it, 42) // 42 now sits before 5
//		_, _ = rb.Erase(it)       // and is gone again
//	}
//
// Insert shifts whichever side of the position is shorter, so its cost is
// bounded by the distance to the nearer end. Erase shifts the tail side.
//
// For plain traversal, All, Values and Backward return range-over-func
// iterators:
//
//	for i, v := range rb.All() {
//		fmt.Println(i, v)
//	}
//
// # Invalidation
//
// Resize and a growing Reserve reallocate storage and bump the buffer's
// generation. Iterators remember the generation they were created under and
// report ErrIteratorInvalidated afterwards instead of reading stale slots.
//
// # Shrinking
//
// When Resize cuts below the current length, the ShrinkPolicy chooses the
// survivors. KeepOldest (default) keeps the front of the sequence; KeepNewest
// keeps the back, mirroring PushBack eviction. The policy is fixed for the
// lifetime of the buffer.
//
// # Errors
//
// Nothing in this package panics on bad input and nothing terminates the
// process:
//
//   - Front, Back, At, Set and iterator dereference on a missing element
//     return ErrInvalidAccess (classified invalid).
//   - Stale iterators return ErrIteratorInvalidated (classified invalid).
//   - Capacity below 1 returns ErrInvalidCapacity (classified invalid).
//   - Storage that cannot be allocated, or a capacity above WithMaxCapacity,
//     returns ErrAllocationFailure (classified fatal) and leaves the buffer
//     untouched.
//   - PopBack and PopFront on an empty buffer are no-ops.
//
// # Observability
//
// Statistics are always collected (pushes and pops per end, evictions,
// inserts, erases, resizes, size high-water mark) and exposed through Stats.
// WithMetrics additionally exports them as Prometheus metrics labelled with
// the given component name; Close unregisters them. Health turns the
// eviction rate into a health.Status suitable for a health.Monitor.
//
// # Thread Safety
//
// RingBuffer is not safe for concurrent use. Callers that share a buffer
// between goroutines must serialize access themselves. Statistics and Health
// alone may be read concurrently.
//
// # Debugging
//
// Inspect returns the raw cursors and slot contents; Dump prints them with
// head and tail markers.
package buffer
