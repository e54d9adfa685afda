package buffer

import (
	"fmt"
	"iter"

	"github.com/c360/ringbuf/errors"
)

// RingBuffer is a bounded double-ended circular buffer.
//
// Storage holds capacity+1 slots; the spare slot keeps head == tail meaning
// empty, never full. Pushing into a full buffer evicts from the opposite end.
//
// RingBuffer is not safe for concurrent use.
type RingBuffer[T any] struct {
	slots []T
	head  int // oldest element
	tail  int // one past the newest element
	size  int

	// generation changes with every reallocation; iterators carry the value
	// they were created under.
	generation uint64

	stats   *Statistics    // ALWAYS initialized for observability
	metrics *bufferMetrics // Optional Prometheus metrics
	opts    *bufferOptions[T]
	closed  bool
}

// New creates a ring buffer holding up to capacity elements.
// Capacity must be at least 1. Allocation failures return ErrAllocationFailure
// and metrics registration failures return a transient error.
func New[T any](capacity int, options ...Option[T]) (*RingBuffer[T], error) {
	opts := applyOptions(options...)

	if capacity < 1 {
		return nil, errors.WrapInvalid(errors.ErrInvalidCapacity, "RingBuffer", "New",
			fmt.Sprintf("capacity %d must be at least 1", capacity))
	}

	slots, err := allocate[T](capacity, opts.maxCapacity)
	if err != nil {
		opts.logger.Debug("ring buffer allocation failed", "capacity", capacity, "error", err)
		return nil, errors.WrapFatal(err, "RingBuffer", "New", "allocate storage")
	}

	var metrics *bufferMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		metrics, err = newBufferMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "RingBuffer", "New", "metrics registration")
		}
	}

	rb := &RingBuffer[T]{
		slots:   slots,
		stats:   NewStatistics(),
		metrics: metrics,
		opts:    opts,
	}
	rb.recordSize()

	return rb, nil
}

// step moves a physical index by k slots, wrapping in both directions.
// Every index computation in the package goes through here.
func (rb *RingBuffer[T]) step(index, k int) int {
	n := len(rb.slots)
	r := (index + k%n) % n
	if r < 0 {
		r += n
	}
	return r
}

// physical maps a logical position (0 = oldest) to a slot index.
func (rb *RingBuffer[T]) physical(logical int) int {
	return rb.step(rb.head, logical)
}

// offset maps a slot index to its logical position relative to head.
// Slots in [head, tail) map to [0, size); tail maps to size.
func (rb *RingBuffer[T]) offset(index int) int {
	return rb.step(index, -rb.head)
}

// Len returns the number of elements in the buffer.
func (rb *RingBuffer[T]) Len() int {
	return rb.size
}

// Cap returns the maximum number of elements the buffer can hold.
func (rb *RingBuffer[T]) Cap() int {
	return len(rb.slots) - 1
}

// IsEmpty returns true if the buffer contains no elements.
func (rb *RingBuffer[T]) IsEmpty() bool {
	return rb.size == 0
}

// IsFull returns true if the next push will evict an element.
func (rb *RingBuffer[T]) IsFull() bool {
	return rb.size == rb.Cap()
}

// Generation returns the storage generation. It changes whenever the
// storage is reallocated, which invalidates all outstanding iterators.
func (rb *RingBuffer[T]) Generation() uint64 {
	return rb.generation
}

// PushBack appends v after the newest element. A full buffer first evicts
// its oldest element.
func (rb *RingBuffer[T]) PushBack(v T) {
	evicted, ok := rb.pushBack(v)

	rb.stats.Push(Back)
	if rb.metrics != nil {
		rb.metrics.recordPush(Back)
	}
	rb.recordSize()

	if ok {
		rb.drop(evicted)
	}
}

// PushFront prepends v before the oldest element. A full buffer first evicts
// its newest element.
func (rb *RingBuffer[T]) PushFront(v T) {
	evicted, ok := rb.pushFront(v)

	rb.stats.Push(Front)
	if rb.metrics != nil {
		rb.metrics.recordPush(Front)
	}
	rb.recordSize()

	if ok {
		rb.drop(evicted)
	}
}

// pushBack writes at tail and reports the element it evicted, if any.
func (rb *RingBuffer[T]) pushBack(v T) (evicted T, ok bool) {
	if rb.IsFull() {
		evicted, ok = rb.slots[rb.head], true
		rb.slots[rb.head] = *new(T)
		rb.head = rb.step(rb.head, 1)
		rb.size--
		rb.recordEviction()
	}

	rb.slots[rb.tail] = v
	rb.tail = rb.step(rb.tail, 1)
	rb.size++
	return evicted, ok
}

// pushFront writes before head and reports the element it evicted, if any.
func (rb *RingBuffer[T]) pushFront(v T) (evicted T, ok bool) {
	if rb.IsFull() {
		rb.tail = rb.step(rb.tail, -1)
		evicted, ok = rb.slots[rb.tail], true
		rb.slots[rb.tail] = *new(T)
		rb.size--
		rb.recordEviction()
	}

	rb.head = rb.step(rb.head, -1)
	rb.slots[rb.head] = v
	rb.size++
	return evicted, ok
}

// PopBack removes and returns the newest element.
// On an empty buffer it does nothing and returns false.
func (rb *RingBuffer[T]) PopBack() (T, bool) {
	var zero T
	if rb.size == 0 {
		return zero, false
	}

	rb.tail = rb.step(rb.tail, -1)
	item := rb.slots[rb.tail]
	rb.slots[rb.tail] = zero // Clear for GC
	rb.size--

	rb.stats.Pop(Back)
	if rb.metrics != nil {
		rb.metrics.recordPop(Back)
	}
	rb.recordSize()

	return item, true
}

// PopFront removes and returns the oldest element.
// On an empty buffer it does nothing and returns false.
func (rb *RingBuffer[T]) PopFront() (T, bool) {
	var zero T
	if rb.size == 0 {
		return zero, false
	}

	item := rb.slots[rb.head]
	rb.slots[rb.head] = zero // Clear for GC
	rb.head = rb.step(rb.head, 1)
	rb.size--

	rb.stats.Pop(Front)
	if rb.metrics != nil {
		rb.metrics.recordPop(Front)
	}
	rb.recordSize()

	return item, true
}

// Front returns the oldest element, or ErrInvalidAccess when empty.
func (rb *RingBuffer[T]) Front() (T, error) {
	if rb.size == 0 {
		var zero T
		return zero, errors.WrapInvalid(errors.ErrInvalidAccess, "RingBuffer", "Front", "read front of empty buffer")
	}
	return rb.slots[rb.head], nil
}

// Back returns the newest element, or ErrInvalidAccess when empty.
func (rb *RingBuffer[T]) Back() (T, error) {
	if rb.size == 0 {
		var zero T
		return zero, errors.WrapInvalid(errors.ErrInvalidAccess, "RingBuffer", "Back", "read back of empty buffer")
	}
	return rb.slots[rb.step(rb.tail, -1)], nil
}

// At returns the element at logical position i (0 is the oldest).
// Positions outside [0, Len()) return ErrInvalidAccess.
func (rb *RingBuffer[T]) At(i int) (T, error) {
	if err := rb.checkIndex(i, "At"); err != nil {
		var zero T
		return zero, err
	}
	return rb.slots[rb.physical(i)], nil
}

// Set replaces the element at logical position i.
// Positions outside [0, Len()) return ErrInvalidAccess.
func (rb *RingBuffer[T]) Set(i int, v T) error {
	if err := rb.checkIndex(i, "Set"); err != nil {
		return err
	}
	rb.slots[rb.physical(i)] = v
	return nil
}

func (rb *RingBuffer[T]) checkIndex(i int, method string) error {
	if i < 0 || i >= rb.size {
		return errors.WrapInvalid(errors.ErrInvalidAccess, "RingBuffer", method,
			fmt.Sprintf("index %d out of range [0,%d)", i, rb.size))
	}
	return nil
}

// Begin returns an iterator at the oldest element.
func (rb *RingBuffer[T]) Begin() Iterator[T] {
	return Iterator[T]{rb: rb, index: rb.head, generation: rb.generation}
}

// End returns an iterator one past the newest element.
func (rb *RingBuffer[T]) End() Iterator[T] {
	return Iterator[T]{rb: rb, index: rb.tail, generation: rb.generation}
}

// checkIterator verifies that it belongs to rb and predates no reallocation.
func (rb *RingBuffer[T]) checkIterator(it Iterator[T], method string) error {
	if it.rb != rb {
		return errors.WrapInvalid(errors.ErrIteratorInvalidated, "RingBuffer", method,
			"iterator belongs to another buffer")
	}
	if it.generation != rb.generation {
		return errors.WrapInvalid(errors.ErrIteratorInvalidated, "RingBuffer", method,
			fmt.Sprintf("iterator generation %d, buffer generation %d", it.generation, rb.generation))
	}
	return nil
}

// Insert places v before pos and returns an iterator at v.
//
// Elements on the shorter side of pos are shifted by one slot, so the cost is
// bounded by the distance to the nearer end. The element shifted off that end
// is pushed back on, and a full buffer evicts from the opposite end exactly as
// PushFront or PushBack would. Positions outside [Begin(), End()] are a no-op
// that returns End().
func (rb *RingBuffer[T]) Insert(pos Iterator[T], v T) (Iterator[T], error) {
	if err := rb.checkIterator(pos, "Insert"); err != nil {
		return rb.End(), err
	}

	p := rb.offset(pos.index)
	if p > rb.size {
		return rb.End(), nil
	}

	var (
		at      int
		end     End
		evicted T
		ok      bool
	)
	carry := v
	if p < rb.size-p {
		for i := p - 1; i >= 0; i-- {
			idx := rb.physical(i)
			rb.slots[idx], carry = carry, rb.slots[idx]
		}
		evicted, ok = rb.pushFront(carry)
		at, end = rb.step(pos.index, -1), Front
	} else {
		for i := p; i < rb.size; i++ {
			idx := rb.physical(i)
			rb.slots[idx], carry = carry, rb.slots[idx]
		}
		evicted, ok = rb.pushBack(carry)
		at, end = pos.index, Back
	}

	rb.stats.Insert()
	rb.stats.Push(end)
	if rb.metrics != nil {
		rb.metrics.recordInsert()
		rb.metrics.recordPush(end)
	}
	rb.recordSize()

	if ok {
		rb.drop(evicted)
	}

	return Iterator[T]{rb: rb, index: at, generation: rb.generation}, nil
}

// Erase removes the element at pos, shifting every later element one slot
// toward the front, and returns an iterator at its successor.
// Erasing End() or any position outside the logical range is a no-op that
// returns End().
func (rb *RingBuffer[T]) Erase(pos Iterator[T]) (Iterator[T], error) {
	if err := rb.checkIterator(pos, "Erase"); err != nil {
		return rb.End(), err
	}

	p := rb.offset(pos.index)
	if p >= rb.size {
		return rb.End(), nil
	}

	for i := p; i < rb.size-1; i++ {
		rb.slots[rb.physical(i)] = rb.slots[rb.physical(i+1)]
	}
	rb.tail = rb.step(rb.tail, -1)
	rb.slots[rb.tail] = *new(T)
	rb.size--

	rb.stats.Erase()
	if rb.metrics != nil {
		rb.metrics.recordErase()
	}
	rb.recordSize()

	return Iterator[T]{rb: rb, index: pos.index, generation: rb.generation}, nil
}

// Resize reallocates storage for newCapacity elements.
//
// The retained elements are copied oldest-first into slot 0 onward. When the
// buffer holds more than newCapacity elements, the shrink policy picks the
// survivors and the rest go to the drop callback. Every outstanding iterator
// is invalidated, even when the capacity does not change. On error the buffer
// is left untouched.
func (rb *RingBuffer[T]) Resize(newCapacity int) error {
	return rb.resize(newCapacity, "Resize")
}

// Reserve grows the buffer to hold at least newCapacity elements.
// It is a no-op when the capacity is already large enough; otherwise it
// behaves like Resize.
func (rb *RingBuffer[T]) Reserve(newCapacity int) error {
	if newCapacity <= rb.Cap() {
		return nil
	}
	return rb.resize(newCapacity, "Reserve")
}

func (rb *RingBuffer[T]) resize(newCapacity int, method string) error {
	if newCapacity < 1 {
		return errors.WrapInvalid(errors.ErrInvalidCapacity, "RingBuffer", method,
			fmt.Sprintf("capacity %d must be at least 1", newCapacity))
	}

	slots, err := allocate[T](newCapacity, rb.opts.maxCapacity)
	if err != nil {
		rb.opts.logger.Debug("ring buffer allocation failed",
			"capacity", rb.Cap(), "requested", newCapacity, "error", err)
		return errors.WrapFatal(err, "RingBuffer", method, "allocate storage")
	}

	keep := min(rb.size, newCapacity)
	first := 0
	if rb.opts.shrinkPolicy == KeepNewest {
		first = rb.size - keep
	}

	var dropped []T
	for i := 0; i < rb.size; i++ {
		item := rb.slots[rb.physical(i)]
		if i >= first && i < first+keep {
			slots[i-first] = item
			continue
		}
		dropped = append(dropped, item)
	}

	oldCapacity := rb.Cap()
	rb.slots = slots
	rb.head = 0
	rb.tail = keep
	rb.size = keep
	rb.generation++

	rb.stats.Resize(len(dropped))
	if rb.metrics != nil {
		rb.metrics.recordResize(len(dropped))
	}
	rb.recordSize()

	rb.opts.logger.Debug("ring buffer resized",
		"from", oldCapacity,
		"to", newCapacity,
		"kept", keep,
		"dropped", len(dropped),
		"policy", rb.opts.shrinkPolicy.String(),
		"generation", rb.generation)

	for _, item := range dropped {
		rb.drop(item)
	}

	return nil
}

// Clear removes all elements. Capacity and the storage generation are kept.
func (rb *RingBuffer[T]) Clear() {
	var dropped []T
	if rb.opts.dropCallback != nil {
		dropped = rb.Slice()
	}

	clear(rb.slots)
	rb.head = 0
	rb.tail = 0
	rb.size = 0
	rb.recordSize()

	for _, item := range dropped {
		rb.drop(item)
	}
}

// All returns an iterator over (logical index, element) pairs, oldest first.
func (rb *RingBuffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < rb.size; i++ {
			if !yield(i, rb.slots[rb.physical(i)]) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements, oldest first.
func (rb *RingBuffer[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < rb.size; i++ {
			if !yield(rb.slots[rb.physical(i)]) {
				return
			}
		}
	}
}

// Backward returns an iterator over (logical index, element) pairs, newest first.
func (rb *RingBuffer[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := rb.size - 1; i >= 0; i-- {
			if !yield(i, rb.slots[rb.physical(i)]) {
				return
			}
		}
	}
}

// Slice returns a copy of the elements, oldest first.
func (rb *RingBuffer[T]) Slice() []T {
	out := make([]T, 0, rb.size)
	for v := range rb.Values() {
		out = append(out, v)
	}
	return out
}

// Stats returns buffer statistics (always available for observability).
func (rb *RingBuffer[T]) Stats() *Statistics {
	return rb.stats
}

// Close unregisters the buffer's Prometheus metrics. The buffer stays usable;
// Close is idempotent.
func (rb *RingBuffer[T]) Close() error {
	if rb.closed {
		return nil
	}
	rb.closed = true

	if rb.metrics != nil {
		rb.metrics.unregister()
		rb.metrics = nil
	}
	return nil
}

func (rb *RingBuffer[T]) recordEviction() {
	rb.stats.Evict()
	if rb.metrics != nil {
		rb.metrics.recordEviction()
	}
}

func (rb *RingBuffer[T]) recordSize() {
	rb.stats.UpdateSize(int64(rb.size))
	rb.stats.UpdateCapacity(int64(rb.Cap()))
	if rb.metrics != nil {
		rb.metrics.updateSize(rb.size, rb.Cap())
	}
}

// drop hands an element that left the buffer involuntarily to the callback.
// It runs after the buffer state is consistent again.
func (rb *RingBuffer[T]) drop(item T) {
	if rb.opts.dropCallback != nil {
		rb.opts.dropCallback(item)
	}
}
