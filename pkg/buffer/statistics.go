package buffer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks ring buffer activity.
type Statistics struct {
	// Atomic counters so a snapshot can be read from another goroutine
	pushesBack  int64
	pushesFront int64
	popsBack    int64
	popsFront   int64
	evictions   int64
	inserts     int64
	erases      int64
	resizes     int64
	resizeDrops int64

	// Protected by mutex
	mu          sync.RWMutex
	startTime   time.Time
	currentSize int64
	maxSize     int64
	capacity    int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// Push records a push at the given end.
func (s *Statistics) Push(end End) {
	if end == Front {
		atomic.AddInt64(&s.pushesFront, 1)
		return
	}
	atomic.AddInt64(&s.pushesBack, 1)
}

// Pop records a pop at the given end.
func (s *Statistics) Pop(end End) {
	if end == Front {
		atomic.AddInt64(&s.popsFront, 1)
		return
	}
	atomic.AddInt64(&s.popsBack, 1)
}

// Evict records an element evicted by a push into a full buffer.
func (s *Statistics) Evict() {
	atomic.AddInt64(&s.evictions, 1)
}

// Insert records a positional insert.
func (s *Statistics) Insert() {
	atomic.AddInt64(&s.inserts, 1)
}

// Erase records a positional erase.
func (s *Statistics) Erase() {
	atomic.AddInt64(&s.erases, 1)
}

// Resize records a storage reallocation and how many elements it cut.
func (s *Statistics) Resize(dropped int) {
	atomic.AddInt64(&s.resizes, 1)
	atomic.AddInt64(&s.resizeDrops, int64(dropped))
}

// UpdateSize updates the current buffer size.
func (s *Statistics) UpdateSize(size int64) {
	s.mu.Lock()
	s.currentSize = size
	if size > s.maxSize {
		s.maxSize = size
	}
	s.mu.Unlock()
}

// UpdateCapacity records the current buffer capacity.
func (s *Statistics) UpdateCapacity(capacity int64) {
	s.mu.Lock()
	s.capacity = capacity
	s.mu.Unlock()
}

// Capacity returns the last recorded buffer capacity.
func (s *Statistics) Capacity() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capacity
}

// PushesBack returns the number of PushBack calls, including inserts that landed at the back.
func (s *Statistics) PushesBack() int64 {
	return atomic.LoadInt64(&s.pushesBack)
}

// PushesFront returns the number of PushFront calls, including inserts that landed at the front.
func (s *Statistics) PushesFront() int64 {
	return atomic.LoadInt64(&s.pushesFront)
}

// Pushes returns the total number of pushes at either end.
func (s *Statistics) Pushes() int64 {
	return s.PushesBack() + s.PushesFront()
}

// PopsBack returns the number of successful PopBack calls.
func (s *Statistics) PopsBack() int64 {
	return atomic.LoadInt64(&s.popsBack)
}

// PopsFront returns the number of successful PopFront calls.
func (s *Statistics) PopsFront() int64 {
	return atomic.LoadInt64(&s.popsFront)
}

// Pops returns the total number of successful pops.
func (s *Statistics) Pops() int64 {
	return s.PopsBack() + s.PopsFront()
}

// Evictions returns the number of elements evicted by pushes into a full buffer.
func (s *Statistics) Evictions() int64 {
	return atomic.LoadInt64(&s.evictions)
}

// Inserts returns the number of positional inserts.
func (s *Statistics) Inserts() int64 {
	return atomic.LoadInt64(&s.inserts)
}

// Erases returns the number of positional erases that removed an element.
func (s *Statistics) Erases() int64 {
	return atomic.LoadInt64(&s.erases)
}

// Resizes returns the number of storage reallocations.
func (s *Statistics) Resizes() int64 {
	return atomic.LoadInt64(&s.resizes)
}

// ResizeDrops returns the number of elements cut by shrinking resizes.
func (s *Statistics) ResizeDrops() int64 {
	return atomic.LoadInt64(&s.resizeDrops)
}

// CurrentSize returns the current number of items in the buffer.
func (s *Statistics) CurrentSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSize
}

// MaxSize returns the maximum number of items the buffer has held.
func (s *Statistics) MaxSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxSize
}

// Throughput returns the average number of pushes per second.
func (s *Statistics) Throughput() float64 {
	s.mu.RLock()
	elapsed := time.Since(s.startTime)
	s.mu.RUnlock()

	if elapsed == 0 {
		return 0.0
	}

	return float64(s.Pushes()) / elapsed.Seconds()
}

// EvictionRate returns the fraction of pushes that evicted an element (0.0 to 1.0).
func (s *Statistics) EvictionRate() float64 {
	pushes := s.Pushes()
	if pushes == 0 {
		return 0.0
	}

	return float64(s.Evictions()) / float64(pushes)
}

// Utilization returns the current buffer utilization as a fraction (0.0 to 1.0).
func (s *Statistics) Utilization(capacity int64) float64 {
	if capacity == 0 {
		return 0.0
	}

	return float64(s.CurrentSize()) / float64(capacity)
}

// Uptime returns how long the statistics have been collected.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Reset resets all statistics to zero.
func (s *Statistics) Reset() {
	atomic.StoreInt64(&s.pushesBack, 0)
	atomic.StoreInt64(&s.pushesFront, 0)
	atomic.StoreInt64(&s.popsBack, 0)
	atomic.StoreInt64(&s.popsFront, 0)
	atomic.StoreInt64(&s.evictions, 0)
	atomic.StoreInt64(&s.inserts, 0)
	atomic.StoreInt64(&s.erases, 0)
	atomic.StoreInt64(&s.resizes, 0)
	atomic.StoreInt64(&s.resizeDrops, 0)

	s.mu.Lock()
	s.startTime = time.Now()
	s.currentSize = 0
	s.maxSize = 0
	s.mu.Unlock()
}

// StatsSummary is a point-in-time snapshot of all statistics.
type StatsSummary struct {
	PushesBack   int64         `json:"pushes_back"`
	PushesFront  int64         `json:"pushes_front"`
	PopsBack     int64         `json:"pops_back"`
	PopsFront    int64         `json:"pops_front"`
	Evictions    int64         `json:"evictions"`
	Inserts      int64         `json:"inserts"`
	Erases       int64         `json:"erases"`
	Resizes      int64         `json:"resizes"`
	ResizeDrops  int64         `json:"resize_drops"`
	CurrentSize  int64         `json:"current_size"`
	MaxSize      int64         `json:"max_size"`
	Capacity     int64         `json:"capacity"`
	Throughput   float64       `json:"throughput"`
	EvictionRate float64       `json:"eviction_rate"`
	Uptime       time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		PushesBack:   s.PushesBack(),
		PushesFront:  s.PushesFront(),
		PopsBack:     s.PopsBack(),
		PopsFront:    s.PopsFront(),
		Evictions:    s.Evictions(),
		Inserts:      s.Inserts(),
		Erases:       s.Erases(),
		Resizes:      s.Resizes(),
		ResizeDrops:  s.ResizeDrops(),
		CurrentSize:  s.CurrentSize(),
		MaxSize:      s.MaxSize(),
		Capacity:     s.Capacity(),
		Throughput:   s.Throughput(),
		EvictionRate: s.EvictionRate(),
		Uptime:       s.Uptime(),
	}
}
