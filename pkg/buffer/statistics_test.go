package buffer

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Counters(t *testing.T) {
	s := NewStatistics()

	s.Push(Back)
	s.Push(Back)
	s.Push(Front)
	s.Pop(Front)
	s.Evict()
	s.Insert()
	s.Erase()
	s.Resize(3)
	s.UpdateSize(5)
	s.UpdateSize(2)

	assert.Equal(t, int64(2), s.PushesBack())
	assert.Equal(t, int64(1), s.PushesFront())
	assert.Equal(t, int64(3), s.Pushes())
	assert.Equal(t, int64(0), s.PopsBack())
	assert.Equal(t, int64(1), s.PopsFront())
	assert.Equal(t, int64(1), s.Evictions())
	assert.Equal(t, int64(1), s.Inserts())
	assert.Equal(t, int64(1), s.Erases())
	assert.Equal(t, int64(1), s.Resizes())
	assert.Equal(t, int64(3), s.ResizeDrops())
	assert.Equal(t, int64(2), s.CurrentSize())
	assert.Equal(t, int64(5), s.MaxSize())
	assert.InDelta(t, 0.2, s.Utilization(10), 1e-9)
	assert.Equal(t, 0.0, s.Utilization(0))
	assert.InDelta(t, 1.0/3.0, s.EvictionRate(), 1e-9)
	assert.Greater(t, s.Throughput(), 0.0)
}

func TestStatistics_Reset(t *testing.T) {
	s := NewStatistics()
	s.Push(Back)
	s.Evict()
	s.UpdateSize(4)
	s.UpdateCapacity(8)

	s.Reset()

	summary := s.Summary()
	assert.Zero(t, summary.PushesBack)
	assert.Zero(t, summary.Evictions)
	assert.Zero(t, summary.MaxSize)
	assert.Equal(t, 0.0, summary.EvictionRate)
	assert.Equal(t, int64(8), summary.Capacity, "capacity is state, not a counter")
}

func TestStatistics_SummaryJSON(t *testing.T) {
	s := NewStatistics()
	s.Push(Front)
	s.Resize(1)

	data, err := json.Marshal(s.Summary())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, 1.0, fields["pushes_front"])
	assert.Equal(t, 1.0, fields["resize_drops"])
	assert.Contains(t, fields, "eviction_rate")
}

func TestStatistics_ConcurrentReads(t *testing.T) {
	rb, err := New[int](16)
	require.NoError(t, err)
	stats := rb.Stats()

	var wg sync.WaitGroup
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					_ = stats.Summary()
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		rb.PushBack(i)
	}
	close(done)
	wg.Wait()

	assert.Equal(t, int64(1000), stats.PushesBack())
	assert.Equal(t, int64(984), stats.Evictions())
	assert.Equal(t, int64(16), stats.MaxSize())
}
