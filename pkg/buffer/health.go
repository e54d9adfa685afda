package buffer

import "github.com/c360/ringbuf/health"

// Health reports the buffer as the named component, judged by how often
// pushes had to evict an element. It reads only statistics, so it may be
// called from another goroutine while the owner keeps using the buffer.
func (rb *RingBuffer[T]) Health(name string, thresholds health.Thresholds) health.Status {
	summary := rb.stats.Summary()
	return health.FromMetrics(name, health.Metrics{
		Uptime:       summary.Uptime,
		Size:         summary.CurrentSize,
		Capacity:     summary.Capacity,
		Utilization:  rb.stats.Utilization(summary.Capacity),
		Pushes:       summary.PushesBack + summary.PushesFront,
		Evictions:    summary.Evictions,
		EvictionRate: summary.EvictionRate,
	}, thresholds)
}
