package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/ringbuf/health"
)

func TestHealth(t *testing.T) {
	rb, err := New[int](4)
	require.NoError(t, err)

	status := rb.Health("ingest", health.DefaultThresholds())
	assert.True(t, status.IsHealthy())
	assert.Equal(t, "ingest", status.Component)
	assert.Equal(t, "0 of 4 slots used", status.Message)

	for i := 0; i < 4; i++ {
		rb.PushBack(i)
	}
	status = rb.Health("ingest", health.DefaultThresholds())
	assert.True(t, status.IsHealthy())
	require.NotNil(t, status.Metrics)
	assert.Equal(t, int64(4), status.Metrics.Size)
	assert.Equal(t, int64(4), status.Metrics.Capacity)
	assert.InDelta(t, 1.0, status.Metrics.Utilization, 1e-9)

	// 4 more pushes evict 4 elements: 4 of 8 pushes evicted
	for i := 4; i < 8; i++ {
		rb.PushBack(i)
	}
	status = rb.Health("ingest", health.DefaultThresholds())
	assert.True(t, status.IsDegraded())
	assert.Equal(t, int64(8), status.Metrics.Pushes)
	assert.Equal(t, int64(4), status.Metrics.Evictions)
	assert.InDelta(t, 0.5, status.Metrics.EvictionRate, 1e-9)

	status = rb.Health("ingest", health.Thresholds{UnhealthyEvictionRate: 0.5})
	assert.True(t, status.IsUnhealthy())
}

func TestHealth_TracksResize(t *testing.T) {
	rb, err := New[int](4)
	require.NoError(t, err)
	rb.PushBack(1)
	require.NoError(t, rb.Reserve(10))

	status := rb.Health("ingest", health.Thresholds{})
	assert.Equal(t, int64(10), status.Metrics.Capacity)
	assert.InDelta(t, 0.1, status.Metrics.Utilization, 1e-9)
}

func TestHealth_MonitorSource(t *testing.T) {
	rb, err := New[int](1)
	require.NoError(t, err)

	monitor := health.NewMonitor()
	monitor.Register("ingest", func() health.Status {
		return rb.Health("ingest", health.DefaultThresholds())
	})

	assert.True(t, monitor.Check("system").IsHealthy())

	for i := 0; i < 100; i++ {
		rb.PushBack(i)
	}
	status := monitor.Check("system")
	assert.True(t, status.IsUnhealthy())
	assert.Equal(t, "unhealthy: ingest", status.Message)
}
