package buffer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/ringbuf/metric"
)

// bufferMetrics holds Prometheus metrics for ring buffer operations.
type bufferMetrics struct {
	registry *metric.MetricsRegistry
	prefix   string
	names    []string

	pushes      *prometheus.CounterVec
	pops        *prometheus.CounterVec
	evictions   prometheus.Counter
	inserts     prometheus.Counter
	erases      prometheus.Counter
	resizes     prometheus.Counter
	resizeDrops prometheus.Counter

	size        prometheus.Gauge
	capacity    prometheus.Gauge
	utilization prometheus.Gauge
}

func counterOpts(prefix, name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   metric.Namespace,
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": prefix},
		Help:        help,
	}
}

func gaugeOpts(prefix, name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   metric.Namespace,
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": prefix},
		Help:        help,
	}
}

// newBufferMetrics creates and registers buffer metrics with the provided registry.
// On failure every metric registered so far is unregistered again.
func newBufferMetrics(registry *metric.MetricsRegistry, prefix string) (*bufferMetrics, error) {
	m := &bufferMetrics{
		registry: registry,
		prefix:   prefix,
		pushes: prometheus.NewCounterVec(
			counterOpts(prefix, "pushes_total", "Total number of pushes by end"),
			[]string{"end"}),
		pops: prometheus.NewCounterVec(
			counterOpts(prefix, "pops_total", "Total number of pops by end"),
			[]string{"end"}),
		evictions: prometheus.NewCounter(
			counterOpts(prefix, "evictions_total", "Total number of elements evicted by pushes into a full buffer")),
		inserts: prometheus.NewCounter(
			counterOpts(prefix, "inserts_total", "Total number of positional inserts")),
		erases: prometheus.NewCounter(
			counterOpts(prefix, "erases_total", "Total number of positional erases")),
		resizes: prometheus.NewCounter(
			counterOpts(prefix, "resizes_total", "Total number of storage reallocations")),
		resizeDrops: prometheus.NewCounter(
			counterOpts(prefix, "resize_drops_total", "Total number of elements cut by shrinking resizes")),
		size: prometheus.NewGauge(
			gaugeOpts(prefix, "size", "Current number of elements in the buffer")),
		capacity: prometheus.NewGauge(
			gaugeOpts(prefix, "capacity", "Current buffer capacity")),
		utilization: prometheus.NewGauge(
			gaugeOpts(prefix, "utilization", "Buffer utilization as a fraction (0.0 to 1.0)")),
	}

	counterVecs := []struct {
		name string
		vec  *prometheus.CounterVec
	}{
		{"buffer_pushes", m.pushes},
		{"buffer_pops", m.pops},
	}
	for _, c := range counterVecs {
		if err := registry.RegisterCounterVec(prefix, c.name, c.vec); err != nil {
			m.unregister()
			return nil, err
		}
		m.names = append(m.names, c.name)
	}

	counters := []struct {
		name    string
		counter prometheus.Counter
	}{
		{"buffer_evictions", m.evictions},
		{"buffer_inserts", m.inserts},
		{"buffer_erases", m.erases},
		{"buffer_resizes", m.resizes},
		{"buffer_resize_drops", m.resizeDrops},
	}
	for _, c := range counters {
		if err := registry.RegisterCounter(prefix, c.name, c.counter); err != nil {
			m.unregister()
			return nil, err
		}
		m.names = append(m.names, c.name)
	}

	gauges := []struct {
		name  string
		gauge prometheus.Gauge
	}{
		{"buffer_size", m.size},
		{"buffer_capacity", m.capacity},
		{"buffer_utilization", m.utilization},
	}
	for _, g := range gauges {
		if err := registry.RegisterGauge(prefix, g.name, g.gauge); err != nil {
			m.unregister()
			return nil, err
		}
		m.names = append(m.names, g.name)
	}

	return m, nil
}

// unregister removes every metric this instance registered.
func (m *bufferMetrics) unregister() {
	for _, name := range m.names {
		m.registry.Unregister(m.prefix, name)
	}
	m.names = nil
}

func (m *bufferMetrics) recordPush(end End) {
	m.pushes.WithLabelValues(string(end)).Inc()
}

func (m *bufferMetrics) recordPop(end End) {
	m.pops.WithLabelValues(string(end)).Inc()
}

func (m *bufferMetrics) recordEviction() {
	m.evictions.Inc()
}

func (m *bufferMetrics) recordInsert() {
	m.inserts.Inc()
}

func (m *bufferMetrics) recordErase() {
	m.erases.Inc()
}

func (m *bufferMetrics) recordResize(dropped int) {
	m.resizes.Inc()
	m.resizeDrops.Add(float64(dropped))
}

// updateSize sets the current size, capacity and utilization.
func (m *bufferMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	m.capacity.Set(float64(capacity))
	m.utilization.Set(float64(size) / float64(capacity))
}
