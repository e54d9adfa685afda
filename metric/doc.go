// Package metric provides a Prometheus-based metrics registry and HTTP server
// for ringbuf observability.
//
// The registry wraps a dedicated prometheus.Registry (Go runtime and process
// collectors are always present) and tracks every component metric under a
// "component.metric" key, so that a component can unregister exactly what it
// registered when it is closed. Duplicate registrations are reported as
// classified invalid errors instead of panicking.
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//
//	rb, err := buffer.New[int](1024,
//		buffer.WithMetrics[int](registry, "ingest"),
//	)
//	if err != nil {
//		return err
//	}
//	defer rb.Close()
//
//	server := metric.NewServer(9090, "/metrics", registry)
//	if err := server.Start(); err != nil {
//		return err
//	}
//	defer server.Stop()
//
// The server exposes OpenMetrics/Prometheus text at the configured path, a
// health endpoint at /health, and a small index page at /. /health answers a
// plain "OK" until SetHealthFunc installs a source, after which it serves the
// health.Status as JSON and answers 503 while that status is unhealthy.
//
// # Custom Metrics
//
// Components register their own collectors through the MetricsRegistrar
// interface:
//
//	counter := prometheus.NewCounter(prometheus.CounterOpts{
//		Namespace: metric.Namespace,
//		Subsystem: "demo",
//		Name:      "runs_total",
//		Help:      "Total demo runs",
//	})
//	if err := registry.RegisterCounter("demo", "runs_total", counter); err != nil {
//		return err
//	}
package metric
