// Package health turns ring buffer activity into healthy, degraded or
// unhealthy statuses and rolls them up for a whole process.
//
// A buffer that keeps evicting elements is a buffer whose consumer is not
// keeping up. FromMetrics compares a buffer's eviction rate against
// Thresholds:
//
//	status := health.FromMetrics("ingest", metrics, health.DefaultThresholds())
//	if status.IsDegraded() {
//		// consumer is falling behind
//	}
//
// # Monitor
//
// Monitor tracks statuses by name. Sources registered with Register are
// polled each time Check runs, and the result is aggregated so that the
// worst sub-status decides the overall state:
//
//	monitor := health.NewMonitor()
//	monitor.Register("ingest", func() health.Status {
//		return rb.Health("ingest", health.DefaultThresholds())
//	})
//	overall := monitor.Check("ringdemo")
//
// All Monitor methods are safe for concurrent use. Status values are
// immutable; WithMetrics and WithSubStatus return copies.
package health
