package health

import (
	"fmt"
	"time"
)

// State is the coarse health of a buffer or of a whole process.
type State string

// Health states, ordered from best to worst.
const (
	StateHealthy   State = "healthy"
	StateDegraded  State = "degraded"
	StateUnhealthy State = "unhealthy"
)

// Status represents the health state of a buffer or an aggregate of buffers.
type Status struct {
	Component   string    `json:"component"`
	Healthy     bool      `json:"healthy"` // true if State is healthy
	State       State     `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	SubStatuses []Status  `json:"sub_statuses,omitempty"`
	Metrics     *Metrics  `json:"metrics,omitempty"`
}

// Metrics is the buffer activity a status was derived from.
type Metrics struct {
	Uptime       time.Duration `json:"uptime"`
	Size         int64         `json:"size"`
	Capacity     int64         `json:"capacity"`
	Utilization  float64       `json:"utilization"`
	Pushes       int64         `json:"pushes"`
	Evictions    int64         `json:"evictions"`
	EvictionRate float64       `json:"eviction_rate"`
}

// Thresholds decide when buffer metrics turn a status degraded or unhealthy.
// A zero threshold disables that check.
type Thresholds struct {
	// DegradedEvictionRate is the eviction rate (evictions per push) at
	// which a buffer is considered to be dropping too much data.
	DegradedEvictionRate float64 `json:"degraded_eviction_rate" yaml:"degraded_eviction_rate"`

	// UnhealthyEvictionRate is the eviction rate at which the consumer is
	// considered to have stopped keeping up altogether.
	UnhealthyEvictionRate float64 `json:"unhealthy_eviction_rate" yaml:"unhealthy_eviction_rate"`
}

// DefaultThresholds returns thresholds suited to buffers that are expected to
// be drained by a consumer.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DegradedEvictionRate:  0.5,
		UnhealthyEvictionRate: 0.95,
	}
}

// FromMetrics derives a status for the named buffer.
func FromMetrics(component string, m Metrics, t Thresholds) Status {
	var status Status
	switch {
	case t.UnhealthyEvictionRate > 0 && m.EvictionRate >= t.UnhealthyEvictionRate:
		status = NewUnhealthy(component,
			fmt.Sprintf("eviction rate %.2f at or above %.2f", m.EvictionRate, t.UnhealthyEvictionRate))
	case t.DegradedEvictionRate > 0 && m.EvictionRate >= t.DegradedEvictionRate:
		status = NewDegraded(component,
			fmt.Sprintf("eviction rate %.2f at or above %.2f", m.EvictionRate, t.DegradedEvictionRate))
	default:
		status = NewHealthy(component,
			fmt.Sprintf("%d of %d slots used", m.Size, m.Capacity))
	}
	return status.WithMetrics(&m)
}

// IsHealthy returns true if the status is healthy
func (s Status) IsHealthy() bool {
	return s.State == StateHealthy
}

// IsDegraded returns true if the status is degraded
func (s Status) IsDegraded() bool {
	return s.State == StateDegraded
}

// IsUnhealthy returns true if the status is unhealthy
func (s Status) IsUnhealthy() bool {
	return s.State == StateUnhealthy
}

// WithMetrics returns a copy of the status with metrics attached
func (s Status) WithMetrics(metrics *Metrics) Status {
	s.Metrics = metrics
	return s
}

// WithSubStatus adds a sub-status and returns a copy
func (s Status) WithSubStatus(subStatus Status) Status {
	subs := make([]Status, len(s.SubStatuses), len(s.SubStatuses)+1)
	copy(subs, s.SubStatuses)
	s.SubStatuses = append(subs, subStatus)
	return s
}
