package health

import (
	"sync"
	"time"
)

// Source produces a fresh status on demand, typically a buffer's Health method.
type Source func() Status

// Monitor tracks the health of several named sources in a thread-safe manner.
// Statuses are either pushed with Update or pulled from registered sources
// each time Check runs.
type Monitor struct {
	mu       sync.RWMutex
	statuses map[string]Status
	sources  map[string]Source
}

// NewMonitor creates a new health monitor
func NewMonitor() *Monitor {
	return &Monitor{
		statuses: make(map[string]Status),
		sources:  make(map[string]Source),
	}
}

// Register adds a source polled by Check under name.
func (m *Monitor) Register(name string, source Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[name] = source
}

// Update records the status for name, overriding the status component name
// and filling in a missing timestamp.
func (m *Monitor) Update(name string, status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.update(name, status)
}

func (m *Monitor) update(name string, status Status) {
	status.Component = name
	if status.Timestamp.IsZero() {
		status.Timestamp = time.Now()
	}
	m.statuses[name] = status
}

// Get retrieves the last recorded status for name.
func (m *Monitor) Get(name string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, exists := m.statuses[name]
	return status, exists
}

// GetAll returns a copy of all recorded statuses
func (m *Monitor) GetAll() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]Status, len(m.statuses))
	for name, status := range m.statuses {
		result[name] = status
	}
	return result
}

// Remove stops tracking name.
func (m *Monitor) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.statuses, name)
	delete(m.sources, name)
}

// Count returns the number of tracked names.
func (m *Monitor) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.statuses)
}

// Check polls every registered source, records the results and returns the
// aggregate under systemName.
func (m *Monitor) Check(systemName string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, source := range m.sources {
		m.update(name, source())
	}

	subStatuses := make([]Status, 0, len(m.statuses))
	for _, status := range m.statuses {
		subStatuses = append(subStatuses, status)
	}
	return Aggregate(systemName, subStatuses)
}
