// Package measure records per-step wall-clock durations and exit statuses
// over the course of one run.
package measure

import (
	"sync"
	"time"
)

type DefaultMeasure struct {
	mu    sync.Mutex
	Steps map[string]Metric
	total time.Duration
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string) Metric {
	mt := &DefaultMetric{
		mu: &sync.Mutex{},
	}
	m.Steps[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	return m.Steps[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	return m.Steps
}

func (m *DefaultMeasure) SetRunDuration(total time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
}

func (m *DefaultMeasure) RunDuration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return round(m.total)
}

var _ Measure = (*DefaultMeasure)(nil)
