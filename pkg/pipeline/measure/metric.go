package measure

import (
	"sync"
	"time"
)

type DefaultMetric struct {
	mu       *sync.Mutex
	elapsed  time.Duration
	exitCode int
}

func (mt *DefaultMetric) SetDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.elapsed = elapsed
}

func (mt *DefaultMetric) Duration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return round(mt.elapsed)
}

func (mt *DefaultMetric) SetExitCode(code int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.exitCode = code
}

func (mt *DefaultMetric) ExitCode() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.exitCode
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Hour:
		d = d.Round(time.Hour)
	}

	return d
}
