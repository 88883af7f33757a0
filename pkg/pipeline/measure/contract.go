package measure

import "time"

// Measure collects the metrics of one run, keyed by step name.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
	SetRunDuration(total time.Duration)
	RunDuration() time.Duration
}

// Metric holds the wall-clock duration and exit status of one step.
type Metric interface {
	SetDuration(elapsed time.Duration)
	Duration() time.Duration
	SetExitCode(code int)
	ExitCode() int
}
