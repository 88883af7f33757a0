package pipeline

import (
	"time"

	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

// StepResult records the outcome of one step within a run.
type StepResult struct {
	Name     string
	Action   model.Action
	Status   model.Status
	ExitCode int
	Duration time.Duration
	Stdout   string
	Stderr   string
}

// RunReport is the terminal output of one run: the per-step outcomes in
// declaration order, and the first failing step when there is one.
type RunReport struct {
	Start    time.Time
	Duration time.Duration
	Steps    []StepResult
	Failed   *StepResult
}

// Passed reports whether every step exited with status 0.
func (r *RunReport) Passed() bool { return r.Failed == nil }
