package model

import "time"

// PipelineOption defines the interface for pipeline options. An option
// observes the run; it never influences step ordering or outcomes.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	// PrepareStep runs when the step is added to the pipeline, before the
	// run starts. parentStep is the preceding step, or StartStep for the
	// first one.
	PrepareStep(parentStep, step *StepInfo) error

	// OnStepDone runs after the step finished, whatever its outcome.
	// For skipped steps elapsed is zero and exitCode is ignored.
	OnStepDone(step *StepInfo, elapsed time.Duration, exitCode int) error

	// Finish runs after the last step, with the total run duration.
	Finish(totalDuration time.Duration) error
}
