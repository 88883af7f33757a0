package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet    = errors.New("p must be set")
	ErrEnvironmentMustBeSet = errors.New("env must be set")
	ErrRunnerMustBeSet      = errors.New("cmd must be set")
	ErrStepNameMustBeSet    = errors.New("step name must be set")
	ErrDuplicateStepName    = errors.New("step name already used")
	ErrUnknownAction        = errors.New("unknown step action")
	ErrMissingParam         = errors.New("required step parameter missing")
)

// StepError is the terminal failure of a run: the first step whose command
// exited with a non-zero status. ExitCode is -1 when the step failed before
// its process could report one.
type StepError struct {
	Step     string
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("step %q failed with exit status %d", e.Step, e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *StepError) Unwrap() error { return e.Err }
