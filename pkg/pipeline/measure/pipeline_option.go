package measure

import (
	"time"

	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	return nil
}

func (pm *pipelineMeasure) PrepareStep(parentStep, step *model.StepInfo) error {
	if step == model.EndStep {
		return nil
	}
	pm.AddMetric(step.Name)

	return nil
}

func (pm *pipelineMeasure) OnStepDone(step *model.StepInfo, elapsed time.Duration, exitCode int) error {
	mt := pm.GetMetric(step.Name)
	if mt == nil {
		return nil
	}
	mt.SetDuration(elapsed)
	mt.SetExitCode(exitCode)

	return nil
}

func (pm *pipelineMeasure) Finish(totalDuration time.Duration) error {
	pm.SetRunDuration(totalDuration)

	return nil
}

// PipelineMeasure records every step's duration and exit status into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
