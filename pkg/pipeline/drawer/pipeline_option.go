package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tak3r/anchorpy/pkg/pipeline/measure"
	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m measure.Measure
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.StartStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}
	err = pd.AddStep(model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	if step == model.EndStep {
		return pd.AddLink(parentStep.Name, step.Name)
	}

	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}
	err = pd.AddLink(parentStep.Name, step.Name)
	if err != nil {
		return err
	}

	return nil
}

func (pd *pipelineDrawer) OnStepDone(step *model.StepInfo, elapsed time.Duration, _ int) error {
	return pd.SetOutcome(step.Name, step.Status, elapsed)
}

func (pd *pipelineDrawer) Finish(totalDuration time.Duration) error {
	if pd.m != nil {
		err := pd.SetOutcome(model.EndStep.Name, model.StatusPassed, totalDuration)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer renders the run into drawer when the pipeline finishes,
// using measure for the duration shading. measure may be nil.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{drawer, measure}
}
