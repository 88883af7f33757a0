package drawer

import (
	"time"

	"github.com/tak3r/anchorpy/pkg/pipeline/measure"
	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for drawing a pipeline run.
type Drawer interface {
	// AddStep adds a step to the pipeline graph.
	AddStep(stepName string) error
	// AddLink adds a link between a step and the one that follows it.
	AddLink(parentStepName, childStepName string) error
	// SetOutcome annotates a step with its status and duration after it ran.
	SetOutcome(stepName string, status model.Status, elapsed time.Duration) error
	// AddMeasure shades the passed steps by their share of the run time.
	AddMeasure(measure measure.Measure) error
	// Draw creates a file with the pipeline graph.
	Draw() error
}
