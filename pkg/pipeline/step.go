package pipeline

import (
	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

// Step is one named unit of work in the pipeline. Steps are immutable once
// the pipeline is assembled; ordering is significant and fixed at definition
// time.
type Step struct {
	details *model.StepInfo
}

// NewStep creates a step with the given name, action and parameters. The
// parameter map is copied.
func NewStep(name string, action model.Action, params map[string]string) *Step {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}

	return &Step{details: &model.StepInfo{
		Name:   name,
		Action: action,
		Params: copied,
		Status: model.StatusPending,
	}}
}

func (s *Step) Name() string { return s.details.Name }

func (s *Step) Action() model.Action { return s.details.Action }

// Param returns the value of a step parameter, or the empty string.
func (s *Step) Param(key string) string { return s.details.Params[key] }

// Details exposes the underlying step descriptor for pipeline options.
func (s *Step) Details() *model.StepInfo { return s.details }
