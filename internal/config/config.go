// Package config loads pipeline definitions from YAML files and carries the
// built-in anchorpy provisioning pipeline.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tak3r/anchorpy/pkg/pipeline"
	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

var (
	ErrNoSteps           = errors.New("pipeline must define at least one step")
	ErrStepNameMustBeSet = errors.New("step name must be set")
	ErrDuplicateStepName = errors.New("step name already used")
	ErrUnknownAction     = errors.New("unknown step action")
)

// Step is one entry of a pipeline definition.
type Step struct {
	Name   string            `yaml:"name"`
	Action string            `yaml:"action"`
	With   map[string]string `yaml:"with"`
}

// Pipeline is a declarative pipeline definition: a name, the source-control
// events that trigger it, and the ordered step list.
type Pipeline struct {
	Name  string   `yaml:"name"`
	On    []string `yaml:"on"`
	Steps []Step   `yaml:"steps"`
}

// Load reads and validates a pipeline definition from path.
func Load(path string) (*Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read pipeline file %s", path)
	}

	return Parse(raw)
}

// Parse unmarshals and validates a pipeline definition.
func Parse(raw []byte) (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, errors.Wrap(err, "unable to parse pipeline definition")
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks the definition for empty or duplicate step names and
// unknown actions.
func (p *Pipeline) Validate() error {
	if len(p.Steps) == 0 {
		return ErrNoSteps
	}

	seen := make(map[string]struct{}, len(p.Steps))
	for _, s := range p.Steps {
		if s.Name == "" {
			return ErrStepNameMustBeSet
		}
		if _, ok := seen[s.Name]; ok {
			return errors.Wrapf(ErrDuplicateStepName, "step %q", s.Name)
		}
		seen[s.Name] = struct{}{}

		if !model.Action(s.Action).Known() {
			return errors.Wrapf(ErrUnknownAction, "step %q action %q", s.Name, s.Action)
		}
	}

	return nil
}

// Build converts the definition into runnable pipeline steps, preserving
// declaration order.
func (p *Pipeline) Build() []*pipeline.Step {
	steps := make([]*pipeline.Step, 0, len(p.Steps))
	for _, s := range p.Steps {
		steps = append(steps, pipeline.NewStep(s.Name, model.Action(s.Action), s.With))
	}

	return steps
}
