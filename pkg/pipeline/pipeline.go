package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tak3r/anchorpy/internal/runner"
	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

// Pipeline is a fixed, ordered sequence of steps.
type Pipeline struct {
	steps []*Step
	opts  []model.PipelineOption
}

// New assembles a pipeline from steps in declaration order. Step names must
// be unique and every action must be known. Option hooks fire for each step
// as it is added, chained from the start marker to the end marker.
func New(steps []*Step, opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		steps: steps,
		opts:  opts,
	}

	for _, opt := range opts {
		if err := opt.New(); err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	seen := make(map[string]struct{}, len(steps))
	parent := model.StartStep
	for _, step := range steps {
		if step == nil || step.Name() == "" {
			return nil, ErrStepNameMustBeSet
		}
		if !step.Action().Known() {
			return nil, errors.Wrapf(ErrUnknownAction, "step %q action %q", step.Name(), step.Action())
		}
		if _, ok := seen[step.Name()]; ok {
			return nil, errors.Wrapf(ErrDuplicateStepName, "step %q", step.Name())
		}
		seen[step.Name()] = struct{}{}

		for _, opt := range opts {
			if err := opt.PrepareStep(parent, step.details); err != nil {
				return nil, errors.Wrapf(err, "unable to prepare step %q", step.Name())
			}
		}
		parent = step.details
	}

	for _, opt := range opts {
		if err := opt.PrepareStep(parent, model.EndStep); err != nil {
			return nil, errors.Wrap(err, "unable to prepare end step")
		}
	}

	return pipe, nil
}

// Steps returns the steps in declaration order.
func (p *Pipeline) Steps() []*Step { return p.steps }

// Run executes every step in declaration order against env, using cmd for
// external commands. The first step that fails stops execution: later steps
// are reported skipped and never run. On failure the returned error is a
// *StepError naming the failing step and its exit status; the report is
// returned in both cases.
func (p *Pipeline) Run(ctx context.Context, env *Environment, cmd runner.CommandRunner) (*RunReport, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if env == nil {
		return nil, ErrEnvironmentMustBeSet
	}
	if cmd == nil {
		return nil, ErrRunnerMustBeSet
	}

	report := &RunReport{Start: time.Now()}

	failedIdx := -1
	var failedErr error
	for _, step := range p.steps {
		if failedIdx >= 0 {
			step.details.Status = model.StatusSkipped
			report.Steps = append(report.Steps, StepResult{
				Name:   step.Name(),
				Action: step.Action(),
				Status: model.StatusSkipped,
			})
			if err := p.stepDone(step.details, 0, 0); err != nil {
				return nil, err
			}

			continue
		}

		res, err := p.runStep(ctx, step, env, cmd)
		report.Steps = append(report.Steps, res)
		if hookErr := p.stepDone(step.details, res.Duration, res.ExitCode); hookErr != nil {
			return nil, hookErr
		}
		if res.Status == model.StatusFailed {
			failedIdx = len(report.Steps) - 1
			failedErr = err
		}
	}

	report.Duration = time.Since(report.Start)

	if err := p.finishRun(report.Duration); err != nil {
		return nil, err
	}

	if failedIdx >= 0 {
		report.Failed = &report.Steps[failedIdx]

		return report, &StepError{
			Step:     report.Failed.Name,
			ExitCode: report.Failed.ExitCode,
			Err:      failedErr,
		}
	}

	return report, nil
}

// runStep applies one step to the environment. Every failure mode, from a
// non-zero exit to a command that never started, is folded into a failed
// StepResult; the error carries the cause when there is one.
func (p *Pipeline) runStep(ctx context.Context, step *Step, env *Environment, cmd runner.CommandRunner) (StepResult, error) {
	res := StepResult{
		Name:     step.Name(),
		Action:   step.Action(),
		Status:   model.StatusFailed,
		ExitCode: -1,
	}
	start := time.Now()

	defer func() {
		step.details.Status = res.Status
	}()

	if err := ctx.Err(); err != nil {
		return res, errors.Wrap(err, "run terminated")
	}

	if step.Action() == model.ActionMutatePath {
		dir := step.Param(ParamDir)
		if dir == "" {
			return res, errors.Wrapf(ErrMissingParam, "step %q: %q", step.Name(), ParamDir)
		}
		env.AppendPath(env.Expand(dir))
		res.Status = model.StatusPassed
		res.ExitCode = 0
		res.Duration = time.Since(start)

		return res, nil
	}

	command, err := commandLine(step.details)
	if err != nil {
		return res, err
	}

	out, err := cmd.Run(ctx, command, env.WorkDir(), env.Environ())
	res.Duration = time.Since(start)
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr
	if err != nil {
		if out.ExitCode != 0 {
			res.ExitCode = out.ExitCode
		}

		return res, err
	}

	res.ExitCode = out.ExitCode
	if out.ExitCode != 0 {
		return res, nil
	}

	res.Status = model.StatusPassed
	if step.Action() == model.ActionInstallTool {
		if tool := step.Param(ParamTool); tool != "" {
			env.RegisterTool(tool, step.Param(ParamVersion))
		}
	}

	return res, nil
}

func (p *Pipeline) stepDone(details *model.StepInfo, elapsed time.Duration, exitCode int) error {
	for _, opt := range p.opts {
		if err := opt.OnStepDone(details, elapsed, exitCode); err != nil {
			return errors.Wrapf(err, "unable to run step hook for %q", details.Name)
		}
	}

	return nil
}

func (p *Pipeline) finishRun(total time.Duration) error {
	for _, opt := range p.opts {
		if err := opt.Finish(total); err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
