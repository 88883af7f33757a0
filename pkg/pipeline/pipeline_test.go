package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tak3r/anchorpy/internal/config"
	"github.com/tak3r/anchorpy/internal/runner"
	"github.com/tak3r/anchorpy/pkg/pipeline"
	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

func testEnv(t *testing.T) *pipeline.Environment {
	t.Helper()

	return pipeline.NewEnvironment(t.TempDir(), map[string]string{
		"PATH": "/usr/bin:/bin",
		"HOME": "/home/ci",
	})
}

func stepNames(results []pipeline.StepResult) []string {
	names := make([]string, 0, len(results))
	for _, res := range results {
		names = append(names, res.Name)
	}

	return names
}

func TestRunAllStepsPass(t *testing.T) {
	fake := &runner.FakeCommandRunner{}
	pipe, err := pipeline.New(config.Default().Build())
	require.NoError(t, err)

	report, err := pipe.Run(context.Background(), testEnv(t), fake)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.True(t, report.Passed())
	assert.Nil(t, report.Failed)
	assert.Len(t, report.Steps, 11)
	for _, res := range report.Steps {
		assert.Equal(t, model.StatusPassed, res.Status, res.Name)
		assert.Zero(t, res.ExitCode, res.Name)
	}
	// 11 steps, one of which mutates the path without spawning a process.
	assert.Len(t, fake.Calls, 10)
}

func TestRunFirstFailureSkipsRemainder(t *testing.T) {
	// The Solana installer is the fourth command the default pipeline runs.
	fake := &runner.FakeCommandRunner{
		Results: []runner.Result{{}, {}, {}, {ExitCode: 1, Stderr: "curl: (6) could not resolve host\n"}},
	}
	pipe, err := pipeline.New(config.Default().Build())
	require.NoError(t, err)

	report, err := pipe.Run(context.Background(), testEnv(t), fake)
	require.Error(t, err)
	require.NotNil(t, report)

	stepErr := &pipeline.StepError{}
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "Install Solana", stepErr.Step)
	assert.Equal(t, 1, stepErr.ExitCode)

	assert.False(t, report.Passed())
	require.NotNil(t, report.Failed)
	assert.Equal(t, "Install Solana", report.Failed.Name)
	assert.Equal(t, 1, report.Failed.ExitCode)

	require.Len(t, report.Steps, 11)
	for i, res := range report.Steps {
		switch {
		case i < 3:
			assert.Equal(t, model.StatusPassed, res.Status, res.Name)
		case i == 3:
			assert.Equal(t, model.StatusFailed, res.Status, res.Name)
		default:
			assert.Equal(t, model.StatusSkipped, res.Status, res.Name)
		}
	}

	// Nothing after the failing step spawned a process.
	assert.Len(t, fake.Calls, 4)
}

func TestRunFinalStepFails(t *testing.T) {
	results := make([]runner.Result, 10)
	results[9] = runner.Result{ExitCode: 2, Stderr: "FAILED tests/test_program.py\n"}
	fake := &runner.FakeCommandRunner{Results: results}

	pipe, err := pipeline.New(config.Default().Build())
	require.NoError(t, err)

	report, err := pipe.Run(context.Background(), testEnv(t), fake)
	require.Error(t, err)

	stepErr := &pipeline.StepError{}
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "Run tests", stepErr.Step)
	assert.Equal(t, 2, stepErr.ExitCode)

	require.Len(t, report.Steps, 11)
	for _, res := range report.Steps[:10] {
		assert.Equal(t, model.StatusPassed, res.Status, res.Name)
	}
	assert.Equal(t, model.StatusFailed, report.Steps[10].Status)
}

func TestRunEmptyPipeline(t *testing.T) {
	pipe, err := pipeline.New(nil)
	require.NoError(t, err)

	report, err := pipe.Run(context.Background(), testEnv(t), &runner.FakeCommandRunner{})
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Empty(t, report.Steps)
}

func TestRunMutatePathPropagates(t *testing.T) {
	steps := []*pipeline.Step{
		pipeline.NewStep("Add tools to PATH", model.ActionMutatePath, map[string]string{
			"dir": "$HOME/.tools/bin",
		}),
		pipeline.NewStep("Which tool", model.ActionRunCommand, map[string]string{
			"run": "command -v tool",
		}),
	}
	fake := &runner.FakeCommandRunner{}
	pipe, err := pipeline.New(steps)
	require.NoError(t, err)

	report, err := pipe.Run(context.Background(), testEnv(t), fake)
	require.NoError(t, err)
	assert.True(t, report.Passed())

	require.Len(t, fake.Environs, 1)
	assert.Contains(t, fake.Environs[0], "PATH=/home/ci/.tools/bin:/usr/bin:/bin")
}

func TestRunInstallToolRegisters(t *testing.T) {
	steps := []*pipeline.Step{
		pipeline.NewStep("Install Solana", model.ActionInstallTool, map[string]string{
			"tool":    "solana",
			"version": "v1.9.13",
			"run":     "true",
		}),
	}
	env := testEnv(t)
	pipe, err := pipeline.New(steps)
	require.NoError(t, err)

	_, err = pipe.Run(context.Background(), env, &runner.FakeCommandRunner{})
	require.NoError(t, err)

	version, ok := env.Tool("solana")
	assert.True(t, ok)
	assert.Equal(t, "v1.9.13", version)
}

func TestRunRunnerError(t *testing.T) {
	fake := &runner.FakeCommandRunner{Err: assert.AnError}
	pipe, err := pipeline.New(config.Default().Build())
	require.NoError(t, err)

	report, err := pipe.Run(context.Background(), testEnv(t), fake)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	stepErr := &pipeline.StepError{}
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "Checkout", stepErr.Step)
	assert.Equal(t, -1, stepErr.ExitCode)

	require.NotEmpty(t, report.Steps)
	assert.Equal(t, model.StatusFailed, report.Steps[0].Status)
	for _, res := range report.Steps[1:] {
		assert.Equal(t, model.StatusSkipped, res.Status, res.Name)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipe, err := pipeline.New(config.Default().Build())
	require.NoError(t, err)

	report, err := pipe.Run(ctx, testEnv(t), &runner.FakeCommandRunner{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	require.NotEmpty(t, report.Steps)
	assert.Equal(t, model.StatusFailed, report.Steps[0].Status)
	assert.Equal(t, -1, report.Steps[0].ExitCode)
}

func TestRunRepeatable(t *testing.T) {
	// Identical external conditions yield the same classification.
	for i := 0; i < 2; i++ {
		fake := &runner.FakeCommandRunner{
			Results: []runner.Result{{}, {}, {}, {ExitCode: 1}},
		}
		pipe, err := pipeline.New(config.Default().Build())
		require.NoError(t, err)

		report, err := pipe.Run(context.Background(), testEnv(t), fake)
		require.Error(t, err)
		require.NotNil(t, report.Failed)
		assert.Equal(t, "Install Solana", report.Failed.Name)
	}
}

func TestRunArgumentValidation(t *testing.T) {
	pipe, err := pipeline.New(nil)
	require.NoError(t, err)

	_, err = pipe.Run(context.Background(), nil, &runner.FakeCommandRunner{})
	assert.ErrorIs(t, err, pipeline.ErrEnvironmentMustBeSet)

	_, err = pipe.Run(context.Background(), testEnv(t), nil)
	assert.ErrorIs(t, err, pipeline.ErrRunnerMustBeSet)
}

func TestNewValidation(t *testing.T) {
	tcs := map[string]struct {
		steps  []*pipeline.Step
		expect error
	}{
		"empty name": {
			steps:  []*pipeline.Step{pipeline.NewStep("", model.ActionRunCommand, nil)},
			expect: pipeline.ErrStepNameMustBeSet,
		},
		"unknown action": {
			steps:  []*pipeline.Step{pipeline.NewStep("Deploy", "deploy", nil)},
			expect: pipeline.ErrUnknownAction,
		},
		"duplicate name": {
			steps: []*pipeline.Step{
				pipeline.NewStep("Run tests", model.ActionRunCommand, map[string]string{"run": "true"}),
				pipeline.NewStep("Run tests", model.ActionRunCommand, map[string]string{"run": "true"}),
			},
			expect: pipeline.ErrDuplicateStepName,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := pipeline.New(tc.steps)
			assert.ErrorIs(t, err, tc.expect)
		})
	}
}

type recordingOption struct {
	prepared []string
	done     []string
	total    time.Duration
}

func (r *recordingOption) New() error { return nil }

func (r *recordingOption) PrepareStep(parent, step *model.StepInfo) error {
	r.prepared = append(r.prepared, parent.Name+"->"+step.Name)

	return nil
}

func (r *recordingOption) OnStepDone(step *model.StepInfo, _ time.Duration, _ int) error {
	r.done = append(r.done, step.Name)

	return nil
}

func (r *recordingOption) Finish(total time.Duration) error {
	r.total = total

	return nil
}

func TestOptionHooks(t *testing.T) {
	steps := []*pipeline.Step{
		pipeline.NewStep("First", model.ActionRunCommand, map[string]string{"run": "true"}),
		pipeline.NewStep("Second", model.ActionRunCommand, map[string]string{"run": "true"}),
	}
	rec := &recordingOption{}
	pipe, err := pipeline.New(steps, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"start->First", "First->Second", "Second->end"}, rec.prepared)

	_, err = pipe.Run(context.Background(), testEnv(t), &runner.FakeCommandRunner{})
	require.NoError(t, err)

	assert.Equal(t, []string{"First", "Second"}, rec.done)
	assert.NotZero(t, rec.total)
}
