package measure_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tak3r/anchorpy/internal/runner"
	"github.com/tak3r/anchorpy/pkg/pipeline"
	"github.com/tak3r/anchorpy/pkg/pipeline/measure"
	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

func TestDefaultMeasure(t *testing.T) {
	m := measure.NewDefaultMeasure()

	assert.Nil(t, m.GetMetric("missing"))

	mt := m.AddMetric("Run tests")
	mt.SetDuration(1500 * time.Millisecond)
	mt.SetExitCode(2)

	got := m.GetMetric("Run tests")
	require.NotNil(t, got)
	assert.Equal(t, 2*time.Second, got.Duration())
	assert.Equal(t, 2, got.ExitCode())

	m.SetRunDuration(90 * time.Second)
	assert.Equal(t, 90*time.Second, m.RunDuration())

	assert.Len(t, m.AllMetrics(), 1)
}

func TestMetricRounding(t *testing.T) {
	tcs := map[string]struct {
		in   time.Duration
		want time.Duration
	}{
		"seconds":      {in: 2*time.Second + 300*time.Millisecond, want: 2 * time.Second},
		"milliseconds": {in: 3*time.Millisecond + 400*time.Microsecond, want: 3 * time.Millisecond},
		"microseconds": {in: 5*time.Microsecond + 600*time.Nanosecond, want: 6 * time.Microsecond},
		"tiny":         {in: 42 * time.Nanosecond, want: 42 * time.Nanosecond},
	}

	m := measure.NewDefaultMeasure()
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			mt := m.AddMetric(name)
			mt.SetDuration(tc.in)
			assert.Equal(t, tc.want, mt.Duration())
		})
	}
}

func TestPipelineMeasureOption(t *testing.T) {
	steps := []*pipeline.Step{
		pipeline.NewStep("First", model.ActionRunCommand, map[string]string{"run": "true"}),
		pipeline.NewStep("Second", model.ActionRunCommand, map[string]string{"run": "false"}),
		pipeline.NewStep("Third", model.ActionRunCommand, map[string]string{"run": "true"}),
	}
	m := measure.NewDefaultMeasure()

	pipe, err := pipeline.New(steps, measure.PipelineMeasure(m))
	require.NoError(t, err)

	fake := &runner.FakeCommandRunner{
		Results: []runner.Result{{}, {ExitCode: 1}},
	}
	_, err = pipe.Run(context.Background(), pipeline.NewEnvironment(t.TempDir(), nil), fake)
	require.Error(t, err)

	require.Len(t, m.AllMetrics(), 3)
	assert.Equal(t, 0, m.GetMetric("First").ExitCode())
	assert.Equal(t, 1, m.GetMetric("Second").ExitCode())
	// Skipped steps report through the hook with a zero duration and exit.
	assert.Equal(t, 0, m.GetMetric("Third").ExitCode())
	assert.Zero(t, m.GetMetric("Third").Duration())

	assert.NotZero(t, m.RunDuration())
}
