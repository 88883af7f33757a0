package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tak3r/anchorpy/internal/runner"
)

var baseEnviron = []string{"PATH=/usr/bin:/bin"}

func TestShellRunnerCapturesStdout(t *testing.T) {
	r := &runner.ShellRunner{}

	res, err := r.Run(context.Background(), "echo hello", t.TempDir(), baseEnviron)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestShellRunnerCapturesStderr(t *testing.T) {
	r := &runner.ShellRunner{}

	res, err := r.Run(context.Background(), "echo oops 1>&2", t.TempDir(), baseEnviron)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "oops\n", res.Stderr)
}

func TestShellRunnerNonZeroExit(t *testing.T) {
	r := &runner.ShellRunner{}

	res, err := r.Run(context.Background(), "exit 3", t.TempDir(), baseEnviron)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestShellRunnerInjectedEnvironmentOnly(t *testing.T) {
	t.Setenv("ANCHORCI_LEAK_CHECK", "leaked")

	r := &runner.ShellRunner{}

	res, err := r.Run(context.Background(), "echo $FOO$ANCHORCI_LEAK_CHECK",
		t.TempDir(), append(baseEnviron, "FOO=bar"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "bar\n", res.Stdout)
}

func TestShellRunnerCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	r := &runner.ShellRunner{}

	start := time.Now()
	res, err := r.Run(ctx, "sleep 30", t.TempDir(), baseEnviron)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestFakeCommandRunnerReplaysResults(t *testing.T) {
	fake := &runner.FakeCommandRunner{
		Results: []runner.Result{
			{Stdout: "first\n"},
			{ExitCode: 1, Stderr: "second failed\n"},
		},
	}

	res, err := fake.Run(context.Background(), "one", "/work", baseEnviron)
	require.NoError(t, err)
	assert.Equal(t, "first\n", res.Stdout)

	res, err = fake.Run(context.Background(), "two", "/work", baseEnviron)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)

	// Beyond the script, calls succeed with empty output.
	res, err = fake.Run(context.Background(), "three", "/work", baseEnviron)
	require.NoError(t, err)
	assert.Zero(t, res.ExitCode)

	assert.Equal(t, []string{"one", "two", "three"}, fake.Calls)
	assert.Equal(t, []string{"/work", "/work", "/work"}, fake.WorkDirs)
}
