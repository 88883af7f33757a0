package runner

import "context"

// FakeCommandRunner replays scripted results in call order and records every
// command it receives. Calls beyond the scripted results succeed with empty
// output.
type FakeCommandRunner struct {
	Results []Result
	Err     error

	Calls    []string
	WorkDirs []string
	Environs [][]string
}

var _ CommandRunner = &FakeCommandRunner{}

func (f *FakeCommandRunner) Run(_ context.Context, command, workDir string, environ []string) (Result, error) {
	idx := len(f.Calls)
	f.Calls = append(f.Calls, command)
	f.WorkDirs = append(f.WorkDirs, workDir)
	f.Environs = append(f.Environs, environ)

	if f.Err != nil {
		return Result{ExitCode: -1}, f.Err
	}
	if idx < len(f.Results) {
		return f.Results[idx], nil
	}

	return Result{}, nil
}
