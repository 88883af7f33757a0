package pipeline

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

// Step parameter keys understood by the actions.
const (
	// ParamRepository is the clone URL of a checkout step.
	ParamRepository = "repository"
	// ParamRef is the ref a checkout step switches to after cloning.
	ParamRef = "ref"
	// ParamRun is the command line of an install-tool or run-command step.
	ParamRun = "run"
	// ParamDir is the directory a mutate-path step appends to the search path.
	ParamDir = "dir"
	// ParamTool and ParamVersion register the installed tool on success.
	ParamTool    = "tool"
	ParamVersion = "version"
)

// commandLine renders the shell command a step executes. Mutate-path steps
// return an empty command; they apply to the environment without spawning a
// process.
//
// Run commands are passed to the shell verbatim: variable references expand
// in-shell against the run environment, so installer one-liners with command
// substitution keep working.
func commandLine(details *model.StepInfo) (string, error) {
	switch details.Action {
	case model.ActionCheckout:
		repo := details.Params[ParamRepository]
		if repo == "" {
			return "", errors.Wrapf(ErrMissingParam, "step %q: %q", details.Name, ParamRepository)
		}
		cmd := fmt.Sprintf("git clone %q .", repo)
		if ref := details.Params[ParamRef]; ref != "" {
			cmd += fmt.Sprintf(" && git -c advice.detachedHead=false checkout %q", ref)
		}

		return cmd, nil

	case model.ActionInstallTool, model.ActionRunCommand:
		run := details.Params[ParamRun]
		if run == "" {
			return "", errors.Wrapf(ErrMissingParam, "step %q: %q", details.Name, ParamRun)
		}

		return run, nil

	case model.ActionMutatePath:
		return "", nil
	}

	return "", errors.Wrapf(ErrUnknownAction, "step %q action %q", details.Name, details.Action)
}
