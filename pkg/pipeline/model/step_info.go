package model

// Action identifies what a step does to the run environment.
type Action string

const (
	// ActionCheckout fetches the source tree into the workspace.
	ActionCheckout Action = "checkout"
	// ActionInstallTool fetches and installs a named tool at a pinned version.
	ActionInstallTool Action = "install-tool"
	// ActionMutatePath appends an installation directory to the command search path.
	ActionMutatePath Action = "mutate-path"
	// ActionRunCommand runs an external command with the current environment.
	ActionRunCommand Action = "run-command"
)

// Known reports whether a is one of the supported step actions.
func (a Action) Known() bool {
	switch a {
	case ActionCheckout, ActionInstallTool, ActionMutatePath, ActionRunCommand:
		return true
	}

	return false
}

// Status is the outcome of a step within one run.
type Status string

const (
	StatusPending Status = "pending"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	// StatusSkipped marks steps that never executed because an earlier step failed.
	StatusSkipped Status = "skipped"
)

// StepInfo describes one step of a pipeline. Name, Action and Params are
// fixed at definition time; Status is updated over the course of one run.
type StepInfo struct {
	Name   string
	Action Action
	Params map[string]string
	Status Status
}

// StartStep and EndStep are synthetic markers bounding the step sequence.
// They never execute; options use them to anchor the run graph.
var (
	StartStep = &StepInfo{Name: "start"}
	EndStep   = &StepInfo{Name: "end"}
)
