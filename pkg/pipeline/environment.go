package pipeline

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Environment is the ephemeral execution context of one run. It accumulates
// search path mutations and installed tool state as steps execute, and is
// discarded when the run ends. An Environment must not be shared between
// runs.
type Environment struct {
	workDir string
	vars    map[string]string
	path    []string
	tools   map[string]string
}

// NewEnvironment creates an Environment rooted at workDir with the given
// base variables. The search path starts empty; mutate-path steps extend it.
func NewEnvironment(workDir string, base map[string]string) *Environment {
	vars := make(map[string]string, len(base))
	for k, v := range base {
		vars[k] = v
	}

	return &Environment{
		workDir: workDir,
		vars:    vars,
		tools:   make(map[string]string),
	}
}

// HostEnvironment creates an Environment seeded with the handful of host
// variables provisioning commands rely on.
func HostEnvironment(workDir string) *Environment {
	base := make(map[string]string)
	for _, key := range []string{"PATH", "HOME", "USER", "TMPDIR"} {
		if v, ok := os.LookupEnv(key); ok {
			base[key] = v
		}
	}

	return NewEnvironment(workDir, base)
}

// WorkDir is the directory step commands execute in.
func (e *Environment) WorkDir() string { return e.workDir }

// AppendPath adds dir to the command search path. Appended directories
// resolve ahead of the base PATH, so freshly installed tools shadow host
// binaries of the same name.
func (e *Environment) AppendPath(dir string) {
	e.path = append(e.path, dir)
}

// RegisterTool records that a tool was installed at a pinned version.
func (e *Environment) RegisterTool(name, version string) {
	e.tools[name] = version
}

// Tool returns the pinned version an installed tool was registered with.
func (e *Environment) Tool(name string) (string, bool) {
	v, ok := e.tools[name]
	return v, ok
}

// Expand substitutes $VAR and ${VAR} references against the run variables.
// Unknown variables expand to the empty string.
func (e *Environment) Expand(s string) string {
	return os.Expand(s, func(key string) string {
		return e.vars[key]
	})
}

// Environ renders the process environment for step commands: the base
// variables, with PATH replaced by the accumulated search path. Keys are
// emitted in sorted order so the result is deterministic.
func (e *Environment) Environ() []string {
	vars := make(map[string]string, len(e.vars)+1)
	for k, v := range e.vars {
		vars[k] = v
	}
	if sp := e.searchPath(); sp != "" {
		vars["PATH"] = sp
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, vars[k]))
	}

	return out
}

func (e *Environment) searchPath() string {
	parts := make([]string, 0, len(e.path)+1)
	parts = append(parts, e.path...)
	if base := e.vars["PATH"]; base != "" {
		parts = append(parts, base)
	}

	return strings.Join(parts, string(os.PathListSeparator))
}
