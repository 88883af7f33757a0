// Package runner executes step commands against a prepared environment.
package runner

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Result holds the captured output of one command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner is an interface for executing a shell command and getting
// its output and exit status. A non-zero exit status is reported through
// Result, not through the error return.
type CommandRunner interface {
	Run(ctx context.Context, command, workDir string, environ []string) (Result, error)
}

// ShellRunner runs commands through "sh -c" with the given working
// directory and environment. Commands only see the variables handed to
// them; nothing from the host leaks in.
type ShellRunner struct{}

var _ CommandRunner = &ShellRunner{}

func (r *ShellRunner) Run(ctx context.Context, command, workDir string, environ []string) (Result, error) {
	log.WithField("command", command).Debug("running command")

	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = workDir
	cmd.Env = environ
	// Own process group, so cancellation can kill the whole tree.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{ExitCode: -1}, errors.Wrap(err, "unable to open stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{ExitCode: -1}, errors.Wrap(err, "unable to open stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, errors.Wrapf(err, "unable to start command %q", command)
	}

	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			if cmd.Process != nil {
				// Negative pid targets the process group.
				_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			}
		case <-watchDone:
		}
	}()

	var outBuf, errBuf bytes.Buffer
	pumps := errgroup.Group{}
	pumps.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	pumps.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})

	// The pumps finish when the process closes its ends; drain them before
	// Wait reclaims the pipes.
	pumpErr := pumps.Wait()
	waitErr := cmd.Wait()
	close(watchDone)

	res := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}

	if ctx.Err() != nil {
		res.ExitCode = -1
		return res, errors.Wrap(ctx.Err(), "command cancelled")
	}
	if pumpErr != nil {
		res.ExitCode = -1
		return res, errors.Wrap(pumpErr, "unable to capture command output")
	}

	if waitErr != nil {
		exitErr := &exec.ExitError{}
		if !errors.As(waitErr, &exitErr) {
			res.ExitCode = -1
			return res, errors.Wrapf(waitErr, "unable to run command %q", command)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	log.WithFields(log.Fields{"command": command, "exit": res.ExitCode}).Debug("command finished")

	return res, nil
}
