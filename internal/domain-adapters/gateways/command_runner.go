// Package gateways adapts the host system (processes, filesystem, os-release)
// to the domain's interfaces.
package gateways

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/ochairo/wheelwright/internal/domain/entities"
	"github.com/ochairo/wheelwright/internal/domain/interfaces"
)

// ExecRunner runs external tools as child processes
type ExecRunner struct {
	output io.Writer
	logger interfaces.Logger
}

// NewExecRunner creates a runner that streams tool output to w.
// A nil w discards the live stream; output is still captured in the result.
func NewExecRunner(w io.Writer, logger interfaces.Logger) *ExecRunner {
	if w == nil {
		w = io.Discard
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ExecRunner{output: w, logger: logger}
}

// Run executes cmd and waits for it to exit. There is no timeout; ctx only
// allows an interrupt to kill the child.
func (r *ExecRunner) Run(ctx context.Context, cmd interfaces.Command) (*interfaces.CommandResult, error) {
	startTime := time.Now()
	result := &interfaces.CommandResult{}

	//nolint:gosec // G204: tool names and arguments come from the build configuration
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	c.Env = os.Environ()

	var captured bytes.Buffer
	stream := io.MultiWriter(r.output, &captured)
	c.Stdout = stream
	c.Stderr = stream

	if cmd.Description != "" {
		r.logger.Debug("Executing", interfaces.F("step", cmd.Description), interfaces.F("command", cmd.String()))
	}

	err := c.Run()
	result.Duration = time.Since(startTime)
	result.Output = captured.String()

	if err != nil {
		procErr := &entities.ProcessError{Command: cmd.String(), ExitCode: -1, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			procErr.ExitCode = exitErr.ExitCode()
		}
		result.ExitCode = procErr.ExitCode
		return result, procErr
	}

	result.ExitCode = 0
	return result, nil
}
