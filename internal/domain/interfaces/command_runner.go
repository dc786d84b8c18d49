package interfaces

import (
	"context"
	"strings"
	"time"
)

// Command describes one external tool invocation
type Command struct {
	Name        string
	Args        []string
	Dir         string
	Description string
}

// String renders the command line for diagnostics
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// CommandResult is the outcome of a finished invocation
type CommandResult struct {
	ExitCode int
	Output   string
	Duration time.Duration
}

// CommandRunner runs external commands and blocks until they exit.
// A non-zero exit is reported as an *entities.ProcessError.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*CommandResult, error)
}
