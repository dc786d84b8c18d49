package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedEnvironment marks an unrecognized OS or distribution, or a
	// missing required environment value.
	ErrUnsupportedEnvironment = errors.New("unsupported environment")

	// ErrArtifactCount marks an output directory that does not hold exactly one artifact.
	ErrArtifactCount = errors.New("unexpected number of artifacts")
)

// ProcessError reports an external tool that could not run or exited non-zero
type ProcessError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ProcessError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: failed to run: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: exited with status %d", e.Command, e.ExitCode)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
