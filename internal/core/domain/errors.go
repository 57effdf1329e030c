package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrEmptyPipeline is returned when a pipeline has no steps.
	ErrEmptyPipeline = zerr.New("pipeline has no steps")

	// ErrInvalidStepName is returned when a step has an empty name.
	ErrInvalidStepName = zerr.New("step name must not be empty")

	// ErrDuplicateStepName is returned when two steps share a name.
	ErrDuplicateStepName = zerr.New("duplicate step name")

	// ErrEmptyStepCommand is returned when a step has no command.
	ErrEmptyStepCommand = zerr.New("step command must not be empty")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
)

// StepError reports that a step exited non-zero and aborted the run.
// ExitCode is the child's exit status, or -1 when the process did not
// produce one (killed by signal, failed to start).
type StepError struct {
	Step     string
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed with exit code %d", e.Step, e.ExitCode)
}

// Unwrap returns the underlying execution error.
func (e *StepError) Unwrap() error {
	return e.Err
}
