// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/gauntlet/internal/core/domain"
)

// Executor defines the interface for executing steps.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the step's command and waits for it to complete.
	//
	// The env parameter contains the run's environment overlay in
	// "KEY=VALUE" form. It is applied on top of the system environment
	// and below any per-step overrides.
	//
	// It returns an error if the step execution fails. When the child
	// process exited non-zero, the error chain contains the
	// *exec.ExitError carrying the exit code.
	Execute(ctx context.Context, step domain.Step, env []string, stdout, stderr io.Writer) error
}
