// Package runner executes the check sequence strictly in order.
package runner

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"go.trai.ch/gauntlet/internal/core/domain"
	"go.trai.ch/gauntlet/internal/core/ports"
)

// Runner drives the pipeline: one step at a time, in order, stopping at
// the first failure. The environment overlay is resolved once before the
// first step and handed unchanged to every execution.
type Runner struct {
	executor ports.Executor
}

// NewRunner creates a new Runner with the given executor.
func NewRunner(executor ports.Executor) *Runner {
	return &Runner{executor: executor}
}

// Run executes all pipeline steps sequentially, reporting progress to the
// renderer. It returns nil when every step passed. When a step exits
// non-zero it returns a *domain.StepError carrying the step name and exit
// code; no later step is launched.
func (r *Runner) Run(ctx context.Context, pipeline *domain.Pipeline, renderer ports.Renderer) error {
	if err := pipeline.Validate(); err != nil {
		return err
	}

	renderer.OnPlanEmit(pipeline.StepNames())

	overlay := pipeline.OverlayEnviron()

	for _, step := range pipeline.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.runStep(ctx, step, overlay, renderer); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) runStep(ctx context.Context, step domain.Step, overlay []string, renderer ports.Renderer) error {
	renderer.OnStepStart(step.Name, time.Now())

	out := &stepLogWriter{name: step.Name, renderer: renderer}
	err := r.executor.Execute(ctx, step, overlay, out, out)

	renderer.OnStepComplete(step.Name, time.Now(), err)

	if err != nil {
		return &domain.StepError{
			Step:     step.Name,
			ExitCode: exitCode(err),
			Err:      err,
		}
	}
	return nil
}

// exitCode extracts the child's exit status from the executor's error
// chain. -1 means the process produced no exit code (failed to start,
// killed by signal).
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// stepLogWriter forwards raw step output to the renderer.
type stepLogWriter struct {
	name     string
	renderer ports.Renderer
}

func (w *stepLogWriter) Write(p []byte) (n int, err error) {
	w.renderer.OnStepLog(w.name, p)
	return len(p), nil
}
