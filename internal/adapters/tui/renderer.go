package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	program := tea.NewProgram(model, opts...)
	return &Renderer{
		program: program,
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit forwards the planned steps to the TUI.
func (r *Renderer) OnPlanEmit(steps []string) {
	r.program.Send(MsgInitSteps{Steps: steps})
}

// OnStepStart forwards step start events to the TUI.
func (r *Renderer) OnStepStart(name string, startTime time.Time) {
	r.program.Send(MsgStepStart{Name: name, StartTime: startTime})
}

// OnStepLog forwards step output to the TUI.
func (r *Renderer) OnStepLog(name string, data []byte) {
	r.program.Send(MsgStepLog{Name: name, Data: data})
}

// OnStepComplete forwards step completion events to the TUI.
func (r *Renderer) OnStepComplete(name string, endTime time.Time, err error) {
	r.program.Send(MsgStepComplete{Name: name, EndTime: endTime, Err: err})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
