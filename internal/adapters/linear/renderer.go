// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/gauntlet/internal/ui/output"
	"go.trai.ch/gauntlet/internal/ui/style"
)

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It outputs linear, chronological logs with step name prefixes.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	steps   map[string]*stepState
	buffers map[string]*bytes.Buffer
}

type stepState struct {
	startTime time.Time
}

// NewRenderer creates a new linear Renderer.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	out := termenv.NewOutput(stderr, termenv.WithProfile(output.ColorProfileANSI()))

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  out,
		steps:   make(map[string]*stepState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op for the linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name := range r.buffers {
		r.flushBufferLocked(name)
	}

	return nil
}

// Wait is a no-op for the linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned step sequence.
func (r *Renderer) OnPlanEmit(steps []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Running %d check(s): %v\n", len(steps), steps)
}

// OnStepStart prints a step start message.
func (r *Renderer) OnStepStart(name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[name] = &stepState{startTime: startTime}
	r.buffers[name] = new(bytes.Buffer)

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnStepLog buffers log data and prints complete lines with the step prefix.
func (r *Renderer) OnStepLog(name string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.steps[name]; !ok {
		return
	}

	buf := r.buffers[name]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, put it back.
			if len(line) > 0 {
				newBuf := new(bytes.Buffer)
				newBuf.Write(line)
				r.buffers[name] = newBuf
			}
			break
		}

		r.printLineLocked(name, line)
	}
}

// OnStepComplete flushes the remaining buffer and prints the step outcome.
func (r *Renderer) OnStepComplete(name string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step, ok := r.steps[name]
	if !ok {
		return
	}

	r.flushBufferLocked(name)

	duration := endTime.Sub(step.startTime)
	prefix := fmt.Sprintf("[%s]", name)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			prefix, symbol, duration, err)
	} else {
		symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Passed in %v\n",
			prefix, symbol, duration)
	}

	delete(r.steps, name)
	delete(r.buffers, name)
}

// flushBufferLocked flushes any remaining data in the buffer for a step.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(name string) {
	buf, ok := r.buffers[name]
	if !ok {
		return
	}

	if buf.Len() > 0 {
		r.printLineLocked(name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints a line with the step name prefix.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, string(line))
}
