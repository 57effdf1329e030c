// Package shell provides a shell-based executor for running pipeline steps.
package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/gauntlet/internal/core/domain"
	"go.trai.ch/gauntlet/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec and pty.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new shell Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the step's command in a PTY and waits for it to complete.
//
// The overlay env entries are applied on top of the system environment;
// per-step entries win over both. Output is streamed line-buffered to the
// logger and raw to the provided writer. A PTY merges stdout and stderr,
// so both land on the stdout writer.
func (e *Executor) Execute(ctx context.Context, step domain.Step, env []string, stdout, _ io.Writer) error {
	if len(step.Command) == 0 {
		return nil
	}

	stdoutLog := &logWriter{logger: e.logger}
	finalStdout := io.MultiWriter(stdoutLog, stdout)

	name := step.Command[0]
	args := step.Command[1:]

	cmdEnv := resolveEnvironment(os.Environ(), env, step.Environment)

	// Resolve the executable against the merged PATH, not the parent's.
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // step commands are fixed
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	if step.WorkingDir != "" {
		cmd.Dir = step.WorkingDir
	}
	cmd.Env = cmdEnv

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return zerr.Wrap(err, "failed to start command")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		defer func() { _ = stdoutLog.Close() }()

		_, _ = io.Copy(finalStdout, ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone

	if waitErr != nil {
		exitCode := -1
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.Wrap(waitErr, "command failed"), "exit_code", exitCode)
	}

	return nil
}

// logWriter buffers PTY output and forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close flushes any remaining partial line.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := string(line)
	// PTYs may introduce \r. Remove it.
	msg = strings.TrimSuffix(msg, "\r")
	w.logger.Info(msg)
}

// resolveEnvironment merges environment variables with increasing priority:
// the full system environment, then the run overlay, then per-step entries.
func resolveEnvironment(sysEnv, overlay []string, stepEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overlay)+len(stepEnv))

	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for _, entry := range overlay {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range stepEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of the given environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
