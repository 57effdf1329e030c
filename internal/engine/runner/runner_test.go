package runner_test

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gauntlet/internal/core/domain"
	"go.trai.ch/gauntlet/internal/core/ports/mocks"
	"go.trai.ch/gauntlet/internal/engine/runner"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// stubPipeline builds a minimal pipeline with the given step names.
func stubPipeline(names ...string) *domain.Pipeline {
	steps := make([]domain.Step, len(names))
	for i, name := range names {
		steps[i] = domain.Step{Name: name, Command: []string{"true"}}
	}
	return &domain.Pipeline{
		Steps: steps,
		Overlay: map[string]string{
			domain.RustFlagsVar:    domain.WarningsAsErrors,
			domain.RustDocFlagsVar: domain.WarningsAsErrors,
		},
	}
}

// quietRenderer returns a mock renderer that tolerates any event.
func quietRenderer(ctrl *gomock.Controller) *mocks.MockRenderer {
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().OnPlanEmit(gomock.Any()).AnyTimes()
	renderer.EXPECT().OnStepStart(gomock.Any(), gomock.Any()).AnyTimes()
	renderer.EXPECT().OnStepLog(gomock.Any(), gomock.Any()).AnyTimes()
	renderer.EXPECT().OnStepComplete(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	return renderer
}

// realExitError produces a genuine *exec.ExitError with the given code.
func realExitError(t *testing.T, code int) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit "+strconv.Itoa(code)).Run()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, code, exitErr.ExitCode())
	return err
}

func TestRunner_Run_AllStepsPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	pipeline := domain.NewPipeline(domain.DefaultSettings(t.TempDir()))

	var executed []string
	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(7).
		DoAndReturn(func(_ context.Context, step domain.Step, _ []string, _, _ io.Writer) error {
			executed = append(executed, step.Name)
			return nil
		})

	r := runner.NewRunner(executor)
	err := r.Run(context.Background(), pipeline, quietRenderer(ctrl))

	require.NoError(t, err)
	assert.Equal(t, pipeline.StepNames(), executed)
}

func TestRunner_Run_StopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	pipeline := stubPipeline("build", "test", "doc", "clippy")
	failure := zerr.Wrap(realExitError(t, 1), "command failed")

	gomock.InOrder(
		executor.EXPECT().
			Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil),
		executor.EXPECT().
			Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(failure),
	)
	// No expectation beyond the second call: executing "doc" or "clippy"
	// would fail the controller.

	r := runner.NewRunner(executor)
	err := r.Run(context.Background(), pipeline, quietRenderer(ctrl))

	var stepErr *domain.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "test", stepErr.Step)
	assert.Equal(t, 1, stepErr.ExitCode)
}

func TestRunner_Run_PropagatesExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	pipeline := stubPipeline("clippy")
	failure := zerr.Wrap(realExitError(t, 101), "command failed")

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(failure)

	r := runner.NewRunner(executor)
	err := r.Run(context.Background(), pipeline, quietRenderer(ctrl))

	var stepErr *domain.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 101, stepErr.ExitCode)
}

func TestRunner_Run_NoExitCodeInChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	pipeline := stubPipeline("build")
	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("failed to start command"))

	r := runner.NewRunner(executor)
	err := r.Run(context.Background(), pipeline, quietRenderer(ctrl))

	var stepErr *domain.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, -1, stepErr.ExitCode)
}

func TestRunner_Run_OverlayVisibleToEveryStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	pipeline := stubPipeline("build", "test", "fmt")

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(3).
		DoAndReturn(func(_ context.Context, _ domain.Step, env []string, _, _ io.Writer) error {
			assert.Contains(t, env, "RUSTFLAGS=-D warnings")
			assert.Contains(t, env, "RUSTDOCFLAGS=-D warnings")
			return nil
		})

	r := runner.NewRunner(executor)
	require.NoError(t, r.Run(context.Background(), pipeline, quietRenderer(ctrl)))
}

func TestRunner_Run_RendererEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	renderer := mocks.NewMockRenderer(ctrl)

	pipeline := stubPipeline("build")

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Step, _ []string, stdout, _ io.Writer) error {
			_, _ = stdout.Write([]byte("Compiling acme\n"))
			return nil
		})

	gomock.InOrder(
		renderer.EXPECT().OnPlanEmit([]string{"build"}),
		renderer.EXPECT().OnStepStart("build", gomock.Any()),
		renderer.EXPECT().OnStepLog("build", []byte("Compiling acme\n")),
		renderer.EXPECT().OnStepComplete("build", gomock.Any(), nil),
	)

	r := runner.NewRunner(executor)
	require.NoError(t, r.Run(context.Background(), pipeline, renderer))
}

func TestRunner_Run_ContextCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.NewRunner(executor)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().OnPlanEmit(gomock.Any()).AnyTimes()

	err := r.Run(ctx, stubPipeline("build"), renderer)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Run_InvalidPipeline(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	r := runner.NewRunner(executor)
	err := r.Run(context.Background(), &domain.Pipeline{}, mocks.NewMockRenderer(ctrl))

	require.ErrorIs(t, err, domain.ErrEmptyPipeline)
}
