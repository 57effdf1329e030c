package app_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gauntlet/internal/app"
	"go.trai.ch/gauntlet/internal/core/domain"
	"go.trai.ch/gauntlet/internal/core/ports/mocks"
	"go.trai.ch/gauntlet/internal/engine/runner"
	"go.uber.org/mock/gomock"
)

func TestApp_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	tmpDir := t.TempDir()
	mockLoader.EXPECT().Load(tmpDir).Return(domain.DefaultSettings(tmpDir), nil)

	var executed []string
	mockExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, step domain.Step, _ []string, _, _ io.Writer) error {
			executed = append(executed, step.Name)
			return nil
		}).
		Times(7)

	a := app.New(mockLoader, runner.NewRunner(mockExecutor), mockLogger)

	err := a.Run(context.Background(), app.RunOptions{Dir: tmpDir, OutputMode: "linear"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"build",
		"build-all-features",
		"test",
		"test-all-features",
		"doc",
		"clippy",
		"fmt",
	}, executed)
}

func TestApp_Run_StopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	tmpDir := t.TempDir()
	mockLoader.EXPECT().Load(tmpDir).Return(domain.DefaultSettings(tmpDir), nil)

	calls := 0
	mockExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Step, _ []string, _, _ io.Writer) error {
			calls++
			if calls == 3 {
				return errors.New("test step blew up")
			}
			return nil
		}).
		Times(3)

	a := app.New(mockLoader, runner.NewRunner(mockExecutor), mockLogger)

	err := a.Run(context.Background(), app.RunOptions{Dir: tmpDir, OutputMode: "linear"})
	require.Error(t, err)

	var stepErr *domain.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "test", stepErr.Step)
	assert.Equal(t, 3, calls)
}

func TestApp_Run_TUIMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	tmpDir := t.TempDir()
	mockLoader.EXPECT().Load(tmpDir).Return(domain.DefaultSettings(tmpDir), nil)
	mockExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(7)

	a := app.New(mockLoader, runner.NewRunner(mockExecutor), mockLogger).
		WithTeaOptions(
			tea.WithInput(strings.NewReader("")),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
			tea.WithoutRenderer(),
		)

	err := a.Run(context.Background(), app.RunOptions{Dir: tmpDir, OutputMode: "tui"})
	require.NoError(t, err)
}

func TestApp_Run_ConfigLoaderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	tmpDir := t.TempDir()
	mockLoader.EXPECT().Load(tmpDir).Return(domain.Settings{}, errors.New("config broken"))

	a := app.New(mockLoader, runner.NewRunner(mockExecutor), mockLogger)

	err := a.Run(context.Background(), app.RunOptions{Dir: tmpDir, OutputMode: "linear"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config broken")
}

func TestApp_Plan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	tmpDir := t.TempDir()
	mockLoader.EXPECT().Load(tmpDir).Return(domain.DefaultSettings(tmpDir), nil)

	a := app.New(mockLoader, runner.NewRunner(mockExecutor), mockLogger)

	pipeline, err := a.Plan(app.RunOptions{Dir: tmpDir, Cargo: "cargo-nightly"})
	require.NoError(t, err)
	require.Len(t, pipeline.Steps, 7)
	assert.Equal(t, "cargo-nightly", pipeline.Steps[0].Command[0])
	assert.Equal(t, domain.WarningsAsErrors, pipeline.Overlay[domain.RustFlagsVar])
}
