// Package app implements the application layer for gauntlet.
package app

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/gauntlet/internal/adapters/detector"
	"go.trai.ch/gauntlet/internal/adapters/linear"
	"go.trai.ch/gauntlet/internal/adapters/tui"
	"go.trai.ch/gauntlet/internal/core/domain"
	"go.trai.ch/gauntlet/internal/core/ports"
	"go.trai.ch/gauntlet/internal/engine/runner"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       *runner.Runner
	logger       ports.Logger
	teaOptions   []tea.ProgramOption
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, r *runner.Runner, log ports.Logger) *App {
	return &App{
		configLoader: loader,
		runner:       r,
		logger:       log,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Dir is the directory to resolve the workspace from. Empty means
	// the process working directory.
	Dir string
	// Cargo overrides the build tool binary from config or default.
	Cargo string
	// OutputMode is one of "auto", "tui", "linear" or "ci".
	OutputMode string
}

// Run executes the whole check sequence.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	pipeline, err := a.buildPipeline(opts)
	if err != nil {
		return err
	}

	renderer := a.newRenderer(ctx, opts.OutputMode)

	g, ctx := errgroup.WithContext(ctx)

	// Renderer routine: owns the terminal until the run finishes.
	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	// Runner routine: strictly sequential step execution.
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "runner panic: %v\n", r)
			}
			_ = renderer.Stop()
		}()

		return a.runner.Run(ctx, pipeline, renderer)
	})

	return g.Wait()
}

// Plan resolves the pipeline without executing it.
func (a *App) Plan(opts RunOptions) (*domain.Pipeline, error) {
	return a.buildPipeline(opts)
}

func (a *App) buildPipeline(opts RunOptions) (*domain.Pipeline, error) {
	cwd := opts.Dir
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to determine working directory")
		}
		cwd = wd
	}

	settings, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Cargo != "" {
		settings.Cargo = opts.Cargo
	}

	pipeline := domain.NewPipeline(settings)
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}
	return pipeline, nil
}

// newRenderer picks the output renderer for the resolved mode.
func (a *App) newRenderer(ctx context.Context, outputMode string) ports.Renderer {
	mode := detector.ResolveMode(detector.DetectEnvironment(), outputMode)

	if mode == detector.ModeTUI {
		model := tui.NewModel()
		opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		return tui.NewRenderer(model, opts...)
	}
	return linear.NewRenderer(os.Stdout, os.Stderr)
}
