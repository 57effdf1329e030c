// Package commands implements the CLI commands for gauntlet.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/gauntlet/internal/app"
	"go.trai.ch/gauntlet/internal/build"
	"go.trai.ch/gauntlet/internal/core/domain"
)

// CLI represents the command line interface for gauntlet.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Plan(opts app.RunOptions) (*domain.Pipeline, error)
}

// New creates a new CLI instance with the given app.
//
// The root command itself runs the whole check sequence; gauntlet needs
// no arguments.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "gauntlet",
		Short:         "Run the full verification sequence for a Cargo workspace",
		Long: "gauntlet runs the fixed verification sequence for the Cargo workspace\n" +
			"in the current directory: build, build with all features, test, test\n" +
			"with all features, doc, clippy and a formatting check, with\n" +
			"warnings-as-errors enabled throughout. The run stops at the first\n" +
			"failing step and exits with its exit code.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.NoArgs,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return c.app.Run(cmd.Context(), optionsFromFlags(cmd))
	}

	rootCmd.PersistentFlags().StringP("dir", "C", "", "Resolve the workspace from this directory instead of the current one")
	rootCmd.PersistentFlags().String("cargo", "", "Override the cargo binary")
	rootCmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	rootCmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")

	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// optionsFromFlags assembles RunOptions from the command's flag set.
func optionsFromFlags(cmd *cobra.Command) app.RunOptions {
	dir, _ := cmd.Flags().GetString("dir")
	cargo, _ := cmd.Flags().GetString("cargo")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")

	if ci {
		outputMode = "linear"
	}

	return app.RunOptions{
		Dir:        dir,
		Cargo:      cargo,
		OutputMode: outputMode,
	}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
