package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the check sequence without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := c.app.Plan(optionsFromFlags(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, step := range pipeline.Steps {
				_, _ = fmt.Fprintf(out, "%d. %-18s %s\n", i+1, step.Name, strings.Join(step.Command, " "))
			}

			_, _ = fmt.Fprintln(out)
			for _, entry := range pipeline.OverlayEnviron() {
				_, _ = fmt.Fprintf(out, "env %s\n", entry)
			}
			return nil
		},
	}
}
