// Package output provides utilities for creating termenv.Output with a
// consistent color profile and TTY handling across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns the color profile for interactive environments.
// NO_COLOR disables colors entirely; otherwise the terminal's
// capabilities are detected automatically.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI returns the color profile for CI/non-interactive
// environments: plain ANSI for broad compatibility, Ascii under NO_COLOR.
func ColorProfileANSI() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New creates a termenv.Output for interactive use.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
