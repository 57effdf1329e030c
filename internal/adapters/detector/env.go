// Package detector decides which renderer drives a run.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// ciMarkers are environment variables set by CI systems. CARGO-centric
// projects mostly run under these.
var ciMarkers = []string{
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"BUILDKITE",
	"JENKINS_URL",
}

// DetectEnvironment recommends an output mode: interactive terminals get
// the TUI, everything else (pipes, redirects, CI) gets linear logs.
func DetectEnvironment() OutputMode {
	if !term.IsTerminal(int(os.Stdout.Fd())) || inCI() {
		return ModeLinear
	}
	return ModeTUI
}

func inCI() bool {
	if ci := os.Getenv("CI"); ci == "true" || ci == "1" {
		return true
	}
	for _, marker := range ciMarkers {
		if os.Getenv(marker) != "" {
			return true
		}
	}
	return false
}

// ResolveMode applies the user override flag to auto-detection.
// userFlag should be one of: "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return autoDetected
	}
}
