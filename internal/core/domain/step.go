// Package domain holds the core types for the check pipeline.
package domain

// Step represents one external command invocation in the pipeline.
// Steps are immutable once the pipeline is constructed.
type Step struct {
	Name        string
	Command     []string
	Environment map[string]string
	WorkingDir  string
}
