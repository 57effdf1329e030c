package domain

import "slices"

// Environment variables applied to every step before the run starts.
const (
	RustFlagsVar    = "RUSTFLAGS"
	RustDocFlagsVar = "RUSTDOCFLAGS"

	// WarningsAsErrors instructs rustc and rustdoc to fail on any warning.
	WarningsAsErrors = "-D warnings"
)

// DefaultCargoBinary is the build tool invoked when no override is configured.
const DefaultCargoBinary = "cargo"

// Settings are the resolved inputs for constructing a pipeline.
type Settings struct {
	// Cargo is the build tool binary to invoke. Defaults to "cargo".
	Cargo string
	// WorkDir is the directory every step runs in. Empty means the
	// process working directory.
	WorkDir string
	// Environment holds extra overlay entries from configuration. The
	// warnings-as-errors pair always wins over these.
	Environment map[string]string
}

// DefaultSettings returns settings for a zero-configuration run in cwd.
func DefaultSettings(cwd string) Settings {
	return Settings{
		Cargo:   DefaultCargoBinary,
		WorkDir: cwd,
	}
}

// Pipeline is the fixed, ordered check sequence together with the
// environment overlay visible to every step. Steps run strictly in order;
// the first failure aborts the run.
type Pipeline struct {
	Steps   []Step
	Overlay map[string]string
}

// NewPipeline constructs the built-in check sequence from the given settings.
//
// The sequence is fixed: build, build with all features, test, test with all
// features, doc, clippy and a formatting check. The overlay enables
// warnings-as-errors for both the compiler and the documentation generator,
// overriding any configured entry for the same variables.
func NewPipeline(settings Settings) *Pipeline {
	cargo := settings.Cargo
	if cargo == "" {
		cargo = DefaultCargoBinary
	}

	steps := []Step{
		{Name: "build", Command: []string{cargo, "build", "--workspace", "--all-targets"}},
		{Name: "build-all-features", Command: []string{cargo, "build", "--workspace", "--all-targets", "--all-features"}},
		{Name: "test", Command: []string{cargo, "test", "--workspace", "--all-targets"}},
		{Name: "test-all-features", Command: []string{cargo, "test", "--workspace", "--all-targets", "--all-features"}},
		{Name: "doc", Command: []string{cargo, "doc", "--examples", "--all-features", "--no-deps"}},
		{Name: "clippy", Command: []string{cargo, "clippy", "--workspace", "--all-targets", "--all-features", "--", "-D", "warnings"}},
		{Name: "fmt", Command: []string{cargo, "fmt", "--all", "--", "--check"}},
	}

	for i := range steps {
		steps[i].WorkingDir = settings.WorkDir
	}

	overlay := make(map[string]string, len(settings.Environment)+2)
	for k, v := range settings.Environment {
		overlay[k] = v
	}
	overlay[RustFlagsVar] = WarningsAsErrors
	overlay[RustDocFlagsVar] = WarningsAsErrors

	return &Pipeline{
		Steps:   steps,
		Overlay: overlay,
	}
}

// Validate checks structural invariants of the pipeline.
func (p *Pipeline) Validate() error {
	if len(p.Steps) == 0 {
		return ErrEmptyPipeline
	}

	seen := make(map[string]struct{}, len(p.Steps))
	for _, step := range p.Steps {
		if step.Name == "" {
			return ErrInvalidStepName
		}
		if _, dup := seen[step.Name]; dup {
			return ErrDuplicateStepName
		}
		seen[step.Name] = struct{}{}

		if len(step.Command) == 0 {
			return ErrEmptyStepCommand
		}
	}
	return nil
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.Steps))
	for i, step := range p.Steps {
		names[i] = step.Name
	}
	return names
}

// OverlayEnviron returns the overlay as "KEY=VALUE" entries in a
// deterministic order, suitable for handing to an executor.
func (p *Pipeline) OverlayEnviron() []string {
	keys := make([]string, 0, len(p.Overlay))
	for k := range p.Overlay {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+p.Overlay[k])
	}
	return env
}
