package config

// FileName is the optional configuration file discovered by walking up
// from the working directory.
const FileName = "gauntlet.yaml"

// File represents the structure of the gauntlet.yaml configuration file.
// Every field is optional; an absent file means an all-defaults run.
type File struct {
	Version string `yaml:"version"`
	// Cargo overrides the build tool binary.
	Cargo string `yaml:"cargo"`
	// Root overrides the directory the steps run in, relative to the
	// config file unless absolute.
	Root string `yaml:"root"`
	// Environment adds overlay entries. The warnings-as-errors pair
	// cannot be overridden.
	Environment map[string]string `yaml:"environment"`
}
