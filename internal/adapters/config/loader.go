// Package config provides the configuration loader for gauntlet.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/gauntlet/internal/core/domain"
	"go.trai.ch/gauntlet/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using an optional YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load resolves the run settings for cwd. When no gauntlet.yaml exists
// anywhere up the tree, default settings rooted at cwd are returned; the
// tool works without any configuration.
func (l *Loader) Load(cwd string) (domain.Settings, error) {
	configPath, found := findConfig(cwd)
	if !found {
		return domain.DefaultSettings(cwd), nil
	}

	var file File
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return domain.Settings{}, err
	}

	settings := domain.DefaultSettings(resolveRoot(configPath, file.Root))
	if file.Cargo != "" {
		settings.Cargo = file.Cargo
	}
	settings.Environment = file.Environment

	return settings, nil
}

// findConfig walks up from cwd looking for the config file.
func findConfig(cwd string) (string, bool) {
	currentDir := cwd

	for {
		candidate := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func readAndUnmarshalYAML(path string, out *File) error {
	// #nosec G304 -- path is discovered by walking up from cwd
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(data, out); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

// resolveRoot determines the working directory for the run: the config
// file's directory by default, or the configured root resolved against it.
func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}
