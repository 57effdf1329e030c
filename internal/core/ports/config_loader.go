package ports

import "go.trai.ch/gauntlet/internal/core/domain"

// ConfigLoader defines the interface for loading the run settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the settings for a run rooted at cwd. A missing
	// config file is not an error; defaults are returned instead.
	Load(cwd string) (domain.Settings, error)
}
