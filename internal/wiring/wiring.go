// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/gauntlet/internal/adapters/config"
	_ "go.trai.ch/gauntlet/internal/adapters/logger"
	_ "go.trai.ch/gauntlet/internal/adapters/shell"
	// Register app and engine nodes.
	_ "go.trai.ch/gauntlet/internal/app"
	_ "go.trai.ch/gauntlet/internal/engine/runner"
)
