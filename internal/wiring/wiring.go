// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rugby/internal/adapters/backup"
	_ "go.trai.ch/rugby/internal/adapters/binaries"
	_ "go.trai.ch/rugby/internal/adapters/cas"
	_ "go.trai.ch/rugby/internal/adapters/config"
	_ "go.trai.ch/rugby/internal/adapters/fs"
	_ "go.trai.ch/rugby/internal/adapters/logger"
	_ "go.trai.ch/rugby/internal/adapters/project"
	_ "go.trai.ch/rugby/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/rugby/internal/app"
	_ "go.trai.ch/rugby/internal/engine/hashing"
	_ "go.trai.ch/rugby/internal/engine/surgery"
)
