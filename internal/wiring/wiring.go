// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/quasi/internal/adapters/config"
	_ "go.trai.ch/quasi/internal/adapters/logger"
	_ "go.trai.ch/quasi/internal/adapters/telemetry"
	_ "go.trai.ch/quasi/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/quasi/internal/app"
	_ "go.trai.ch/quasi/internal/engine/batch"
)
