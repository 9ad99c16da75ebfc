// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/apkship/internal/adapters/apk"
	_ "go.trai.ch/apkship/internal/adapters/apksigner"
	_ "go.trai.ch/apkship/internal/adapters/cas"
	_ "go.trai.ch/apkship/internal/adapters/config"
	_ "go.trai.ch/apkship/internal/adapters/env"
	_ "go.trai.ch/apkship/internal/adapters/fs"
	_ "go.trai.ch/apkship/internal/adapters/googleplay"
	_ "go.trai.ch/apkship/internal/adapters/logger"
	_ "go.trai.ch/apkship/internal/adapters/shell"
	_ "go.trai.ch/apkship/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/apkship/internal/app"
	_ "go.trai.ch/apkship/internal/engine/curation"
	_ "go.trai.ch/apkship/internal/engine/orchestrator"
	_ "go.trai.ch/apkship/internal/engine/publisher"
	_ "go.trai.ch/apkship/internal/engine/signing"
	_ "go.trai.ch/apkship/internal/engine/staging"
	_ "go.trai.ch/apkship/internal/engine/toolchain"
	_ "go.trai.ch/apkship/internal/engine/variant"
)
