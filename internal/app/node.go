package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/adapters/config"                       //nolint:depguard // Wired in app layer
	"go.trai.ch/apkship/internal/adapters/env"                          //nolint:depguard // Wired in app layer
	"go.trai.ch/apkship/internal/adapters/logger"                       //nolint:depguard // Wired in app layer
	telemetry "go.trai.ch/apkship/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/apkship/internal/engine/curation"
	"go.trai.ch/apkship/internal/engine/orchestrator"
	"go.trai.ch/apkship/internal/engine/publisher"
	"go.trai.ch/apkship/internal/engine/staging"
	"go.trai.ch/apkship/internal/engine/toolchain"
	"go.trai.ch/apkship/internal/engine/variant"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			env.NodeID,
			toolchain.NodeID,
			orchestrator.NodeID,
			staging.NodeID,
			variant.NodeID,
			publisher.NodeID,
			curation.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	environment, err := graft.Dep[ports.Environment](ctx)
	if err != nil {
		return nil, err
	}

	toolchains, err := graft.Dep[*toolchain.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	stager, err := graft.Dep[*staging.Stager](ctx)
	if err != nil {
		return nil, err
	}

	variants, err := graft.Dep[*variant.Builder](ctx)
	if err != nil {
		return nil, err
	}

	pub, err := graft.Dep[*publisher.Publisher](ctx)
	if err != nil {
		return nil, err
	}

	curator, err := graft.Dep[*curation.Curator](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[*telemetry.Recorder](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, environment, toolchains, orch, stager, variants, pub, curator, recorder, log), nil
}
