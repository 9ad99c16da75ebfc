package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.HasherNodeID,
			cas.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			digester, err := graft.Dep[ports.SourceDigester](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[*progrock.Recorder](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(executor, digester, store, recorder, log), nil
		},
	})
}
