package apk

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/adapters/env"
	"go.trai.ch/apkship/internal/adapters/logger"
	"go.trai.ch/apkship/internal/adapters/shell"
	"go.trai.ch/apkship/internal/core/ports"
)

// NodeID is the unique identifier for the packager Graft node.
const NodeID graft.ID = "adapter.packager"

func init() {
	graft.Register(graft.Node[ports.Packager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, env.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Packager, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			environment, err := graft.Dep[ports.Environment](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewPackager(executor, environment, log), nil
		},
	})
}
