package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/adapters/env" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain resolver Graft node.
const NodeID graft.ID = "engine.toolchain"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{env.NodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			environment, err := graft.Dep[ports.Environment](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(environment), nil
		},
	})
}
