package signing

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/adapters/apksigner" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/env"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/core/ports"
)

// NodeID is the unique identifier for the signing resolver Graft node.
const NodeID graft.ID = "engine.signing"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{env.NodeID, apksigner.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			environment, err := graft.Dep[ports.Environment](ctx)
			if err != nil {
				return nil, err
			}

			signer, err := graft.Dep[ports.Signer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(environment, signer, log), nil
		},
	})
}
