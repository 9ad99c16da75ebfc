package variant

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/adapters/apk"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/apkship/internal/engine/signing"
	"go.trai.ch/apkship/internal/engine/staging"
)

// NodeID is the unique identifier for the variant builder Graft node.
const NodeID graft.ID = "engine.variant"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{staging.NodeID, apk.NodeID, signing.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Builder, error) {
			stager, err := graft.Dep[*staging.Stager](ctx)
			if err != nil {
				return nil, err
			}

			packager, err := graft.Dep[ports.Packager](ctx)
			if err != nil {
				return nil, err
			}

			resolver, err := graft.Dep[*signing.Resolver](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(stager, packager, resolver, log), nil
		},
	})
}
