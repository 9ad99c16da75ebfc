package publisher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/adapters/googleplay" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/logger"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
)

// NodeID is the unique identifier for the publisher Graft node.
const NodeID graft.ID = "engine.publisher"

func init() {
	graft.Register(graft.Node[*Publisher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{googleplay.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Publisher, error) {
			factory, err := graft.Dep[ports.DistributionClientFactory](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(domain.DefaultTracks(), factory, log), nil
		},
	})
}
