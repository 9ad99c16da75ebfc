package googleplay

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/core/ports"
)

// NodeID is the unique identifier for the distribution client factory Graft node.
const NodeID graft.ID = "adapter.distribution"

func init() {
	graft.Register(graft.Node[ports.DistributionClientFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DistributionClientFactory, error) {
			return NewFactory(), nil
		},
	})
}
