package staging

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/adapters/cas"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
)

// NodeID is the unique identifier for the stager Graft node.
const NodeID graft.ID = "engine.staging"

func init() {
	graft.Register(graft.Node[*Stager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID, cas.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Stager, error) {
			digester, err := graft.Dep[ports.SourceDigester](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(domain.DefaultTargets(), digester, store, log), nil
		},
	})
}
