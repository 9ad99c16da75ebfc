package curation

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apkship/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
)

// NodeID is the unique identifier for the locale curator Graft node.
const NodeID graft.ID = "engine.curation"

func init() {
	graft.Register(graft.Node[*Curator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Curator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(domain.DefaultExcludedLocales(), log), nil
		},
	})
}
