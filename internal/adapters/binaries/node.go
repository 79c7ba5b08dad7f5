package binaries

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rugby/internal/adapters/config"
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
)

// NodeID is the unique identifier for the binaries storage Graft node.
const NodeID graft.ID = "adapter.binaries"

func init() {
	graft.Register(graft.Node[ports.BinariesStorage]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.BinariesStorage, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStorage(cfg.BinariesPath, cfg.Configuration, cfg.SDK), nil
		},
	})
}
