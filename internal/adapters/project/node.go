package project

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rugby/internal/core/ports"
)

// NodeID is the unique identifier for the project store Graft node.
const NodeID graft.ID = "adapter.project_store"

func init() {
	graft.Register(graft.Node[ports.ProjectStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectStore, error) {
			return NewStore(), nil
		},
	})
}
