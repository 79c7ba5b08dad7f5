package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
)

// NodeID is the unique identifier for the fingerprint store Graft node.
const NodeID graft.ID = "adapter.fingerprint_store"

func init() {
	graft.Register(graft.Node[ports.FingerprintStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FingerprintStore, error) {
			return NewStore(domain.DefaultHashesPath()), nil
		},
	})
}
