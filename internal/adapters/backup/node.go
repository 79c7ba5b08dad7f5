package backup

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
)

// NodeID is the unique identifier for the backup manager Graft node.
const NodeID graft.ID = "adapter.backup"

func init() {
	graft.Register(graft.Node[ports.BackupManager]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BackupManager, error) {
			return NewManager(domain.DefaultBackupPath()), nil
		},
	})
}
