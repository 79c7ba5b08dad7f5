package ports

import (
	"context"

	"go.trai.ch/rugby/internal/core/domain"
)

// BackupManager snapshots files before modification and restores them.
//
//go:generate mockgen -source=backup.go -destination=mocks/mock_backup.go -package=mocks
type BackupManager interface {
	// Backup snapshots files into the kind slot. The original slot is never overwritten.
	Backup(ctx context.Context, kind domain.BackupKind, files []string) error
	// Restore writes back the files recorded in the kind slot.
	Restore(ctx context.Context, kind domain.BackupKind) (*domain.RollbackReport, error)
	// Rollback restores the oldest snapshot and removes it on success.
	Rollback(ctx context.Context) (*domain.RollbackReport, error)
}
