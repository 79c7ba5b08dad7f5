package ports

import "go.trai.ch/rugby/internal/core/domain"

// FingerprintStore persists the last fingerprint computed for a target.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type FingerprintStore interface {
	// Get returns the stored fingerprint of target for configuration.
	// The boolean is false when nothing was stored.
	Get(target *domain.Target, configuration string) (string, bool, error)

	// Put records fingerprint of target for configuration. ctx is stored
	// alongside when it is not nil.
	Put(target *domain.Target, configuration, fingerprint string, ctx *domain.TargetContext) error
}
