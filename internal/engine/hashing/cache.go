package hashing

import (
	"context"

	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/rugby/internal/parallel"
	"go.trai.ch/zerr"
)

// Cache compares computed fingerprints with stored ones and with the binaries on disk.
type Cache struct {
	store         ports.FingerprintStore
	binaries      ports.BinariesStorage
	states        *domain.TargetStates
	configuration string
	keepContext   bool
	parallelism   int
}

// NewCache creates a new Cache for the given configuration.
func NewCache(
	store ports.FingerprintStore,
	binaries ports.BinariesStorage,
	states *domain.TargetStates,
	cfg *domain.Config,
) *Cache {
	return &Cache{
		store:         store,
		binaries:      binaries,
		states:        states,
		configuration: cfg.Configuration,
		keepContext:   cfg.KeepHashYamls,
		parallelism:   cfg.Parallelism,
	}
}

// Eligible splits targets into those whose stored fingerprint matches the
// computed one and whose binary exists, and the rest.
func (c *Cache) Eligible(ctx context.Context, targets []*domain.Target) ([]*domain.Target, []*domain.Target, error) {
	hits, err := parallel.Map(ctx, c.parallelism, targets, func(_ context.Context, t *domain.Target) (bool, error) {
		return c.hit(t)
	})
	if err != nil {
		return nil, nil, err
	}

	var eligible, missing []*domain.Target
	for i, t := range targets {
		if hits[i] {
			eligible = append(eligible, t)
		} else {
			missing = append(missing, t)
		}
	}
	return eligible, missing, nil
}

func (c *Cache) hit(t *domain.Target) (bool, error) {
	fp, ok := c.states.Fingerprint(t.ID)
	if !ok {
		return false, zerr.With(domain.ErrMissingFingerprint, "target", t.Name)
	}
	stored, ok, err := c.store.Get(t, c.configuration)
	if err != nil {
		return false, zerr.With(err, "target", t.Name)
	}
	if !ok || stored != fp {
		return false, nil
	}
	exists, err := c.binaries.Exists(t, fp)
	if err != nil {
		return false, zerr.With(err, "target", t.Name)
	}
	return exists, nil
}

// Persist stores the computed fingerprints of targets.
func (c *Cache) Persist(ctx context.Context, targets []*domain.Target) error {
	return parallel.ForEach(ctx, c.parallelism, targets, func(_ context.Context, t *domain.Target) error {
		state, ok := c.states.Get(t.ID)
		if !ok || state.Fingerprint == "" {
			return zerr.With(domain.ErrMissingFingerprint, "target", t.Name)
		}
		var tctx *domain.TargetContext
		if c.keepContext {
			tctx = state.Context
		}
		return c.store.Put(t, c.configuration, state.Fingerprint, tctx)
	})
}
