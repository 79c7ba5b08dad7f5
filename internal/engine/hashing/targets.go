// Package hashing computes target fingerprints from build phases, build
// options and the fingerprints of dependencies.
package hashing

import (
	"context"
	"slices"

	"go.trai.ch/rugby/internal/codec"
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// FingerprintLength is the number of hex characters kept from the digest.
const FingerprintLength = 7

// TargetsHasher fingerprints targets and records the results in the state table.
type TargetsHasher struct {
	phases      *BuildPhaseHasher
	states      *domain.TargetStates
	logger      ports.Logger
	parallelism int
}

// NewTargetsHasher creates a new TargetsHasher.
func NewTargetsHasher(
	phases *BuildPhaseHasher,
	states *domain.TargetStates,
	logger ports.Logger,
	parallelism int,
) *TargetsHasher {
	if parallelism < 1 {
		parallelism = 1
	}
	return &TargetsHasher{
		phases:      phases,
		states:      states,
		logger:      logger,
		parallelism: parallelism,
	}
}

// Hash fingerprints targets and all of their dependencies. Each target waits
// only for its own dependencies. Targets already fingerprinted are skipped.
func (h *TargetsHasher) Hash(ctx context.Context, targets []*domain.Target, buildOptions []string) error {
	all := closure(targets)
	done := make(map[domain.InternedString]chan struct{}, len(all))
	for _, t := range all {
		done[t.ID] = make(chan struct{})
	}

	options := slices.Clone(buildOptions)
	if options == nil {
		options = []string{}
	}

	sem := semaphore.NewWeighted(int64(h.parallelism))
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range all {
		g.Go(func() error {
			for _, dep := range t.ExplicitDependencies {
				ch, ok := done[dep]
				if !ok {
					continue
				}
				select {
				case <-ch:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			if _, ok := h.states.Fingerprint(t.ID); !ok {
				if err := sem.Acquire(ctx, 1); err != nil {
					return err
				}
				err := h.hashTarget(ctx, t, options)
				sem.Release(1)
				if err != nil {
					return err
				}
			}
			close(done[t.ID])
			return nil
		})
	}
	return g.Wait()
}

func (h *TargetsHasher) hashTarget(ctx context.Context, t *domain.Target, buildOptions []string) error {
	phases, err := h.phases.HashContext(ctx, t)
	if err != nil {
		return err
	}
	phasesHash, err := codec.Digest(phases)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode build phases"), "target", t.Name)
	}

	deps := make([]string, 0, len(t.ExplicitDependencies))
	for _, id := range t.ExplicitDependencies {
		dep := t.Dependencies[id]
		fp, ok := h.states.Fingerprint(id)
		if dep == nil || !ok {
			return zerr.With(zerr.With(domain.ErrMissingFingerprint, "target", t.Name), "dependency", id.String())
		}
		deps = append(deps, dep.Name+": "+fp)
	}
	slices.Sort(deps)

	tctx := &domain.TargetContext{
		Name:            t.Name,
		Product:         t.Product,
		BuildOptions:    buildOptions,
		BuildPhasesHash: phasesHash,
		Dependencies:    deps,
		BuildPhases:     phases,
	}
	fp, err := Fingerprint(tctx)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode target context"), "target", t.Name)
	}

	h.states.Update(t.ID, func(s *domain.TargetState) {
		s.Fingerprint = fp
		s.Context = tctx
	})
	h.logger.Debug(t.Name + ": " + fp)
	return nil
}

// Fingerprint returns the short digest of a target context.
func Fingerprint(tctx *domain.TargetContext) (string, error) {
	digest, err := codec.Digest(tctx)
	if err != nil {
		return "", err
	}
	return digest[:FingerprintLength], nil
}

// closure returns targets and their transitive dependencies, sorted by name.
func closure(targets []*domain.Target) []*domain.Target {
	seen := make(map[domain.InternedString]*domain.Target)
	for _, t := range targets {
		seen[t.ID] = t
		for id, dep := range t.Dependencies {
			seen[id] = dep
		}
	}
	out := make([]*domain.Target, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	return domain.SortedTargets(out)
}
