package hashing

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rugby/internal/adapters/binaries" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/adapters/cas"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/adapters/config"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
)

const (
	// StatesNodeID provides the per-run target state table.
	StatesNodeID graft.ID = "engine.hashing.states"
	// NodeID provides the targets hasher.
	NodeID graft.ID = "engine.hashing"
	// CacheNodeID provides the fingerprint cache.
	CacheNodeID graft.ID = "engine.hashing.cache"
)

func init() {
	graft.Register(graft.Node[*domain.TargetStates]{
		ID:        StatesNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*domain.TargetStates, error) {
			return domain.NewTargetStates(), nil
		},
	})

	graft.Register(graft.Node[*TargetsHasher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.HasherNodeID,
			logger.NodeID,
			config.SettingsNodeID,
			StatesNodeID,
		},
		Run: func(ctx context.Context) (*TargetsHasher, error) {
			hasher, err := graft.Dep[ports.FileHasher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			states, err := graft.Dep[*domain.TargetStates](ctx)
			if err != nil {
				return nil, err
			}

			phases := NewBuildPhaseHasher(hasher, log, cfg.Parallelism)
			return NewTargetsHasher(phases, states, log, cfg.Parallelism), nil
		},
	})

	graft.Register(graft.Node[*Cache]{
		ID:        CacheNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cas.NodeID,
			binaries.NodeID,
			config.SettingsNodeID,
			StatesNodeID,
		},
		Run: func(ctx context.Context) (*Cache, error) {
			store, err := graft.Dep[ports.FingerprintStore](ctx)
			if err != nil {
				return nil, err
			}

			storage, err := graft.Dep[ports.BinariesStorage](ctx)
			if err != nil {
				return nil, err
			}

			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			states, err := graft.Dep[*domain.TargetStates](ctx)
			if err != nil {
				return nil, err
			}

			return NewCache(store, storage, states, cfg), nil
		},
	})
}
