package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rugby/internal/adapters/backup"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rugby/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rugby/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rugby/internal/adapters/project"   //nolint:depguard // Wired in app layer
	"go.trai.ch/rugby/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/rugby/internal/engine/hashing"
	"go.trai.ch/rugby/internal/engine/surgery"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			project.NodeID,
			backup.NodeID,
			hashing.NodeID,
			hashing.CacheNodeID,
			hashing.StatesNodeID,
			surgery.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			config.SettingsNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			config.SettingsNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	projects, err := graft.Dep[ports.ProjectStore](ctx)
	if err != nil {
		return nil, err
	}

	backups, err := graft.Dep[ports.BackupManager](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[*hashing.TargetsHasher](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[*hashing.Cache](ctx)
	if err != nil {
		return nil, err
	}

	states, err := graft.Dep[*domain.TargetStates](ctx)
	if err != nil {
		return nil, err
	}

	engine, err := graft.Dep[*surgery.Engine](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return New(projects, backups, hasher, cache, engine, states, log, tracer, cfg), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
		Tracer: tracer,
		Config: cfg,
	}, nil
}
