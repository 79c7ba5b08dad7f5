package surgery

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rugby/internal/adapters/binaries"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/adapters/project"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/rugby/internal/engine/hashing"
)

// NodeID is the unique identifier for the surgery engine Graft node.
const NodeID graft.ID = "engine.surgery"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			binaries.NodeID,
			hashing.StatesNodeID,
			fs.EditorNodeID,
			project.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			config.SettingsNodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			storage, err := graft.Dep[ports.BinariesStorage](ctx)
			if err != nil {
				return nil, err
			}

			states, err := graft.Dep[*domain.TargetStates](ctx)
			if err != nil {
				return nil, err
			}

			editor, err := graft.Dep[ports.FileEditor](ctx)
			if err != nil {
				return nil, err
			}

			projects, err := graft.Dep[ports.ProjectStore](ctx)
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

			return NewEngine(storage, states, editor, projects, log, tracer, cfg.Parallelism), nil
		},
	})
}
