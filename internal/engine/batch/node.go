package batch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quasi/internal/adapters/config"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quasi/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quasi/internal/adapters/telemetry"          //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quasi/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/quasi/internal/core/ports"
)

// NodeID is the unique identifier for the batch runner Graft node.
const NodeID graft.ID = "engine.batch"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.DocumentsNodeID,
			telemetry.TracerNodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Runner, error) {
			documents, err := graft.Dep[ports.DocumentLoader](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewRunner(documents, tracer, tel, log), nil
		},
	})
}
