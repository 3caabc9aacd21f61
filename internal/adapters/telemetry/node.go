package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quasi/internal/core/ports"
)

// TracerNodeID is the unique identifier for the tracer Graft node.
const TracerNodeID graft.ID = "adapter.tracer"

// InstrumentationName names the tracer used for comparison spans.
const InstrumentationName = "go.trai.ch/quasi"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewOTelTracer(InstrumentationName), nil
		},
	})
}
