package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quasi/internal/adapters/logger"
	"go.trai.ch/quasi/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the settings loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// DocumentsNodeID is the unique identifier for the document loader Graft node.
	DocumentsNodeID graft.ID = "adapter.document_loader"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.DocumentLoader]{
		ID:        DocumentsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DocumentLoader, error) {
			return NewDocumentLoader(), nil
		},
	})
}
