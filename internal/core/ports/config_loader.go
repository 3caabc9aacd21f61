package ports

import "go.trai.ch/quasi/internal/core/domain"

// ConfigLoader defines the interface for loading settings and batch manifests.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the settings file at path. An empty path selects the default file
	// in the working directory, and a missing default file yields domain.DefaultConfig.
	Load(path string) (domain.Config, error)
	// LoadManifest reads the list of pairs to compare. Document paths in the
	// result are resolved relative to the manifest's directory.
	LoadManifest(path string) ([]domain.Pair, error)
}
