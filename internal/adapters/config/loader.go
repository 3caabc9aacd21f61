// Package config loads settings, batch manifests and documents from YAML files.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/quasi/internal/core/domain"
	"go.trai.ch/quasi/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const supportedVersion = "1"

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	Filename string
	Logger   ports.Logger
}

// NewLoader creates a Loader that looks for DefaultFilename.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{
		Filename: DefaultFilename,
		Logger:   log,
	}
}

// Load reads the settings file at path. An empty path selects the loader's
// default file, which may be absent.
func (l *Loader) Load(path string) (domain.Config, error) {
	explicit := path != ""
	if !explicit {
		path = l.Filename
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			l.Logger.Debug("no " + path + " found, using defaults")
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file SettingsFile
	if err := decodeStrict(data, &file); err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	cfg, err := file.toConfig()
	if err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func (f SettingsFile) toConfig() (domain.Config, error) {
	if err := checkVersion(f.Version, domain.ErrInvalidConfig); err != nil {
		return domain.Config{}, err
	}

	cfg := domain.DefaultConfig()
	if f.Limits.MaxDepth < 0 {
		return cfg, invalid(domain.ErrInvalidConfig, "max_depth must not be negative", "max_depth", f.Limits.MaxDepth)
	}
	if f.Limits.MaxLeaves < 0 {
		return cfg, invalid(domain.ErrInvalidConfig, "max_leaves must not be negative", "max_leaves", f.Limits.MaxLeaves)
	}
	if f.Parallelism < 0 {
		return cfg, invalid(domain.ErrInvalidConfig, "parallelism must not be negative", "parallelism", f.Parallelism)
	}

	level, err := domain.ParseLogLevel(f.LogLevel)
	if err != nil {
		return cfg, err
	}

	cfg.MaxDepth = f.Limits.MaxDepth
	cfg.MaxLeaves = f.Limits.MaxLeaves
	if f.Parallelism > 0 {
		cfg.Parallelism = f.Parallelism
	}
	cfg.LogLevel = level
	return cfg, nil
}

// LoadManifest reads the batch manifest at path.
func (l *Loader) LoadManifest(path string) ([]domain.Pair, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	var file ManifestFile
	if err := decodeStrict(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse manifest"), "path", path)
	}
	if err := checkVersion(file.Version, domain.ErrInvalidManifest); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if len(file.Pairs) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidManifest, "manifest lists no pairs"), "path", path)
	}

	dir := filepath.Dir(path)
	seen := make(map[string]struct{}, len(file.Pairs))
	pairs := make([]domain.Pair, 0, len(file.Pairs))
	for i, dto := range file.Pairs {
		if dto.Name == "" || dto.Left == "" || dto.Right == "" {
			return nil, invalid(domain.ErrInvalidManifest, "pair needs a name, a left and a right document", "index", i)
		}
		if _, dup := seen[dto.Name]; dup {
			return nil, invalid(domain.ErrDuplicatePair, "pair name used twice", "pair", dto.Name)
		}
		seen[dto.Name] = struct{}{}

		pairs = append(pairs, domain.Pair{
			Name:  dto.Name,
			Left:  resolve(dir, dto.Left),
			Right: resolve(dir, dto.Right),
		})
	}

	l.Logger.Debug("loaded manifest " + path)
	return pairs, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

func checkVersion(version string, sentinel error) error {
	if version == "" || version == supportedVersion {
		return nil
	}
	return invalid(sentinel, "unsupported version", "version", version)
}

func invalid(sentinel error, msg, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, msg), key, value)
}

// decodeStrict rejects unknown keys so that typos in settings are reported.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
