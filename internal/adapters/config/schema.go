package config

// DefaultFilename is the settings file looked up in the working directory.
const DefaultFilename = "quasi.yaml"

// SettingsFile represents the structure of the quasi.yaml settings file.
type SettingsFile struct {
	Version     string    `yaml:"version"`
	Limits      LimitsDTO `yaml:"limits"`
	Parallelism int       `yaml:"parallelism"`
	LogLevel    string    `yaml:"log_level"`
}

// LimitsDTO holds the traversal budget.
type LimitsDTO struct {
	MaxDepth  int `yaml:"max_depth"`
	MaxLeaves int `yaml:"max_leaves"`
}

// ManifestFile represents a batch manifest listing the pairs to compare.
type ManifestFile struct {
	Version string    `yaml:"version"`
	Pairs   []PairDTO `yaml:"pairs"`
}

// PairDTO is one manifest entry.
type PairDTO struct {
	Name  string `yaml:"name"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}
