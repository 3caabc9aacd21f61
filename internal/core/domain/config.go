package domain

import "runtime"

// Config holds the settings that shape a comparison run.
type Config struct {
	// MaxDepth bounds how deeply composites may nest. Zero means unlimited.
	MaxDepth int
	// MaxLeaves bounds how many leaves one document may flatten to. Zero means unlimited.
	MaxLeaves int
	// Parallelism bounds how many pairs a batch compares at once.
	Parallelism int
	// LogLevel is the minimum level that gets logged.
	LogLevel LogLevel
}

// DefaultConfig returns the settings used when no configuration file is present.
func DefaultConfig() Config {
	return Config{
		Parallelism: runtime.NumCPU(),
		LogLevel:    LogLevelInfo,
	}
}

// Options converts the traversal budget into engine options.
func (c Config) Options() []Option {
	return []Option{
		WithMaxDepth(c.MaxDepth),
		WithMaxLeaves(c.MaxLeaves),
	}
}
