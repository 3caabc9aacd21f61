package domain

// Option configures a traversal.
type Option func(*walkConfig)

type walkConfig struct {
	maxDepth  int
	maxLeaves int
}

// WithMaxDepth limits how many composites may be nested on the active path.
// Zero or a negative value means no limit.
func WithMaxDepth(n int) Option {
	return func(c *walkConfig) {
		c.maxDepth = n
	}
}

// WithMaxLeaves limits how many leaves a single traversal may produce.
// Zero or a negative value means no limit.
func WithMaxLeaves(n int) Option {
	return func(c *walkConfig) {
		c.maxLeaves = n
	}
}

func newWalkConfig(opts []Option) walkConfig {
	var cfg walkConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
