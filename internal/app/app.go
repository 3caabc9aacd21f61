// Package app implements the application layer for quasi.
package app

import (
	"context"
	"io"
	"os"

	"go.trai.ch/quasi/internal/core/domain"
	"go.trai.ch/quasi/internal/core/ports"
	"go.trai.ch/quasi/internal/engine/batch"
	"go.trai.ch/quasi/internal/engine/diff"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	documents    ports.DocumentLoader
	runner       *batch.Runner
	logger       ports.Logger
	out          io.Writer
}

// New creates a new App instance that reports to stdout.
func New(
	loader ports.ConfigLoader,
	documents ports.DocumentLoader,
	runner *batch.Runner,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		documents:    documents,
		runner:       runner,
		logger:       logger,
		out:          os.Stdout,
	}
}

// SetOutput redirects reports and flattened listings to w.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// RunOptions carries command line overrides. Nil fields keep the configured value.
type RunOptions struct {
	ConfigPath  string
	MaxDepth    *int
	MaxLeaves   *int
	Parallelism *int
	LogLevel    *string
	// Diff prints a unified diff of the leaves of mismatching documents.
	Diff bool
}

// levelSetter is implemented by loggers whose threshold can change at runtime.
type levelSetter interface {
	SetLevel(level domain.LogLevel)
}

func (a *App) settings(opts RunOptions) (domain.Config, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return cfg, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.MaxDepth != nil {
		cfg.MaxDepth = *opts.MaxDepth
	}
	if opts.MaxLeaves != nil {
		cfg.MaxLeaves = *opts.MaxLeaves
	}
	if opts.Parallelism != nil {
		cfg.Parallelism = *opts.Parallelism
	}
	if opts.LogLevel != nil {
		level, err := domain.ParseLogLevel(*opts.LogLevel)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = level
	}

	if cfg.MaxDepth < 0 || cfg.MaxLeaves < 0 || cfg.Parallelism < 0 {
		return cfg, zerr.Wrap(domain.ErrInvalidConfig, "limits must not be negative")
	}

	if ls, ok := a.logger.(levelSetter); ok {
		ls.SetLevel(cfg.LogLevel)
	}
	return cfg, nil
}

// Compare loads two documents and reports whether they are quasi-equal.
// A mismatch is reported and returned as domain.ErrNotQuasiEqual.
func (a *App) Compare(ctx context.Context, left, right string, opts RunOptions) (domain.Result, error) {
	res := domain.Result{Pair: domain.Pair{Name: left + " ~ " + right, Left: left, Right: right}}

	cfg, err := a.settings(opts)
	if err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	x, err := a.documents.Load(left)
	if err != nil {
		return res, err
	}
	y, err := a.documents.Load(right)
	if err != nil {
		return res, err
	}

	m, err := domain.Compare(x, y, cfg.Options()...)
	if err != nil {
		res.Err = err
		return res, zerr.Wrap(err, "comparison failed")
	}
	res.Mismatch = m
	a.logger.Debug("compared " + res.Pair.Name)

	r := newReporter(a.out)
	r.result(res)
	if m.Equal {
		return res, nil
	}

	if opts.Diff {
		d, err := diff.Unified(left, right, x, y, cfg.Options()...)
		if err != nil {
			return res, err
		}
		r.diff(d)
	}
	return res, zerr.With(zerr.Wrap(domain.ErrNotQuasiEqual, "documents differ"), "index", m.Index)
}

// Flatten writes the leaves of a document to the output, one per line.
func (a *App) Flatten(ctx context.Context, path string, opts RunOptions) error {
	cfg, err := a.settings(opts)
	if err != nil {
		return err
	}

	doc, err := a.documents.Load(path)
	if err != nil {
		return err
	}

	for leaf, err := range domain.Flatten(doc, cfg.Options()...) {
		if err != nil {
			return zerr.With(err, "path", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.WriteString(a.out, diff.FormatLeaf(leaf)+"\n"); err != nil {
			return zerr.Wrap(err, "failed to write leaf")
		}
	}
	return nil
}

// Batch compares every pair listed in the manifest and prints a report.
// It fails with domain.ErrNotQuasiEqual when any pair differs.
func (a *App) Batch(ctx context.Context, manifestPath string, opts RunOptions) ([]domain.Result, error) {
	cfg, err := a.settings(opts)
	if err != nil {
		return nil, err
	}

	pairs, err := a.configLoader.LoadManifest(manifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}

	results, runErr := a.runner.Run(ctx, pairs, cfg.Parallelism, cfg.Options()...)

	r := newReporter(a.out)
	for _, res := range results {
		r.result(res)
	}
	summary := r.summary(results)

	if runErr != nil {
		return results, zerr.Wrap(runErr, "some pairs could not be compared")
	}
	if summary.different > 0 {
		return results, zerr.With(zerr.Wrap(domain.ErrNotQuasiEqual, "pairs differ"), "different", summary.different)
	}
	return results, nil
}
