// Package batch compares many document pairs concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.trai.ch/quasi/internal/adapters/cache"
	"go.trai.ch/quasi/internal/core/domain"
	"go.trai.ch/quasi/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Runner loads and compares document pairs.
type Runner struct {
	documents ports.DocumentLoader
	tracer    ports.Tracer
	telemetry ports.Telemetry
	logger    ports.Logger
}

// NewRunner creates a Runner.
func NewRunner(
	documents ports.DocumentLoader,
	tracer ports.Tracer,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Runner {
	return &Runner{
		documents: documents,
		tracer:    tracer,
		telemetry: telemetry,
		logger:    logger,
	}
}

// verdictKey identifies a comparison by the leaves of both sides.
// Boundary comes first so that keys with the same concatenated leaves but a
// different split never match.
type verdictKey struct {
	Boundary int
	Left     []any
	Right    []any
}

// Run compares every pair with at most parallelism comparisons in flight.
//
// Results are returned in the order of pairs. A pair that cannot be compared
// carries its error in Result.Err; those errors are also joined into the
// returned error. Once ctx is cancelled no further pairs are started.
func (r *Runner) Run(ctx context.Context, pairs []domain.Pair, parallelism int, opts ...domain.Option) ([]domain.Result, error) {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	results := make([]domain.Result, len(pairs))
	// Keys are leaves that already passed the budget, so the cache walks them unrestricted.
	verdicts := cache.New[domain.Mismatch]()

	var g errgroup.Group
	g.SetLimit(parallelism)

	started := 0
	for i, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		started++
		g.Go(func() error {
			results[i] = r.compare(ctx, pair, verdicts, opts)
			return nil
		})
	}
	_ = g.Wait()

	for i := started; i < len(pairs); i++ {
		results[i] = domain.Result{Pair: pairs[i], Err: ctx.Err()}
	}

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, zerr.With(zerr.Wrap(res.Err, "pair not compared"), "pair", res.Pair.Name))
		}
	}
	return results, errors.Join(errs...)
}

func (r *Runner) compare(
	ctx context.Context,
	pair domain.Pair,
	verdicts *cache.Cache[domain.Mismatch],
	opts []domain.Option,
) domain.Result {
	ctx, vertex := r.telemetry.Record(ctx, pair.Name)
	_, span := r.tracer.Start(ctx, "compare "+pair.Name, ports.WithAttribute("quasi.pair", pair.Name))
	defer span.End()

	res := domain.Result{Pair: pair}
	fail := func(err error) domain.Result {
		span.RecordError(err)
		vertex.Complete(err)
		res.Err = err
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	left, err := r.leaves(pair.Left, opts)
	if err != nil {
		return fail(err)
	}
	right, err := r.leaves(pair.Right, opts)
	if err != nil {
		return fail(err)
	}
	vertex.Log(domain.LogLevelDebug, fmt.Sprintf("%d leaves on the left, %d on the right", len(left), len(right)))
	span.SetAttribute("quasi.left_leaves", len(left))
	span.SetAttribute("quasi.right_leaves", len(right))

	key := verdictKey{Boundary: len(left), Left: left, Right: right}
	entry, hit, err := verdicts.Get(key)
	if err != nil {
		return fail(err)
	}
	if hit {
		res.Mismatch = entry.Value()
		res.Cached = true
		vertex.Cached()
		r.logger.Debug("reused verdict for " + pair.Name)
	} else {
		m, err := domain.Compare(left, right)
		if err != nil {
			return fail(err)
		}
		res.Mismatch = m
		if err := verdicts.Put(key, m); err != nil {
			r.logger.Warn("could not cache verdict for " + pair.Name + ": " + err.Error())
		}
	}

	span.SetAttribute("quasi.equal", res.Mismatch.Equal)
	span.SetAttribute("quasi.cached", res.Cached)
	if res.Mismatch.Equal {
		vertex.Complete(nil)
		return res
	}

	span.SetAttribute("quasi.index", res.Mismatch.Index)
	span.SetAttribute("quasi.reason", res.Mismatch.Reason)
	vertex.Complete(zerr.With(zerr.Wrap(domain.ErrNotQuasiEqual, pair.Name), "index", res.Mismatch.Index))
	return res
}

func (r *Runner) leaves(path string, opts []domain.Option) ([]any, error) {
	doc, err := r.documents.Load(path)
	if err != nil {
		return nil, err
	}
	leaves, err := domain.Leaves(doc, opts...)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return leaves, nil
}
