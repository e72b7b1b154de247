package remez

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WithWorkers limits how many designs DesignBatch runs at once; values
// <= 0 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// DesignBatch designs independent specifications concurrently. Results are
// returned in input order. Under the Hard policy the first failure cancels
// the remaining designs and is returned with its index; under Soft every
// slot holds a result and failures are read from Result.Err.
func DesignBatch(ctx context.Context, specs []*Specification, opts ...Option) ([]*Result, error) {
	o := newOptions(opts)
	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, spec := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := design(gctx, spec, &o)
			if err != nil {
				return fmt.Errorf("specification %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
