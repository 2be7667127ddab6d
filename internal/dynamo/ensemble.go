package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs one simulation per initial state in parallel. Integrators,
// controllers and metrics carry per-run state, so every run gets a fresh
// Simulator from the factory.
type Ensemble struct {
	factory func() *Simulator
	workers int
}

func NewEnsemble(factory func() *Simulator, workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Ensemble{factory: factory, workers: workers}
}

// Run returns one result per initial state, in input order. The first
// failing run cancels the others.
func (e *Ensemble) Run(ctx context.Context, inits []State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(inits))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, x0 := range inits {
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = cfg.Seed + int64(i)
			res, err := e.factory().Run(ctx, x0, cfgCopy)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
