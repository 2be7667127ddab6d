// Package optim tunes run parameters by exhaustive search.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/dynsym/internal/config"
	"github.com/san-kum/dynsym/internal/dynamo"
	"github.com/san-kum/dynsym/internal/experiment"
)

var (
	ErrEmptyGrid     = errors.New("optim: empty parameter grid")
	ErrUnknownMetric = errors.New("optim: unknown metric")
	ErrNoCandidate   = errors.New("optim: no candidate completed")
)

// Axis is one tuned parameter and the values tried for it.
type Axis struct {
	Name   string
	Values []float64
}

// Trial is the outcome of one grid point. Score is +Inf when Err is set.
type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

type GridSearch struct {
	axes    []Axis
	metric  string
	workers int
	logger  *zap.Logger
}

func NewGridSearch(metric string, axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes, metric: metric, workers: 1, logger: zap.NewNop()}
}

func (g *GridSearch) SetWorkers(n int) {
	if n > 0 {
		g.workers = n
	}
}

func (g *GridSearch) SetLogger(l *zap.Logger) {
	if l != nil {
		g.logger = l
	}
}

// Points enumerates the grid in axis order, the last axis varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	points := []map[string]float64{{}}
	for _, ax := range g.axes {
		next := make([]map[string]float64, 0, len(points)*len(ax.Values))
		for _, p := range points {
			for _, v := range ax.Values {
				q := maps.Clone(p)
				q[ax.Name] = v
				next = append(next, q)
			}
		}
		points = next
	}
	return points
}

// Search scores every grid point and returns the one with the lowest metric,
// along with every trial sorted best first. Failed runs are kept as trials
// with their error and never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, opts ...experiment.Option) (Trial, []Trial, error) {
	if len(g.axes) == 0 {
		return Trial{}, nil, ErrEmptyGrid
	}
	for _, ax := range g.axes {
		if len(ax.Values) == 0 {
			return Trial{}, nil, fmt.Errorf("%w: %s has no values", ErrEmptyGrid, ax.Name)
		}
	}

	points := g.Points()
	trials := make([]Trial, len(points))
	var mu sync.Mutex
	var metricErr error

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, p := range points {
		eg.Go(func() error {
			score, err := g.score(ctx, Apply(base, p), opts)
			if errors.Is(err, ErrUnknownMetric) {
				mu.Lock()
				metricErr = err
				mu.Unlock()
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				g.logger.Debug("trial failed", zap.Any("params", p), zap.Error(err))
				score = math.Inf(1)
			}
			trials[i] = Trial{Params: p, Score: score, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if metricErr != nil {
			return Trial{}, nil, metricErr
		}
		return Trial{}, nil, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
	}

	sort.SliceStable(trials, func(a, b int) bool { return trials[a].Score < trials[b].Score })
	if trials[0].Err != nil {
		return trials[0], trials, fmt.Errorf("%w: %v", ErrNoCandidate, trials[0].Err)
	}
	g.logger.Info("grid search done",
		zap.String("metric", g.metric),
		zap.Int("trials", len(trials)),
		zap.Any("best", trials[0].Params),
		zap.Float64("score", trials[0].Score))
	return trials[0], trials, nil
}

func (g *GridSearch) score(ctx context.Context, cfg *config.Config, opts []experiment.Option) (float64, error) {
	exp := experiment.New(cfg, opts...)
	if err := exp.Setup(); err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	if len(result.Errors) > 0 {
		return 0, result.Errors[0]
	}
	val, ok := result.Metrics[g.metric]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMetric, g.metric)
	}
	return math.Abs(val), nil
}

// Apply returns a copy of base with params applied. kp, ki, kd and target
// set the controller parameters; every other name overrides a model
// constant.
func Apply(base *config.Config, params map[string]float64) *config.Config {
	cfg := *base
	cfg.Initial = maps.Clone(base.Initial)
	cfg.Constants = maps.Clone(base.Constants)
	if cfg.Constants == nil {
		cfg.Constants = map[string]float64{}
	}
	for name, v := range params {
		switch name {
		case "kp":
			cfg.ControllerParams.Kp = v
		case "ki":
			cfg.ControllerParams.Ki = v
		case "kd":
			cfg.ControllerParams.Kd = v
		case "target":
			cfg.ControllerParams.Target = v
		default:
			cfg.Constants[name] = v
		}
	}
	return &cfg
}
