package automation

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/dynsym/internal/config"
	"github.com/san-kum/dynsym/internal/dynamo"
	"github.com/san-kum/dynsym/internal/experiment"
	"github.com/san-kum/dynsym/internal/optim"
)

// Sweep varies one parameter linearly from Min to Max in Steps runs. The
// parameter is named as for [optim.Apply].
type Sweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
}

func (s Sweep) Values() []float64 {
	if s.Steps == 1 {
		return []float64{s.Min}
	}
	out := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// SweepPoint summarizes the run at one parameter value. The energy bounds
// are NaN for systems without an energy expression.
type SweepPoint struct {
	Value     float64
	Final     dynamo.State
	MinEnergy float64
	MaxEnergy float64
	Err       error
}

// RunSweep runs base once per sweep value. A failing run is recorded in its
// point and does not stop the sweep; a canceled context does.
func (r *Runner) RunSweep(ctx context.Context, base *config.Config, sw Sweep) ([]SweepPoint, error) {
	if sw.Param == "" || sw.Steps < 1 {
		return nil, fmt.Errorf("%w: sweep needs a parameter and at least one step", ErrInvalidScenario)
	}

	values := sw.Values()
	points := make([]SweepPoint, 0, len(values))
	for i, v := range values {
		if err := ctx.Err(); err != nil {
			return points, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
		}
		p := r.sweepPoint(ctx, optim.Apply(base, map[string]float64{sw.Param: v}))
		p.Value = v
		if p.Err != nil {
			r.logger.Warn("sweep point failed", zap.String("param", sw.Param), zap.Float64("value", v), zap.Error(p.Err))
		}
		r.logger.Debug("sweep", zap.Int("point", i+1), zap.Int("total", len(values)), zap.Float64(sw.Param, v))
		points = append(points, p)
	}
	return points, nil
}

func (r *Runner) sweepPoint(ctx context.Context, cfg *config.Config) SweepPoint {
	p := SweepPoint{MinEnergy: math.NaN(), MaxEnergy: math.NaN()}
	exp := experiment.New(cfg, experiment.WithRegistry(r.registry), experiment.WithLogger(r.logger))
	if err := exp.Setup(); err != nil {
		p.Err = err
		return p
	}
	result, err := exp.Run(ctx)
	if err != nil {
		p.Err = err
		return p
	}
	if len(result.Errors) > 0 {
		p.Err = result.Errors[0]
	}
	p.Final = result.Final()

	sys := exp.System()
	if sys.HasEnergy() && len(result.States) > 0 {
		p.MinEnergy, p.MaxEnergy = math.Inf(1), math.Inf(-1)
		for _, s := range result.States {
			e := sys.Energy(s)
			p.MinEnergy = math.Min(p.MinEnergy, e)
			p.MaxEnergy = math.Max(p.MaxEnergy, e)
		}
	}
	return p
}
