package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dynsym/internal/dynamo"
)

// LargestLyapunov estimates the largest Lyapunov exponent of an unforced
// system from x0. A companion trajectory starts d0 away along the first
// state and is pulled back to distance d0 after every step; the exponent is
// the mean log stretching rate. A positive value indicates chaos.
func LargestLyapunov(
	ctx context.Context,
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration, d0 float64,
) (float64, error) {
	switch {
	case len(x0) == 0:
		return 0, fmt.Errorf("%w: empty initial state", ErrBadArgument)
	case dt <= 0 || duration <= 0:
		return 0, fmt.Errorf("%w: dt and duration must be positive", ErrBadArgument)
	case d0 <= 0:
		return 0, fmt.Errorf("%w: perturbation must be positive", ErrBadArgument)
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += d0

	u := make(dynamo.Control, dyn.ControlDim())
	steps := int(math.Round(duration / dt))
	sumLog := 0.0

	for i := 0; i < steps; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
			}
		}
		t := float64(i) * dt
		x = integ.Step(dyn, x, u, t, dt)
		xp = integ.Step(dyn, xp, u, t, dt)
		if !x.IsValid() || !xp.IsValid() {
			return 0, &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: dynamo.ErrInvalidState}
		}

		sep := xp.Sub(x).Norm()
		if sep == 0 {
			// The trajectories merged; restart the companion.
			xp = x.Clone()
			xp[0] += d0
			continue
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}
	return sumLog / (float64(steps) * dt), nil
}
