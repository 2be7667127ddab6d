package dynamo

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	metrics    []Metric
	observers  []Observer
	logger     *zap.Logger
}

func New(dyn System, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		logger:     zap.NewNop(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetLogger replaces the no-op logger.
func (s *Simulator) SetLogger(l *zap.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) System() System { return s.dyn }

func (s *Simulator) control(x State, t float64) Control {
	if s.controller == nil {
		return make(Control, s.dyn.ControlDim())
	}
	return s.controller.Compute(x, t)
}

// Run integrates from x0 over cfg.Duration. A state that turns invalid ends
// the run early; the error is recorded in Result.Errors and the partial
// trajectory is kept. Cancellation returns the partial result with an error
// wrapping ErrContextCanceled.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initialEnergy := s.energy(x)
	log := s.logger.With(zap.Int("state_dim", len(x0)), zap.Float64("dt", cfg.Dt))
	log.Debug("simulation started", zap.Float64("duration", cfg.Duration), zap.Bool("adaptive", cfg.Adaptive))

	for i := 0; t < cfg.Duration-1e-12; i++ {
		select {
		case <-ctx.Done():
			return result, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: fmt.Errorf("%w: %v", ErrContextCanceled, ctx.Err())}
		default:
		}

		u := s.control(x, t)

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		if t+dt > cfg.Duration {
			dt = cfg.Duration - t
		}

		var newX State
		used := dt
		next := dt
		if cfg.Adaptive {
			var err error
			newX, used, next, err = s.adaptiveStep(x, u, t, dt, cfg)
			if err != nil {
				result.Errors = append(result.Errors, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: err})
				log.Warn("adaptive step failed", zap.Int("step", i), zap.Error(err))
				break
			}
		} else {
			newX = s.integrator.Step(s.dyn, x, u, t, dt)
		}

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: ErrInvalidState})
			log.Warn("state diverged", zap.Int("step", i), zap.Float64("t", t))
			break
		}

		x = newX
		t += used
		dt = next
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
	}

	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(s.energy(x)-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.Debug("simulation finished", zap.Int("steps", result.StepsTaken), zap.Float64("energy_drift", result.EnergyDrift))
	return result, nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalidConfig)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: initial state has %d components, system has %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if cfg.ValidateState && !x0.IsValid() {
		return ErrInvalidState
	}
	return nil
}

func (s *Simulator) energy(x State) float64 {
	if h, ok := s.dyn.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

// adaptiveStep returns the new state, the step actually taken and the
// suggested next step.
func (s *Simulator) adaptiveStep(x State, u Control, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		for {
			newX, next, err := adaptive.StepAdaptive(s.dyn, x, u, t, dt, cfg.Tolerance)
			if err != nil {
				return nil, 0, 0, err
			}
			if next >= dt || dt <= cfg.MinDt {
				return newX, dt, clampDt(next, cfg), nil
			}
			dt = math.Max(next, cfg.MinDt)
		}
	}

	// step doubling for fixed-step integrators
	for {
		x1 := s.integrator.Step(s.dyn, x, u, t, dt)
		xHalf := s.integrator.Step(s.dyn, x, u, t, dt/2)
		x2 := s.integrator.Step(s.dyn, xHalf, u, t+dt/2, dt/2)

		errEst := x1.Sub(x2).Norm()
		if errEst > cfg.Tolerance {
			if dt/2 < cfg.MinDt {
				return nil, 0, 0, fmt.Errorf("%w: dt=%g", ErrStepTooSmall, dt/2)
			}
			dt /= 2
			continue
		}
		next := dt
		if errEst < cfg.Tolerance/10 {
			next = dt * 2
		}
		return x2, dt, clampDt(next, cfg), nil
	}
}

func clampDt(dt float64, cfg Config) float64 {
	if cfg.MaxDt > 0 && dt > cfg.MaxDt {
		return cfg.MaxDt
	}
	if dt < cfg.MinDt {
		return cfg.MinDt
	}
	return dt
}

// RunWithCallback steps the simulation and calls fn before every step.
// Returning false from fn stops the run without error.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, fn func(State, Control, float64) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0

	for step := 0; t < cfg.Duration; step++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextCanceled, ctx.Err())
		default:
		}

		u := s.control(x, t)
		if !fn(x, u, t) {
			return nil
		}

		x = s.integrator.Step(s.dyn, x, u, t, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return &SimulationError{Step: step, Time: t, State: x, Wrapped: ErrInvalidState}
		}
	}

	return nil
}
