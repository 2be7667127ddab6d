package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

// decay is dx/dt = -x.
type decay struct{}

func (decay) Derive(x State, u Control, t float64) State { return State{-x[0]} }
func (decay) StateDim() int                              { return 1 }
func (decay) ControlDim() int                            { return 0 }
func (decay) Energy(x State) float64                     { return x[0] * x[0] }

// blowup is dx/dt = x^2, which reaches infinity in finite time.
type blowup struct{}

func (blowup) Derive(x State, u Control, t float64) State { return State{x[0] * x[0]} }
func (blowup) StateDim() int                              { return 1 }
func (blowup) ControlDim() int                            { return 0 }

type euler struct{}

func (euler) Step(dyn System, x State, u Control, t, dt float64) State {
	return x.Axpy(dt, dyn.Derive(x, u, t))
}

type countingMetric struct {
	count int
	sum   float64
}

func (m *countingMetric) Name() string { return "mean_x" }
func (m *countingMetric) Observe(x State, u Control, t float64) {
	m.count++
	m.sum += x[0]
}
func (m *countingMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *countingMetric) Reset() { m.count, m.sum = 0, 0 }

func TestSimulatorRun(t *testing.T) {
	sim := New(decay{}, euler{}, nil)

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	expected := math.Exp(-1.0)
	if got := result.Final()[0]; math.Abs(got-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, got)
	}
	if result.EnergyDrift <= 0 {
		t.Error("expected energy drift for a dissipative system")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(decay{}, euler{}, nil)

	tests := []struct {
		name string
		x0   State
		cfg  Config
		want error
	}{
		{"zero dt", State{1}, Config{Dt: 0, Duration: 1.0}, ErrInvalidConfig},
		{"negative dt", State{1}, Config{Dt: -0.1, Duration: 1.0}, ErrInvalidConfig},
		{"zero duration", State{1}, Config{Dt: 0.1, Duration: 0}, ErrInvalidConfig},
		{"adaptive without tolerance", State{1}, Config{Dt: 0.1, Duration: 1, Adaptive: true}, ErrInvalidConfig},
		{"wrong dimension", State{1, 2}, Config{Dt: 0.1, Duration: 1.0}, ErrDimensionMismatch},
		{"nan start", State{math.NaN()}, Config{Dt: 0.1, Duration: 1.0, ValidateState: true}, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.x0, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(decay{}, euler{}, nil)
	metric := &countingMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["mean_x"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestSimulatorStopsOnDivergence(t *testing.T) {
	sim := New(blowup{}, euler{}, nil)
	cfg := DefaultConfig()
	cfg.Duration = 5

	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one recorded error, got %d", len(result.Errors))
	}
	var simErr *SimulationError
	if !errors.As(result.Errors[0], &simErr) || !errors.Is(simErr, ErrInvalidState) {
		t.Errorf("expected SimulationError wrapping ErrInvalidState, got %v", result.Errors[0])
	}
	if !result.Final().IsValid() {
		t.Error("recorded trajectory should only hold valid states")
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(decay{}, euler{}, nil)
	result, err := sim.Run(ctx, State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, ErrContextCanceled) {
		t.Fatalf("expected ErrContextCanceled, got %v", err)
	}
	if len(result.States) != 1 {
		t.Errorf("expected only the initial state, got %d", len(result.States))
	}
}

func TestSimulatorAdaptive(t *testing.T) {
	sim := New(decay{}, euler{}, nil)
	cfg := DefaultConfig()
	cfg.Duration = 1
	cfg.Dt = 0.1
	cfg.Adaptive = true
	cfg.Tolerance = 1e-4

	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := result.Times[len(result.Times)-1]; math.Abs(got-1) > 1e-9 {
		t.Errorf("expected to end at t=1, got %g", got)
	}
	if got := result.Final()[0]; math.Abs(got-math.Exp(-1)) > 1e-2 {
		t.Errorf("final state %g too far from exp(-1)", got)
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(decay{}, euler{}, nil)
	calls := 0
	err := sim.RunWithCallback(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0}, func(x State, u Control, t float64) bool {
		calls++
		return calls < 3
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 callbacks, got %d", calls)
	}
}
