// Package experiment wires a model, an integrator and a controller into a
// runnable simulation.
package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/dynsym/internal/config"
	"github.com/san-kum/dynsym/internal/dynamo"
	"github.com/san-kum/dynsym/internal/integrators"
	"github.com/san-kum/dynsym/internal/metrics"
	"github.com/san-kum/dynsym/internal/models"
	"github.com/san-kum/dynsym/internal/storage"
	"github.com/san-kum/dynsym/internal/system"
	"github.com/san-kum/dynsym/internal/version"
)

type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	logger     *zap.Logger
	model      *models.Model
	system     *system.System
	controller dynamo.Controller
	simulator  *dynamo.Simulator
	randSource *rand.Rand
}

type Option func(*Experiment)

func WithLogger(l *zap.Logger) Option {
	return func(e *Experiment) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.registry = r }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:        cfg,
		logger:     zap.NewNop(),
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	return e
}

// Setup builds the system from the model, applies the config overrides and
// assembles the simulator.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	m, err := e.registry.GetModel(e.cfg.Model)
	if err != nil {
		return err
	}
	sys, err := m.System(system.WithLogger(e.logger.Named("system")))
	if err != nil {
		return err
	}
	if err := sys.SetConstants(e.cfg.Constants); err != nil {
		return err
	}
	if err := sys.SetInitialConditions(e.cfg.Initial); err != nil {
		return err
	}
	if err := sys.Validate(); err != nil {
		return err
	}

	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	if integrators.Symplectic(e.cfg.Integrator) && sys.StateDim()%2 != 0 {
		return fmt.Errorf("%w: %s needs states ordered [q..., q'...], %s has %d states",
			dynamo.ErrDimensionMismatch, e.cfg.Integrator, m.Name, sys.StateDim())
	}
	ctrlName := e.controllerName()
	ctrl, err := e.registry.GetController(ctrlName, e.controllerSpec(m, sys))
	if err != nil {
		return err
	}

	e.model = m
	e.system = sys
	e.controller = ctrl
	e.simulator = e.newSimulator(integ, ctrl)

	e.logger.Info("experiment ready",
		zap.String("model", m.Name),
		zap.String("integrator", e.cfg.Integrator),
		zap.String("controller", ctrlName),
		zap.Strings("states", sys.StateNames()),
		zap.Strings("inputs", sys.ControlNames()),
	)
	return nil
}

func (e *Experiment) controllerSpec(m *models.Model, sys *system.System) ControllerSpec {
	return ControllerSpec{
		System: sys,
		Model:  m,
		Params: e.cfg.GetControllerParams(sys.ControlDim()),
		State:  e.cfg.ControllerParams.State,
		Gains:  e.cfg.ControllerParams.Gains,
	}
}

func (e *Experiment) newSimulator(integ dynamo.Integrator, ctrl dynamo.Controller) *dynamo.Simulator {
	s := dynamo.New(e.system, integ, ctrl)
	s.SetLogger(e.logger.Named("sim"))
	for _, m := range metrics.Default(e.system) {
		s.AddMetric(m)
	}
	return s
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.system.InitialState(), e.cfg.Sim())
}

// RunEnsemble integrates n copies of the experiment whose initial states
// are perturbed uniformly within ±spread, seeded from the config.
func (e *Experiment) RunEnsemble(ctx context.Context, n int, spread float64, workers int) ([]*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	base := e.system.InitialState()
	inits := make([]dynamo.State, n)
	for i := range inits {
		x := base.Clone()
		for j := range x {
			x[j] += spread * (2*e.randSource.Float64() - 1)
		}
		inits[i] = x
	}

	// Setup already resolved both names, so the lookups cannot fail here.
	factory := func() *dynamo.Simulator {
		integ, _ := e.registry.GetIntegrator(e.cfg.Integrator)
		ctrl, _ := e.registry.GetController(e.controllerName(), e.controllerSpec(e.model, e.system))
		return e.newSimulator(integ, ctrl)
	}
	return dynamo.NewEnsemble(factory, workers).Run(ctx, inits, e.cfg.Sim())
}

// Metadata describes the experiment for the run store. It is valid after
// Setup.
func (e *Experiment) Metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Model:        e.model.Name,
		Engine:       version.Engine,
		Seed:         e.cfg.Seed,
		Dt:           e.cfg.Dt,
		Duration:     e.cfg.Duration,
		Adaptive:     e.cfg.Adaptive,
		Integrator:   e.cfg.Integrator,
		Controller:   e.controllerName(),
		StateNames:   e.system.StateNames(),
		ControlNames: e.system.ControlNames(),
		Constants:    e.system.ConstantValues(),
	}
}

func (e *Experiment) controllerName() string {
	if e.cfg.Controller == "" {
		return "none"
	}
	return e.cfg.Controller
}

func (e *Experiment) Simulator() *dynamo.Simulator  { return e.simulator }
func (e *Experiment) System() *system.System        { return e.system }
func (e *Experiment) Model() *models.Model          { return e.model }
func (e *Experiment) Controller() dynamo.Controller { return e.controller }
func (e *Experiment) Config() *config.Config        { return e.cfg }
