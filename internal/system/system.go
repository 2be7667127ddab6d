package system

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/dynsym/internal/codegen"
	"github.com/san-kum/dynsym/internal/dynamics"
	"github.com/san-kum/dynsym/internal/dynamo"
	"github.com/san-kum/dynsym/internal/symbolic"
)

// System is a symbolic explicit ODE bound to numeric values. Setters must
// not be called while an integration is running; Derive and Energy are safe
// for concurrent use otherwise.
type System struct {
	name       string
	extractor  *dynamics.Extractor
	logger     *zap.Logger
	states     []symbolic.Expr
	rhs        []symbolic.Expr
	specifieds []symbolic.Expr
	constants  []*symbolic.Symbol
	energy     symbolic.Expr

	layout     codegen.Layout
	rhsEval    *codegen.Evaluator
	energyEval *codegen.Evaluator

	constVals []float64
	initial   dynamo.State
	inputs    []func(t float64) float64
}

type Option func(*System)

// WithEnergy attaches a total-energy expression in the states and constants.
func WithEnergy(e symbolic.Expr) Option {
	return func(s *System) { s.energy = e }
}

// WithExtractor sets the extractor, and with it the time symbol.
func WithExtractor(x *dynamics.Extractor) Option {
	return func(s *System) {
		if x != nil {
			s.extractor = x
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithName(name string) Option {
	return func(s *System) { s.name = name }
}

// New validates states and rhs and discovers specifieds and constants.
func New(states, rhs []symbolic.Expr, opts ...Option) (*System, error) {
	s := &System{
		name:      "system",
		extractor: dynamics.Default,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(states) == 0 {
		return nil, ErrNoStates
	}
	if len(states) != len(rhs) {
		return nil, fmt.Errorf("%w: %d states, %d right-hand sides", dynamo.ErrDimensionMismatch, len(states), len(rhs))
	}

	stateSet := symbolic.NewSet()
	for i, x := range states {
		if !s.extractor.IsQuantity(x) {
			return nil, fmt.Errorf("%w: %v", ErrNotDynamic, x)
		}
		if !stateSet.Add(x) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateState, x)
		}
		if rhs[i] == nil {
			return nil, fmt.Errorf("system: right-hand side %d is nil", i)
		}
	}

	exprs := append([]symbolic.Expr(nil), rhs...)
	if s.energy != nil {
		exprs = append(exprs, s.energy)
	}
	found, err := s.extractor.FindAll(exprs, stateSet)
	if err != nil {
		return nil, err
	}
	for _, q := range found.Items() {
		if q.Kind() == symbolic.KindDerivative {
			return nil, fmt.Errorf("%w: %s", ErrImplicit, q)
		}
	}

	s.states = append([]symbolic.Expr(nil), states...)
	s.rhs = append([]symbolic.Expr(nil), rhs...)
	s.specifieds = found.Items()
	s.constants = constantsOf(exprs, s.extractor.Time())
	s.layout = codegen.Layout{
		Time:       s.extractor.Time(),
		States:     s.states,
		Specifieds: s.specifieds,
		Constants:  s.constants,
	}

	s.rhsEval, err = codegen.Compile(s.rhs, s.layout)
	if err != nil {
		return nil, err
	}
	if s.energy != nil {
		energyLayout := s.layout
		energyLayout.Specifieds = nil
		if s.energyEval, err = codegen.Compile([]symbolic.Expr{s.energy}, energyLayout); err != nil {
			return nil, fmt.Errorf("energy: %w", err)
		}
	}

	s.constVals = make([]float64, len(s.constants))
	for i := range s.constVals {
		s.constVals[i] = math.NaN()
	}
	s.initial = make(dynamo.State, len(s.states))
	s.inputs = make([]func(float64) float64, len(s.specifieds))

	s.logger.Debug("system assembled",
		zap.String("name", s.name),
		zap.Strings("states", s.StateNames()),
		zap.Strings("specifieds", s.ControlNames()),
		zap.Strings("constants", s.ConstantNames()),
	)
	return s, nil
}

// constantsOf returns the free symbols other than time, by name.
func constantsOf(exprs []symbolic.Expr, time *symbolic.Symbol) []*symbolic.Symbol {
	free := symbolic.NewSet()
	for _, e := range exprs {
		free = free.Union(symbolic.FreeSymbols(e))
	}
	free.Remove(time)
	out := make([]*symbolic.Symbol, 0, free.Len())
	for _, e := range free.Items() {
		out = append(out, e.(*symbolic.Symbol))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (s *System) Name() string                { return s.name }
func (s *System) Time() *symbolic.Symbol      { return s.extractor.Time() }
func (s *System) States() []symbolic.Expr     { return append([]symbolic.Expr(nil), s.states...) }
func (s *System) RHS() []symbolic.Expr        { return append([]symbolic.Expr(nil), s.rhs...) }
func (s *System) Specifieds() []symbolic.Expr { return append([]symbolic.Expr(nil), s.specifieds...) }
func (s *System) EnergyExpr() symbolic.Expr   { return s.energy }
func (s *System) Layout() codegen.Layout      { return s.layout }

func (s *System) Constants() []*symbolic.Symbol {
	return append([]*symbolic.Symbol(nil), s.constants...)
}

func (s *System) StateDim() int   { return len(s.states) }
func (s *System) ControlDim() int { return len(s.specifieds) }

// quantityName is the function name for x(t), or the printed form otherwise.
func quantityName(e symbolic.Expr) string {
	if a, ok := e.(*symbolic.Applied); ok {
		return a.Name()
	}
	return e.String()
}

func quantityNames(es []symbolic.Expr) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = quantityName(e)
	}
	return out
}

func (s *System) StateNames() []string   { return quantityNames(s.states) }
func (s *System) ControlNames() []string { return quantityNames(s.specifieds) }

func (s *System) ConstantNames() []string {
	out := make([]string, len(s.constants))
	for i, c := range s.constants {
		out[i] = c.Name()
	}
	return out
}

// indexOf finds name among es by function name or printed form.
func indexOf(es []symbolic.Expr, name string) int {
	for i, e := range es {
		if quantityName(e) == name || e.String() == name {
			return i
		}
	}
	return -1
}

// SetConstants assigns constant values by symbol name. Nothing is changed
// when any name is unknown.
func (s *System) SetConstants(values map[string]float64) error {
	idx := make(map[string]int, len(s.constants))
	for i, c := range s.constants {
		idx[c.Name()] = i
	}
	for name := range values {
		if _, ok := idx[name]; !ok {
			return fmt.Errorf("%w: constant %q", ErrUnknownName, name)
		}
	}
	for name, v := range values {
		s.constVals[idx[name]] = v
	}
	return nil
}

// ConstantValues returns the assigned constants; unassigned ones are absent.
func (s *System) ConstantValues() map[string]float64 {
	out := make(map[string]float64, len(s.constants))
	for i, c := range s.constants {
		if !math.IsNaN(s.constVals[i]) {
			out[c.Name()] = s.constVals[i]
		}
	}
	return out
}

// SetInitialConditions assigns initial state values by state name, either
// the function name ("theta") or the printed form ("theta(t)"). States not
// mentioned start at zero.
func (s *System) SetInitialConditions(values map[string]float64) error {
	for name := range values {
		if indexOf(s.states, name) < 0 {
			return fmt.Errorf("%w: state %q", ErrUnknownName, name)
		}
	}
	for name, v := range values {
		s.initial[indexOf(s.states, name)] = v
	}
	return nil
}

// SetInitialState replaces the initial state vector.
func (s *System) SetInitialState(x dynamo.State) error {
	if len(x) != len(s.states) {
		return fmt.Errorf("%w: initial state has %d components, system has %d", dynamo.ErrDimensionMismatch, len(x), len(s.states))
	}
	copy(s.initial, x)
	return nil
}

func (s *System) InitialState() dynamo.State { return s.initial.Clone() }

// SetSpecified binds a specified input to a function of time. A bound input
// ignores the controller's value; a nil fn unbinds it.
func (s *System) SetSpecified(name string, fn func(t float64) float64) error {
	i := indexOf(s.specifieds, name)
	if i < 0 {
		return fmt.Errorf("%w: specified %q", ErrUnknownName, name)
	}
	s.inputs[i] = fn
	return nil
}

// Validate reports constants that have no value.
func (s *System) Validate() error {
	var missing []string
	for i, c := range s.constants {
		if math.IsNaN(s.constVals[i]) {
			missing = append(missing, c.Name())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingConstant, missing)
	}
	return nil
}

// resolve fills the specified inputs: a bound function wins over the
// controller, missing controller values are zero.
func (s *System) resolve(u dynamo.Control, t float64) []float64 {
	if len(s.specifieds) == 0 {
		return nil
	}
	out := make([]float64, len(s.specifieds))
	for i := range out {
		switch {
		case s.inputs[i] != nil:
			out[i] = s.inputs[i](t)
		case i < len(u):
			out[i] = u[i]
		}
	}
	return out
}

func (s *System) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	out := make(dynamo.State, len(s.rhs))
	s.rhsEval.Eval(x, s.resolve(u, t), s.constVals, t, out)
	return out
}

// Energy evaluates the energy expression, or returns zero without one.
func (s *System) Energy(x dynamo.State) float64 {
	if s.energyEval == nil {
		return 0
	}
	return s.energyEval.Scalar(x, nil, s.constVals, 0)
}

// HasEnergy reports whether an energy expression is attached.
func (s *System) HasEnergy() bool { return s.energyEval != nil }

// Integrate validates the system and runs it from the initial state. A nil
// controller leaves unbound inputs at zero.
func (s *System) Integrate(ctx context.Context, integ dynamo.Integrator, ctrl dynamo.Controller, cfg dynamo.Config, metrics ...dynamo.Metric) (*dynamo.Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sim := dynamo.New(s, integ, ctrl)
	sim.SetLogger(s.logger.Named("sim"))
	for _, m := range metrics {
		sim.AddMetric(m)
	}
	return sim.Run(ctx, s.InitialState(), cfg)
}
