package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/dynsym/internal/control"
	"github.com/san-kum/dynsym/internal/dynamo"
	"github.com/san-kum/dynsym/internal/integrators"
	"github.com/san-kum/dynsym/internal/models"
	"github.com/san-kum/dynsym/internal/system"
)

var (
	ErrUnknownController = errors.New("experiment: unknown controller")
	ErrNoGains           = errors.New("experiment: no lqr gains")
)

// ControllerSpec is what a controller factory gets to build from.
type ControllerSpec struct {
	System *system.System
	Model  *models.Model
	Params map[string]float64
	State  string
	Gains  [][]float64
}

type ControllerFactory func(spec ControllerSpec) (dynamo.Controller, error)

type Registry struct {
	models      map[string]*models.Model
	controllers map[string]ControllerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]*models.Model),
		controllers: make(map[string]ControllerFactory),
	}

	r.controllers["none"] = func(spec ControllerSpec) (dynamo.Controller, error) {
		return control.NewNone(spec.System.ControlDim()), nil
	}
	r.controllers["pid"] = newPID
	r.controllers["lqr"] = newLQR
	r.controllers["manual"] = func(spec ControllerSpec) (dynamo.Controller, error) {
		return control.NewManual(spec.System.ControlDim()), nil
	}

	return r
}

func newPID(spec ControllerSpec) (dynamo.Controller, error) {
	sys := spec.System
	index := 0
	if spec.State != "" {
		index = -1
		for i, name := range sys.StateNames() {
			if name == spec.State {
				index = i
			}
		}
		if index < 0 {
			return nil, fmt.Errorf("%w: state %q", system.ErrUnknownName, spec.State)
		}
	}
	p := spec.Params
	return control.NewPID(sys.ControlDim(), index, p["kp"], p["ki"], p["kd"], p["target"]), nil
}

func newLQR(spec ControllerSpec) (dynamo.Controller, error) {
	gains := spec.Gains
	if len(gains) == 0 && spec.Model != nil {
		gains = spec.Model.Gains
	}
	if len(gains) == 0 {
		return nil, fmt.Errorf("%w for model %s", ErrNoGains, spec.System.Name())
	}
	return control.NewLQR(gains, nil, spec.System.StateDim(), spec.System.ControlDim())
}

// RegisterModel makes m available by name, shadowing a built-in of the
// same name.
func (r *Registry) RegisterModel(m *models.Model) {
	r.models[m.Name] = m
}

func (r *Registry) RegisterController(name string, f ControllerFactory) {
	r.controllers[name] = f
}

// GetModel resolves registered models first, then built-ins and model files.
func (r *Registry) GetModel(name string) (*models.Model, error) {
	if m, ok := r.models[name]; ok {
		return m, nil
	}
	return models.Lookup(name)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	return integrators.ByName(name)
}

func (r *Registry) GetController(name string, spec ControllerSpec) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownController, name)
	}
	return fn(spec)
}

func (r *Registry) ListModels() []string {
	seen := make(map[string]bool)
	for _, name := range models.Names() {
		seen[name] = true
	}
	for name := range r.models {
		seen[name] = true
	}
	return sortedKeys(seen)
}

func (r *Registry) ListControllers() []string {
	seen := make(map[string]bool, len(r.controllers))
	for name := range r.controllers {
		seen[name] = true
	}
	return sortedKeys(seen)
}

func (r *Registry) ListIntegrators() []string {
	return integrators.Names()
}

func sortedKeys(m map[string]bool) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
