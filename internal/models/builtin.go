package models

import "sort"

const (
	DefaultMass    = 1.0
	DefaultLength  = 1.0
	DefaultGravity = 9.81

	DefaultStiffness = 10.0
	DefaultDamping   = 0.5
)

var builtins = map[string]Model{
	"pendulum": {
		Name:        "pendulum",
		Description: "damped pendulum driven by a torque T",
		States:      []string{"theta(t)", "omega(t)"},
		RHS: []string{
			"omega(t)",
			"(T(t) - b*omega(t) - m*g*l*sin(theta(t)))/(m*pow(l, 2))",
		},
		Energy:    "m*pow(l, 2)*pow(omega(t), 2)/2 + m*g*l*(1 - cos(theta(t)))",
		Constants: map[string]float64{"m": DefaultMass, "l": DefaultLength, "b": 0.1, "g": DefaultGravity},
		Initial:   map[string]float64{"theta": 0.5},
		Gains:     [][]float64{{31.62, 10.0}},
	},
	"spring_mass": {
		Name:        "spring_mass",
		Description: "mass on a damped spring driven by a force F",
		States:      []string{"x(t)", "v(t)"},
		RHS: []string{
			"v(t)",
			"(F(t) - k*x(t) - c*v(t))/m",
		},
		Energy:    "m*pow(v(t), 2)/2 + k*pow(x(t), 2)/2",
		Constants: map[string]float64{"m": DefaultMass, "k": DefaultStiffness, "c": DefaultDamping},
		Initial:   map[string]float64{"x": 1.0},
		Gains:     [][]float64{{10.0, 6.32}},
	},
	"double_pendulum": {
		Name:        "double_pendulum",
		Description: "double pendulum with a torque tau on the upper joint",
		States:      []string{"theta1(t)", "theta2(t)", "omega1(t)", "omega2(t)"},
		Definitions: map[string]string{
			"D":    "theta2(t) - theta1(t)",
			"M":    "m1 + m2",
			"den1": "M*l1 - m2*l1*pow(cos(D), 2)",
		},
		RHS: []string{
			"omega1(t)",
			"omega2(t)",
			"(m2*l1*pow(omega1(t), 2)*sin(D)*cos(D) + m2*g*sin(theta2(t))*cos(D) + m2*l2*pow(omega2(t), 2)*sin(D) - M*g*sin(theta1(t)) + tau(t))/den1",
			"(-m2*l2*pow(omega2(t), 2)*sin(D)*cos(D) + M*g*sin(theta1(t))*cos(D) - M*l1*pow(omega1(t), 2)*sin(D) - M*g*sin(theta2(t)))/(l2/l1*den1)",
		},
		Energy: "m1*pow(l1*omega1(t), 2)/2 + " +
			"m2*(pow(l1*omega1(t), 2) + pow(l2*omega2(t), 2) + 2*l1*l2*omega1(t)*omega2(t)*cos(theta1(t) - theta2(t)))/2 - " +
			"m1*g*l1*cos(theta1(t)) - m2*g*(l1*cos(theta1(t)) + l2*cos(theta2(t)))",
		Constants: map[string]float64{"m1": DefaultMass, "m2": DefaultMass, "l1": DefaultLength, "l2": DefaultLength, "g": DefaultGravity},
		Initial:   map[string]float64{"theta1": 0.5, "theta2": 0.5},
		Gains:     [][]float64{{50.0, 40.0, 15.0, 10.0}},
	},
	"duffing": {
		Name:        "duffing",
		Description: "forced Duffing oscillator",
		States:      []string{"x(t)", "v(t)"},
		RHS: []string{
			"v(t)",
			"-delta*v(t) - alpha*x(t) - beta*pow(x(t), 3) + gamma*cos(w*t)",
		},
		Energy:    "pow(v(t), 2)/2 + alpha*pow(x(t), 2)/2 + beta*pow(x(t), 4)/4",
		Constants: map[string]float64{"alpha": -1.0, "beta": 1.0, "delta": 0.3, "gamma": 0.5, "w": 1.2},
		Initial:   map[string]float64{"x": 1.0},
	},
	"cartpole": {
		Name:        "cartpole",
		Description: "pole balanced on a cart pushed by a force F; theta is zero upright",
		States:      []string{"x(t)", "theta(t)", "v(t)", "omega(t)"},
		Definitions: map[string]string{
			"M":        "mc + mp",
			"temp":     "(F(t) + mp*l*pow(omega(t), 2)*sin(theta(t)))/M",
			"thetaacc": "(g*sin(theta(t)) - cos(theta(t))*temp)/(l*(4/3 - mp*pow(cos(theta(t)), 2)/M))",
		},
		RHS: []string{
			"v(t)",
			"omega(t)",
			"temp - mp*l*thetaacc*cos(theta(t))/M",
			"thetaacc",
		},
		Constants: map[string]float64{"mc": 1.0, "mp": 0.1, "l": 1.0, "g": DefaultGravity},
		Initial:   map[string]float64{"theta": 0.1},
		Gains:     [][]float64{{-1.0, 35.36, -1.73, 8.94}},
	},
	"lorenz": {
		Name:        "lorenz",
		Description: "Lorenz attractor",
		States:      []string{"x(t)", "y(t)", "z(t)"},
		RHS: []string{
			"sigma*(y(t) - x(t))",
			"x(t)*(rho - z(t)) - y(t)",
			"x(t)*y(t) - beta*z(t)",
		},
		Constants: map[string]float64{"sigma": 10.0, "rho": 28.0, "beta": 8.0 / 3.0},
		Initial:   map[string]float64{"x": 1.0, "y": 1.0, "z": 1.0},
	},
	"vanderpol": {
		Name:        "vanderpol",
		Description: "Van der Pol oscillator",
		States:      []string{"x(t)", "y(t)"},
		RHS: []string{
			"y(t)",
			"mu*(1 - pow(x(t), 2))*y(t) - x(t)",
		},
		Constants: map[string]float64{"mu": 1.0},
		Initial:   map[string]float64{"x": 2.0},
	},
	"rossler": {
		Name:        "rossler",
		Description: "Rossler attractor",
		States:      []string{"x(t)", "y(t)", "z(t)"},
		RHS: []string{
			"-y(t) - z(t)",
			"x(t) + a*y(t)",
			"b + z(t)*(x(t) - c)",
		},
		Constants: map[string]float64{"a": 0.2, "b": 0.2, "c": 5.7},
		Initial:   map[string]float64{"x": 1.0, "y": 1.0, "z": 1.0},
	},
	"double_well": {
		Name:        "double_well",
		Description: "damped particle in a bistable quartic potential, pushed by a force F",
		States:      []string{"x(t)", "v(t)"},
		RHS: []string{
			"v(t)",
			"(F(t) - 4*A*x(t)*(pow(x(t), 2) - B) - c*v(t))/m",
		},
		Energy:    "m*pow(v(t), 2)/2 + A*pow(pow(x(t), 2) - B, 2)",
		Constants: map[string]float64{"A": 1.0, "B": 1.0, "m": DefaultMass, "c": 0.1},
		Initial:   map[string]float64{"x": 1.1},
	},
}

// Builtin returns a copy of a built-in model.
func Builtin(name string) (*Model, bool) {
	m, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return m.clone(), true
}

func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m Model) clone() *Model {
	out := m
	out.States = append([]string(nil), m.States...)
	out.RHS = append([]string(nil), m.RHS...)
	out.Definitions = copyMap(m.Definitions)
	out.Constants = copyMap(m.Constants)
	out.Initial = copyMap(m.Initial)
	out.Gains = make([][]float64, len(m.Gains))
	for i, row := range m.Gains {
		out.Gains[i] = append([]float64(nil), row...)
	}
	return &out
}

func copyMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
