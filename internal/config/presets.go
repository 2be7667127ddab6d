package config

import "sort"

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			Initial: map[string]float64{"theta": 0.2, "omega": 0.0},
		},
		"large": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			Initial: map[string]float64{"theta": 2.5, "omega": 0.0},
		},
		"spinning": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 30.0,
			Initial: map[string]float64{"theta": 0.1, "omega": 8.0},
		},
		"frictionless": {
			Model: "pendulum", Integrator: "verlet", Dt: 0.01, Duration: 30.0,
			Initial:   map[string]float64{"theta": 1.0},
			Constants: map[string]float64{"b": 0},
		},
		"balance": {
			Model: "pendulum", Integrator: "rk4", Controller: "pid", Dt: 0.01, Duration: 20.0,
			Initial:          map[string]float64{"theta": 2.8},
			ControllerParams: ControllerConfig{Kp: 40, Ki: 0.5, Kd: 8, Target: 3.14159, State: "theta"},
		},
	},
	"double_pendulum": {
		"symmetric": {
			Model: "double_pendulum", Integrator: "rk4", Dt: 0.005, Duration: 30.0,
			Initial: map[string]float64{"theta1": 1.5, "theta2": 1.5},
		},
		"chaos": {
			Model: "double_pendulum", Integrator: "rk4", Dt: 0.005, Duration: 60.0,
			Initial: map[string]float64{"theta1": 3.0, "theta2": 3.0},
		},
		"gentle": {
			Model: "double_pendulum", Integrator: "rk4", Dt: 0.01, Duration: 30.0,
			Initial: map[string]float64{"theta1": 0.3, "theta2": 0.3},
		},
	},
	"cartpole": {
		"balance": {
			Model: "cartpole", Integrator: "rk4", Controller: "lqr", Dt: 0.01, Duration: 30.0,
			Initial: map[string]float64{"theta": 0.1},
		},
		"recover": {
			Model: "cartpole", Integrator: "rk4", Controller: "lqr", Dt: 0.01, Duration: 30.0,
			Initial: map[string]float64{"theta": 0.5},
		},
		"freefall": {
			Model: "cartpole", Integrator: "rk4", Dt: 0.01, Duration: 10.0,
			Initial: map[string]float64{"theta": 0.1},
		},
	},
	"spring_mass": {
		"bounce": {
			Model: "spring_mass", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			Initial: map[string]float64{"x": 2.0, "v": 0.0},
		},
		"fast": {
			Model: "spring_mass", Integrator: "rk4", Dt: 0.01, Duration: 10.0,
			Initial: map[string]float64{"x": 1.0, "v": 5.0},
		},
		"hold": {
			Model: "spring_mass", Integrator: "rk4", Controller: "lqr", Dt: 0.01, Duration: 10.0,
			Initial: map[string]float64{"x": 1.0},
		},
	},
	"duffing": {
		"chaotic": {
			Model: "duffing", Integrator: "rk45", Dt: 0.01, Duration: 100.0, Adaptive: true, Tolerance: 1e-8,
			Initial: map[string]float64{"x": 1.0},
		},
		"periodic": {
			Model: "duffing", Integrator: "rk4", Dt: 0.01, Duration: 60.0,
			Initial:   map[string]float64{"x": 1.0},
			Constants: map[string]float64{"gamma": 0.2},
		},
	},
	"lorenz": {
		"butterfly": {
			Model: "lorenz", Integrator: "rk45", Dt: 0.005, Duration: 40.0, Adaptive: true,
			Initial: map[string]float64{"x": 1.0, "y": 1.0, "z": 1.0},
		},
	},
	"vanderpol": {
		"relaxation": {
			Model: "vanderpol", Integrator: "rk45", Dt: 0.01, Duration: 50.0, Adaptive: true,
			Initial:   map[string]float64{"x": 2.0},
			Constants: map[string]float64{"mu": 5.0},
		},
	},
	"rossler": {
		"spiral": {
			Model: "rossler", Integrator: "rk4", Dt: 0.01, Duration: 200.0,
		},
		"funnel": {
			Model: "rossler", Integrator: "rk4", Dt: 0.005, Duration: 200.0,
			Constants: map[string]float64{"a": 0.3, "c": 10.0},
		},
	},
	"double_well": {
		"trapped": {
			Model: "double_well", Integrator: "rk4", Dt: 0.01, Duration: 30.0,
			Initial: map[string]float64{"x": 1.1},
		},
		"hopping": {
			Model: "double_well", Integrator: "rk4", Dt: 0.01, Duration: 60.0,
			Initial: map[string]float64{"x": 1.8},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
