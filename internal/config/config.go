// Package config holds run configurations: which model to integrate, how,
// and with which controller.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dynsym/internal/dynamo"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultKp       = 10.0
	DefaultKi       = 0.1
	DefaultKd       = 5.0
)

var ErrInvalid = errors.New("config: invalid")

// Config describes one run. Initial and Constants override the model's
// defaults by name.
type Config struct {
	Model            string             `yaml:"model"`
	Integrator       string             `yaml:"integrator"`
	Controller       string             `yaml:"controller"`
	Dt               float64            `yaml:"dt"`
	Duration         float64            `yaml:"duration"`
	Seed             int64              `yaml:"seed,omitempty"`
	Adaptive         bool               `yaml:"adaptive,omitempty"`
	Tolerance        float64            `yaml:"tolerance,omitempty"`
	Initial          map[string]float64 `yaml:"initial,omitempty"`
	Constants        map[string]float64 `yaml:"constants,omitempty"`
	ControllerParams ControllerConfig   `yaml:"controller_params"`
}

// ControllerConfig parameterizes the pid and lqr controllers. State names
// the state the pid tracks; Gains replaces the model's lqr gains.
type ControllerConfig struct {
	Kp     float64     `yaml:"kp"`
	Ki     float64     `yaml:"ki"`
	Kd     float64     `yaml:"kd"`
	Target float64     `yaml:"target"`
	State  string      `yaml:"state,omitempty"`
	Gains  [][]float64 `yaml:"gains,omitempty"`
}

func (cc ControllerConfig) isZero() bool {
	return cc.Kp == 0 && cc.Ki == 0 && cc.Kd == 0 && cc.Target == 0 && cc.State == "" && len(cc.Gains) == 0
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "pendulum",
		Integrator: "rk4",
		Controller: "none",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		ControllerParams: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Model == "":
		return fmt.Errorf("%w: model is empty", ErrInvalid)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalid, c.Duration)
	}
	return nil
}

// Sim converts the run settings into a simulator config.
func (c *Config) Sim() dynamo.Config {
	sc := dynamo.DefaultConfig()
	sc.Dt = c.Dt
	sc.Duration = c.Duration
	sc.Seed = c.Seed
	sc.Adaptive = c.Adaptive
	if c.Tolerance > 0 {
		sc.Tolerance = c.Tolerance
	}
	return sc
}

func (c *Config) GetControllerParams(controlDim int) map[string]float64 {
	return map[string]float64{
		"dim":    float64(controlDim),
		"kp":     c.ControllerParams.Kp,
		"ki":     c.ControllerParams.Ki,
		"kd":     c.ControllerParams.Kd,
		"target": c.ControllerParams.Target,
	}
}

// Merge applies the non-zero fields of o over a copy of c.
func (c *Config) Merge(o *Config) *Config {
	out := *c
	if o == nil {
		return &out
	}
	if o.Model != "" {
		out.Model = o.Model
	}
	if o.Integrator != "" {
		out.Integrator = o.Integrator
	}
	if o.Controller != "" {
		out.Controller = o.Controller
	}
	if o.Dt > 0 {
		out.Dt = o.Dt
	}
	if o.Duration > 0 {
		out.Duration = o.Duration
	}
	if o.Seed != 0 {
		out.Seed = o.Seed
	}
	if o.Adaptive {
		out.Adaptive = true
	}
	if o.Tolerance > 0 {
		out.Tolerance = o.Tolerance
	}
	out.Initial = mergeMap(c.Initial, o.Initial)
	out.Constants = mergeMap(c.Constants, o.Constants)
	if !o.ControllerParams.isZero() {
		out.ControllerParams = o.ControllerParams
	}
	return &out
}

func mergeMap(a, b map[string]float64) map[string]float64 {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]float64, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
