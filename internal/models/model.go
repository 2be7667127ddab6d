// Package models holds symbolic model definitions: the built-in library and
// YAML model files.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dynsym/internal/symbolic"
	"github.com/san-kum/dynsym/internal/system"
	"github.com/san-kum/dynsym/internal/version"
)

var (
	ErrUnknownModel = errors.New("models: unknown model")
	ErrInvalidModel = errors.New("models: invalid model")
)

// Model is a symbolic ODE written as expression strings. Expressions use
// the syntax of symbolic.Parse; states are functions of t.
type Model struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	MinVersion  string             `yaml:"min_version,omitempty"`
	States      []string           `yaml:"states"`
	RHS         []string           `yaml:"rhs"`
	Energy      string             `yaml:"energy,omitempty"`
	Definitions map[string]string  `yaml:"definitions,omitempty"`
	Constants   map[string]float64 `yaml:"constants,omitempty"`
	Initial     map[string]float64 `yaml:"initial,omitempty"`
	Gains       [][]float64        `yaml:"gains,omitempty"`
}

// Compiled holds the parsed expressions of a Model.
type Compiled struct {
	States []symbolic.Expr
	RHS    []symbolic.Expr
	Energy symbolic.Expr
}

// Parse decodes a YAML model file and checks its min_version.
func Parse(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidModel)
	}
	if err := version.Check(m.MinVersion); err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	return &m, nil
}

func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (m *Model) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Lookup resolves a built-in name or a path to a .yaml/.yml model file.
func Lookup(nameOrPath string) (*Model, error) {
	if m, ok := Builtin(nameOrPath); ok {
		return m, nil
	}
	ext := filepath.Ext(nameOrPath)
	if ext == ".yaml" || ext == ".yml" {
		return Load(nameOrPath)
	}
	return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownModel, nameOrPath, strings.Join(Names(), ", "))
}

// Compile parses every expression, expanding definitions.
func (m *Model) Compile() (*Compiled, error) {
	if len(m.States) == 0 {
		return nil, fmt.Errorf("%w: %s has no states", ErrInvalidModel, m.Name)
	}
	defs, err := m.substitution()
	if err != nil {
		return nil, err
	}
	parse := func(what, src string) (symbolic.Expr, error) {
		e, err := symbolic.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("model %s: %s %q: %w", m.Name, what, src, err)
		}
		return expand(e, defs), nil
	}

	c := &Compiled{}
	for _, src := range m.States {
		e, err := parse("state", src)
		if err != nil {
			return nil, err
		}
		c.States = append(c.States, e)
	}
	for _, src := range m.RHS {
		e, err := parse("rhs", src)
		if err != nil {
			return nil, err
		}
		c.RHS = append(c.RHS, e)
	}
	if m.Energy != "" {
		if c.Energy, err = parse("energy", m.Energy); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (m *Model) substitution() (symbolic.Substitution, error) {
	defs := symbolic.Substitution{}
	names := make([]string, 0, len(m.Definitions))
	for name := range m.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e, err := symbolic.Parse(m.Definitions[name])
		if err != nil {
			return nil, fmt.Errorf("model %s: definition %s: %w", m.Name, name, err)
		}
		defs.Bind(symbolic.S(name), e)
	}
	return defs, nil
}

// expand substitutes definitions until none remain; definitions may refer
// to each other but not cyclically.
func expand(e symbolic.Expr, defs symbolic.Substitution) symbolic.Expr {
	for i := 0; i <= len(defs); i++ {
		next := e.Subs(defs)
		if symbolic.Equal(next, e) {
			return e
		}
		e = next
	}
	return e
}

// System builds the symbolic system with the model's default constants and
// initial conditions applied.
func (m *Model) System(opts ...system.Option) (*system.System, error) {
	c, err := m.Compile()
	if err != nil {
		return nil, err
	}
	opts = append([]system.Option{system.WithName(m.Name)}, opts...)
	if c.Energy != nil {
		opts = append(opts, system.WithEnergy(c.Energy))
	}
	sys, err := system.New(c.States, c.RHS, opts...)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	if err := sys.SetConstants(m.Constants); err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	if err := sys.SetInitialConditions(m.Initial); err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	return sys, nil
}
