// Package automation runs scripted sequences of experiments and parameter
// sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/dynsym/internal/config"
	"github.com/san-kum/dynsym/internal/dynamo"
	"github.com/san-kum/dynsym/internal/experiment"
	"github.com/san-kum/dynsym/internal/storage"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario is a named sequence of runs, read from YAML.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run of a scenario. Its config fields override the preset,
// which overrides the defaults.
type Step struct {
	Name          string `yaml:"name,omitempty"`
	Preset        string `yaml:"preset,omitempty"`
	Persist       bool   `yaml:"save,omitempty"`
	config.Config `yaml:",inline"`
}

// Resolve layers the step over the defaults and its preset.
func (s *Step) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		p := config.GetPreset(s.Model, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("%w: unknown preset %s for model %q", ErrInvalidScenario, s.Preset, s.Model)
		}
		cfg = cfg.Merge(p)
	}
	cfg = cfg.Merge(&s.Config)
	return cfg, cfg.Validate()
}

func (s *Step) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step %d", i+1)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	for i := range sc.Steps {
		if _, err := sc.Steps[i].Resolve(); err != nil {
			return nil, fmt.Errorf("%s: %w", sc.Steps[i].label(i), err)
		}
	}
	return &sc, nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// Runner executes scenarios and sweeps against one registry. Steps marked
// for saving go to the store, when one is set.
type Runner struct {
	registry *experiment.Registry
	store    *storage.Store
	logger   *zap.Logger
}

type Option func(*Runner)

func WithStore(st *storage.Store) Option { return func(r *Runner) { r.store = st } }

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRunner(registry *experiment.Registry, opts ...Option) *Runner {
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	r := &Runner{registry: registry, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type StepResult struct {
	Name   string
	Config *config.Config
	Result *dynamo.Result
	RunID  string
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results completed so far.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))
	for i := range sc.Steps {
		step := &sc.Steps[i]
		name := step.label(i)
		r.logger.Info("scenario step", zap.String("scenario", sc.Name), zap.String("step", name),
			zap.Int("index", i+1), zap.Int("total", len(sc.Steps)))

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		exp := experiment.New(cfg, experiment.WithRegistry(r.registry), experiment.WithLogger(r.logger))
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("%s setup: %w", name, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s run: %w", name, err)
		}

		sr := StepResult{Name: name, Config: cfg, Result: result}
		if step.Persist && r.store != nil {
			id, err := r.store.Save(exp.Metadata(), result)
			if err != nil {
				return results, fmt.Errorf("%s save: %w", name, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}
	return results, nil
}
