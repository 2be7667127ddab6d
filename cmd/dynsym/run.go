package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/dynsym/internal/config"
	"github.com/san-kum/dynsym/internal/experiment"
)

// runFlags are shared by run and live.
type runFlags struct {
	configFile string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	controller string
	kp         float64
	ki         float64
	kd         float64
	target     float64
	pidState   string
	adaptive   bool
	tolerance  float64
	initial    map[string]string
	constants  map[string]string
}

func (f *runFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.configFile, "run-config", "", "run config file (yaml)")
	flags.StringVar(&f.preset, "preset", "", "use preset configuration")
	flags.Float64Var(&f.dt, "dt", config.DefaultDt, "timestep")
	flags.Float64Var(&f.duration, "time", config.DefaultDuration, "duration")
	flags.Int64Var(&f.seed, "seed", 0, "random seed")
	flags.StringVar(&f.integrator, "integrator", "rk4", "integrator")
	flags.StringVar(&f.controller, "controller", "none", "controller (none, pid, lqr, manual)")
	flags.Float64Var(&f.kp, "kp", config.DefaultKp, "pid kp")
	flags.Float64Var(&f.ki, "ki", config.DefaultKi, "pid ki")
	flags.Float64Var(&f.kd, "kd", config.DefaultKd, "pid kd")
	flags.Float64Var(&f.target, "target", 0.0, "pid target")
	flags.StringVar(&f.pidState, "pid-state", "", "state tracked by the pid controller")
	flags.BoolVar(&f.adaptive, "adaptive", false, "adaptive step size")
	flags.Float64Var(&f.tolerance, "tol", 0, "adaptive error tolerance")
	flags.StringToStringVar(&f.initial, "init", nil, "initial conditions, e.g. --init theta=1.2,omega=0")
	flags.StringToStringVar(&f.constants, "set", nil, "constant values, e.g. --set g=1.62")
}

// build layers the run config: defaults, then the config file, then the
// preset, then explicitly set flags.
func (f *runFlags) build(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if f.configFile != "" {
		fileCfg, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = cfg.Merge(fileCfg)
	}
	if f.preset != "" {
		p := config.GetPreset(model, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets(model))
		}
		cfg = cfg.Merge(p)
	}

	changed := cmd.Flags().Changed
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.Duration = f.duration
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("integrator") {
		cfg.Integrator = f.integrator
	}
	if changed("controller") {
		cfg.Controller = f.controller
	}
	if changed("adaptive") {
		cfg.Adaptive = f.adaptive
	}
	if changed("tol") {
		cfg.Tolerance = f.tolerance
	}
	cp := &cfg.ControllerParams
	if changed("kp") {
		cp.Kp = f.kp
	}
	if changed("ki") {
		cp.Ki = f.ki
	}
	if changed("kd") {
		cp.Kd = f.kd
	}
	if changed("target") {
		cp.Target = f.target
	}
	if changed("pid-state") {
		cp.State = f.pidState
	}

	initial, err := parseAssignments(f.initial)
	if err != nil {
		return nil, fmt.Errorf("--init: %w", err)
	}
	constants, err := parseAssignments(f.constants)
	if err != nil {
		return nil, fmt.Errorf("--set: %w", err)
	}
	cfg = cfg.Merge(&config.Config{Initial: initial, Constants: constants})
	return cfg, cfg.Validate()
}

func parseAssignments(pairs map[string]string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(pairs))
	for name, raw := range pairs {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%s=%s: not a number", name, raw)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func newRunCmd(a *app) *cobra.Command {
	var (
		f        runFlags
		ensemble int
		spread   float64
		workers  int
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "run MODEL",
		Short: "run simulation",
		Long: `run integrates a built-in model or a YAML model file and stores the run.

With --ensemble N the model is integrated N times from initial states
perturbed by up to --spread; ensemble runs are summarized, not stored.`,
		Example: `  dynsym run pendulum --preset large
  dynsym run double_pendulum --init theta1=2,theta2=2 --time 30
  dynsym run ./models/oscillator.yaml --set w=3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.build(cmd, args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			exp := experiment.New(cfg,
				experiment.WithLogger(a.logger),
				experiment.WithRegistry(a.registry()),
			)
			if err := exp.Setup(); err != nil {
				return err
			}

			if ensemble > 0 {
				return runEnsemble(ctx, cmd, exp, ensemble, spread, workers)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "running %s simulation...\n", exp.Model().Name)
			start := time.Now()

			result, runErr := exp.Run(ctx)
			if result == nil {
				return runErr
			}
			elapsed := time.Since(start)
			for _, e := range result.Errors {
				a.logger.Warn("run stopped early", zap.Error(e))
			}

			if !noSave {
				st, err := a.store()
				if err != nil {
					return err
				}
				runID, err := st.Save(exp.Metadata(), result)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "run id: %s\n", runID)
			}

			fmt.Fprintf(out, "completed in %v\n", elapsed.Round(time.Microsecond))
			fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
			if len(result.Errors) > 0 {
				fmt.Fprintf(out, "stopped early: %v\n", result.Errors[0])
			}
			printMetrics(out, result.Metrics)
			return runErr
		},
	}

	f.register(cmd)
	cmd.Flags().IntVar(&ensemble, "ensemble", 0, "number of perturbed runs")
	cmd.Flags().Float64Var(&spread, "spread", 0.01, "initial state perturbation for --ensemble")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel ensemble workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func printMetrics(out io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, metrics[name])
	}
}

func runEnsemble(ctx context.Context, cmd *cobra.Command, exp *experiment.Experiment, n int, spread float64, workers int) error {
	results, err := exp.RunEnsemble(ctx, n, spread, workers)
	if err != nil {
		return err
	}

	names := exp.System().StateNames()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	header := []string{"RUN", "STEPS", "DRIFT"}
	for _, name := range names {
		header = append(header, strings.ToUpper(name))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for i, r := range results {
		row := []string{strconv.Itoa(i), strconv.Itoa(r.StepsTaken), fmt.Sprintf("%.2e", r.EnergyDrift)}
		for _, v := range r.Final() {
			row = append(row, fmt.Sprintf("%.4f", v))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}
