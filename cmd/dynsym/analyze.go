package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/dynsym/internal/analysis"
	"github.com/san-kum/dynsym/internal/experiment"
	"github.com/san-kum/dynsym/internal/integrators"
	"github.com/san-kum/dynsym/internal/optim"
	"github.com/san-kum/dynsym/internal/storage"
)

// column returns the recorded samples of the named state.
func column(run *storage.Run, name string) ([]float64, error) {
	for i, n := range run.Meta.StateNames {
		if n == name {
			out := make([]float64, len(run.States))
			for j, s := range run.States {
				out[j] = s[i]
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("run %s has no state %q (states: %s)", run.Meta.ID, name, strings.Join(run.Meta.StateNames, ", "))
}

// sampleSpacing is the mean time between recorded samples.
func sampleSpacing(run *storage.Run) float64 {
	n := len(run.Times)
	if n < 2 {
		return run.Meta.Dt
	}
	return (run.Times[n-1] - run.Times[0]) / float64(n-1)
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze RUN_ID",
		Short: "spectral summary of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			run, err := st.LoadRun(args[0])
			if err != nil {
				return err
			}
			dt := sampleSpacing(run)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STATE\tMIN\tMAX\tFREQ\tPERIOD")
			for _, name := range run.Meta.StateNames {
				data, err := column(run, name)
				if err != nil {
					return err
				}
				lo, hi := math.Inf(1), math.Inf(-1)
				for _, v := range data {
					lo, hi = math.Min(lo, v), math.Max(hi, v)
				}
				freq, err := analysis.DominantFrequency(data, dt)
				if err != nil {
					return err
				}
				period := "-"
				if freq > 0 {
					period = fmt.Sprintf("%.4f", 1/freq)
				}
				fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%s\n", name, lo, hi, freq, period)
			}
			return w.Flush()
		},
	}
}

func newPhaseCmd(a *app) *cobra.Command {
	var (
		xName     string
		yName     string
		section   string
		threshold float64
		width     int
		height    int
		svgPath   string
	)

	cmd := &cobra.Command{
		Use:   "phase RUN_ID",
		Short: "phase portrait or Poincaré section of a stored run",
		Long: `phase scatters two states of a stored run against each other.

With --section NAME only the points where NAME rises through --at are
drawn. With --svg the points are also written as an SVG path.`,
		Example: `  dynsym phase pendulum_1b2c --x theta --y omega
  dynsym phase duffing_9f3e --x x --y v --section t --at 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			run, err := st.LoadRun(args[0])
			if err != nil {
				return err
			}
			names := run.Meta.StateNames
			if xName == "" && len(names) > 0 {
				xName = names[0]
			}
			if yName == "" && len(names) > 1 {
				yName = names[1]
			}
			xs, err := column(run, xName)
			if err != nil {
				return err
			}
			ys, err := column(run, yName)
			if err != nil {
				return err
			}

			var pts []analysis.Point
			if section != "" {
				cross := run.Times
				if section != "t" {
					if cross, err = column(run, section); err != nil {
						return err
					}
				}
				pts = analysis.Poincare(cross, xs, ys, threshold)
			} else {
				pts = analysis.Portrait(xs, ys)
			}
			if len(pts) == 0 {
				return fmt.Errorf("no points to draw")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s vs %s (%d points)\n", yName, xName, len(pts))
			fmt.Fprint(out, analysis.RenderASCII(pts, width, height))

			if svgPath != "" {
				f, err := os.Create(svgPath)
				if err != nil {
					return err
				}
				if err := analysis.WriteSVG(f, pts, 800, 600, "#00ff00"); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", svgPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&xName, "x", "", "horizontal state (default: first state)")
	cmd.Flags().StringVar(&yName, "y", "", "vertical state (default: second state)")
	cmd.Flags().StringVar(&section, "section", "", "state (or t) whose upward crossings select points")
	cmd.Flags().Float64Var(&threshold, "at", 0, "crossing level for --section")
	cmd.Flags().IntVar(&width, "width", 60, "plot width")
	cmd.Flags().IntVar(&height, "height", 20, "plot height")
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the points to an SVG file")
	return cmd
}

func newLyapunovCmd(a *app) *cobra.Command {
	var (
		f  runFlags
		d0 float64
	)

	cmd := &cobra.Command{
		Use:   "lyapunov MODEL",
		Short: "estimate the largest Lyapunov exponent",
		Long: `lyapunov integrates the model with zero input alongside a companion
trajectory and reports the mean rate at which they separate. A positive
exponent indicates chaos.`,
		Example: `  dynsym lyapunov lorenz --time 100
  dynsym lyapunov double_pendulum --preset chaos`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.build(cmd, args[0])
			if err != nil {
				return err
			}
			exp := experiment.New(cfg,
				experiment.WithLogger(a.logger),
				experiment.WithRegistry(a.registry()),
			)
			if err := exp.Setup(); err != nil {
				return err
			}
			integ, err := integrators.ByName(cfg.Integrator)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sys := exp.System()
			lambda, err := analysis.LargestLyapunov(ctx, sys, integ, sys.InitialState(), cfg.Dt, cfg.Duration, d0)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "largest lyapunov exponent: %.4f\n", lambda)
			switch {
			case lambda > 0.01:
				fmt.Fprintln(out, "behavior: chaotic")
			case lambda < -0.01:
				fmt.Fprintln(out, "behavior: converging")
			default:
				fmt.Fprintln(out, "behavior: regular")
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().Float64Var(&d0, "d0", 1e-8, "initial separation")
	return cmd
}

// parseAxis reads name=v1,v2,... into a search axis.
func parseAxis(s string) (optim.Axis, error) {
	name, list, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return optim.Axis{}, fmt.Errorf("--param %q: want name=v1,v2,...", s)
	}
	ax := optim.Axis{Name: name}
	for _, raw := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return optim.Axis{}, fmt.Errorf("--param %s: %q is not a number", name, raw)
		}
		ax.Values = append(ax.Values, v)
	}
	return ax, nil
}

func newTuneCmd(a *app) *cobra.Command {
	var (
		f       runFlags
		params  []string
		metric  string
		workers int
		top     int
	)

	cmd := &cobra.Command{
		Use:   "tune MODEL",
		Short: "grid search controller gains or constants",
		Long: `tune runs the model once per combination of --param values and ranks
the runs by the absolute value of --metric, lowest first. kp, ki, kd and
target set controller parameters; any other name sets a model constant.`,
		Example: `  dynsym tune pendulum --controller pid --param kp=5,10,20 --param kd=1,5
  dynsym tune spring_mass --param c=0,0.5,2,5 --metric deviation`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(params) == 0 {
				return fmt.Errorf("at least one --param is required")
			}
			cfg, err := f.build(cmd, args[0])
			if err != nil {
				return err
			}
			axes := make([]optim.Axis, 0, len(params))
			for _, p := range params {
				ax, err := parseAxis(p)
				if err != nil {
					return err
				}
				axes = append(axes, ax)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			gs := optim.NewGridSearch(metric, axes...)
			gs.SetWorkers(workers)
			gs.SetLogger(a.logger)
			best, trials, err := gs.Search(ctx, cfg, experiment.WithRegistry(a.registry()))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			header := []string{"RANK"}
			for _, ax := range axes {
				header = append(header, strings.ToUpper(ax.Name))
			}
			header = append(header, strings.ToUpper(metric))
			fmt.Fprintln(w, strings.Join(header, "\t"))
			for i, tr := range trials[:min(top, len(trials))] {
				row := []string{strconv.Itoa(i + 1)}
				for _, ax := range axes {
					row = append(row, strconv.FormatFloat(tr.Params[ax.Name], 'g', -1, 64))
				}
				score := fmt.Sprintf("%.6f", tr.Score)
				if tr.Err != nil {
					score = "failed"
				}
				row = append(row, score)
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			parts := make([]string, 0, len(axes))
			for _, ax := range axes {
				parts = append(parts, fmt.Sprintf("%s=%g", ax.Name, best.Params[ax.Name]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nbest: %s\n", strings.Join(parts, " "))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringArrayVar(&params, "param", nil, "parameter grid, e.g. --param kp=5,10,20")
	cmd.Flags().StringVar(&metric, "metric", "deviation", "metric to minimize")
	cmd.Flags().IntVar(&workers, "workers", 4, "parallel runs")
	cmd.Flags().IntVar(&top, "top", 10, "number of ranked runs to print")
	return cmd
}
