package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/dynsym/internal/automation"
)

func newScenarioCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario FILE",
		Short: "run a scripted sequence of simulations",
		Long: `scenario runs the steps of a YAML scenario file in order. Each step is a
run config with an optional name, preset and save flag:

  name: pendulum study
  steps:
    - name: small swing
      model: pendulum
      preset: small
      save: true
    - model: pendulum
      controller: pid
      duration: 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			st, err := a.store()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			runner := automation.NewRunner(a.registry(), automation.WithStore(st), automation.WithLogger(a.logger))
			results, runErr := runner.RunScenario(ctx, sc)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tMODEL\tSTEPS\tDRIFT\tRUN ID")
			for _, r := range results {
				id := r.RunID
				if id == "" {
					id = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%.2e\t%s\n", r.Name, r.Config.Model, r.Result.StepsTaken, r.Result.EnergyDrift, id)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return runErr
		},
	}
}

func newSweepCmd(a *app) *cobra.Command {
	var (
		f     runFlags
		param string
		from  float64
		to    float64
		steps int
	)

	cmd := &cobra.Command{
		Use:   "sweep MODEL",
		Short: "vary one parameter across a range",
		Long: `sweep runs the model once per value of --param, spaced evenly from
--from to --to, and prints the final state and energy range of each run.`,
		Example: `  dynsym sweep pendulum --param b --from 0 --to 1 --steps 5
  dynsym sweep spring_mass --param kp --controller pid --from 1 --to 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.build(cmd, args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			runner := automation.NewRunner(a.registry(), automation.WithLogger(a.logger))
			points, err := runner.RunSweep(ctx, cfg, automation.Sweep{Param: param, Min: from, Max: to, Steps: steps})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tFINAL\tMIN E\tMAX E\n", strings.ToUpper(param))
			for _, p := range points {
				if p.Err != nil {
					fmt.Fprintf(w, "%.4g\tfailed: %v\t\t\n", p.Value, p.Err)
					continue
				}
				final := make([]string, len(p.Final))
				for i, v := range p.Final {
					final[i] = fmt.Sprintf("%.4f", v)
				}
				fmt.Fprintf(w, "%.4g\t[%s]\t%s\t%s\n", p.Value, strings.Join(final, " "), energyCell(p.MinEnergy), energyCell(p.MaxEnergy))
			}
			return w.Flush()
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&param, "param", "", "parameter to vary (kp, ki, kd, target or a constant)")
	cmd.Flags().Float64Var(&from, "from", 0, "first value")
	cmd.Flags().Float64Var(&to, "to", 1, "last value")
	cmd.Flags().IntVar(&steps, "steps", 5, "number of runs")
	_ = cmd.MarkFlagRequired("param")
	return cmd
}

func energyCell(e float64) string {
	if math.IsNaN(e) {
		return "-"
	}
	return fmt.Sprintf("%.4f", e)
}
