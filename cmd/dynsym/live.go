package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/dynsym/internal/experiment"
	"github.com/san-kum/dynsym/internal/integrators"
	"github.com/san-kum/dynsym/internal/tui"
)

func newLiveCmd(a *app) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "live MODEL",
		Short: "run simulation with live visualization",
		Long: `live steps a model in real time in the terminal. Without a controller
the specified inputs are driven from the keyboard.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.build(cmd, args[0])
			if err != nil {
				return err
			}
			// Log lines would tear the alternate screen.
			logger := zap.NewNop()
			if a.verbose {
				logger = a.logger
			}
			exp := experiment.New(cfg,
				experiment.WithLogger(logger),
				experiment.WithRegistry(a.registry()),
			)
			if err := exp.Setup(); err != nil {
				return err
			}
			integ, err := integrators.ByName(cfg.Integrator)
			if err != nil {
				return err
			}

			opts := tui.Options{
				Title:      exp.Model().Name,
				System:     exp.System(),
				Integrator: integ,
				Initial:    exp.System().InitialState(),
				Dt:         cfg.Dt,
				Duration:   cfg.Duration,
			}
			if cfg.Controller != "none" && cfg.Controller != "manual" {
				opts.Controller = exp.Controller()
			}
			return tui.Run(opts)
		},
	}
	f.register(cmd)
	return cmd
}
