package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/dynsym/internal/config"
	"github.com/san-kum/dynsym/internal/models"
)

func loadModelFile(path string) (*models.Model, error) {
	return models.Load(path)
}

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models [MODEL]",
		Short: "list models, or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.registry()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MODEL\tSTATES\tDESCRIPTION")
				for _, name := range reg.ListModels() {
					m, err := reg.GetModel(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(m.States), m.Description)
				}
				return w.Flush()
			}

			m, err := reg.GetModel(args[0])
			if err != nil {
				return err
			}
			sys, err := m.System()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s: %s\n\n", m.Name, m.Description)
			rhs := sys.RHS()
			for i, x := range sys.States() {
				fmt.Fprintf(out, "  d/dt %s = %s\n", x, rhs[i])
			}
			if e := sys.EnergyExpr(); e != nil {
				fmt.Fprintf(out, "\n  energy = %s\n", e)
			}
			fmt.Fprintf(out, "\nspecified: %s\n", joinOrNone(sys.ControlNames()))
			consts := sys.ConstantValues()
			parts := make([]string, 0, len(consts))
			for _, name := range sys.ConstantNames() {
				if v, ok := consts[name]; ok {
					parts = append(parts, fmt.Sprintf("%s=%g", name, v))
				} else {
					parts = append(parts, name+"=?")
				}
			}
			fmt.Fprintf(out, "constants: %s\n", joinOrNone(parts))
			if presets := config.ListPresets(m.Name); len(presets) > 0 {
				fmt.Fprintf(out, "presets:   %s\n", strings.Join(presets, ", "))
			}
			return nil
		},
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets MODEL",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, name := range presets {
				p := config.GetPreset(args[0], name)
				ctrl := p.Controller
				if ctrl == "" {
					ctrl = "none"
				}
				fmt.Fprintf(out, "  %-14s %s, %s, %gs\n", name, p.Integrator, ctrl, p.Duration)
			}
			return nil
		},
	}
}
