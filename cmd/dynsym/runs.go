package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tCTRL\tSTEPS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%d\n",
					run.ID,
					run.Model,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Dt,
					run.Integrator,
					run.Controller,
					run.Steps,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd(a *app) *cobra.Command {
	var (
		width    int
		height   int
		maxPlots int
	)

	cmd := &cobra.Command{
		Use:   "plot RUN_ID",
		Short: "plot run results",
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
			if len(run.States) == 0 {
				return fmt.Errorf("no data to plot")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s\n", run.Meta.ID)
			fmt.Fprintf(out, "model: %s\n", run.Meta.Model)
			fmt.Fprintf(out, "samples: %d\n\n", len(run.States))

			names := run.Meta.StateNames
			n := min(len(names), maxPlots)
			for i := 0; i < n; i++ {
				data := make([]float64, len(run.States))
				for j, s := range run.States {
					data[j] = s[i]
				}
				graph := asciigraph.Plot(data,
					asciigraph.Height(height),
					asciigraph.Width(width),
					asciigraph.Caption(names[i]+" vs time"),
				)
				fmt.Fprintln(out, graph)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	cmd.Flags().IntVar(&maxPlots, "max", 6, "maximum number of plotted states")
	return cmd
}

// output opens path for writing, or returns w when path is empty.
func output(path string, w io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newExportCSVCmd(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export-csv RUN_ID",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			w, closeFn, err := output(outPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := st.ExportCSV(w, args[0]); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newExportJSONCmd(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export-json RUN_ID",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			w, closeFn, err := output(outPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := st.ExportJSON(w, args[0]); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN_ID...",
		Short: "delete stored runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := st.Delete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}
}
