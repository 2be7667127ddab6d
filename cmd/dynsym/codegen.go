package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/dynsym/internal/codegen"
)

func newCodegenCmd(a *app) *cobra.Command {
	var (
		pkg     string
		fn      string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "codegen MODEL",
		Short: "generate a Go right-hand-side function for a model",
		Long: `codegen writes gofmt-formatted Go source for the model's right-hand side:

	func F(x, u, c []float64, t float64, out []float64)

x holds the states, u the specified inputs and c the constants, in the order
listed in the generated doc comment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.registry().GetModel(args[0])
			if err != nil {
				return err
			}
			sys, err := m.System()
			if err != nil {
				return err
			}

			var comments []string
			if m.Description != "" {
				comments = append(comments, m.Description)
			}
			src, err := codegen.GenerateGo(codegen.Source{
				Package:  pkg,
				Func:     fn,
				Model:    m.Name,
				RHS:      sys.RHS(),
				Layout:   sys.Layout(),
				Comments: comments,
			})
			if err != nil {
				return err
			}

			w, closeFn, err := output(outPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if _, err := w.Write(src); err != nil {
				closeFn()
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outPath)
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "model", "package name")
	cmd.Flags().StringVar(&fn, "func", "RHS", "function name")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")
	return cmd
}
