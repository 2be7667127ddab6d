package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/dynsym/internal/dynamics"
	"github.com/san-kum/dynsym/internal/symbolic"
)

func newFindCmd(a *app) *cobra.Command {
	var (
		exclude []string
		timeVar string
		asJSON  bool
		lines   bool
	)

	cmd := &cobra.Command{
		Use:   "find EXPR",
		Short: "print the time-varying quantities of an expression",
		Long: `find prints every undefined function of time, such as x(t), and every
derivative of one, such as diff(x(t), t), that occurs in EXPR.

Expressions use Go syntax: pow(a, b) for powers, diff(e, t, n) for
derivatives, and sin, cos, exp, log and friends for elementary functions.`,
		Example: `  dynsym find "a(t)*diff(a(t), t) + b(t) + k"
  dynsym find "x(s) + y(s)" --time s
  dynsym find "a(t) + diff(a(t), t) + b(t)" --exclude "a(t), b(t)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := symbolic.Parse(args[0])
			if err != nil {
				return err
			}
			var excluded dynamics.List
			for _, flag := range exclude {
				for _, src := range splitTopLevel(flag) {
					e, err := symbolic.Parse(src)
					if err != nil {
						return fmt.Errorf("exclude %q: %w", src, err)
					}
					excluded = append(excluded, e)
				}
			}

			x := dynamics.New(symbolic.S(timeVar))
			found, err := x.Find(expr, excluded)
			if err != nil {
				return err
			}
			a.logger.Debug("extracted quantities",
				zap.String("expr", expr.String()),
				zap.String("time", timeVar),
				zap.Int("found", found.Len()),
			)

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				items := make([]string, 0, found.Len())
				for _, q := range found.Items() {
					items = append(items, q.String())
				}
				enc := json.NewEncoder(out)
				return enc.Encode(items)
			case lines:
				for _, q := range found.Items() {
					fmt.Fprintln(out, q)
				}
			default:
				fmt.Fprintln(out, found)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "quantities to leave out (repeatable or comma separated)")
	cmd.Flags().StringVar(&timeVar, "time", dynamics.TimeName, "name of the time symbol")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	cmd.Flags().BoolVar(&lines, "lines", false, "print one quantity per line")
	return cmd
}

// splitTopLevel splits s on commas outside parentheses, so
// "a(t), diff(b(t), t)" yields two expressions.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])

	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
