package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/dynsym/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	var (
		require    string
		constraint string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "print the engine version",
		Long: `version prints the engine version. With --require it fails unless the
engine is at least that version; with --satisfies it fails unless the engine
matches a semver constraint such as ">= 0.2, < 1".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if require != "" {
				if err := version.Check(require); err != nil {
					return err
				}
			}
			if constraint != "" {
				ok, err := version.Satisfies(constraint)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("engine %s does not satisfy %q", version.Engine, constraint)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dynsym %s\n", version.Engine)
			return nil
		},
	}
	cmd.Flags().StringVar(&require, "require", "", "minimum engine version")
	cmd.Flags().StringVar(&constraint, "satisfies", "", "semver constraint the engine must satisfy")
	return cmd
}
