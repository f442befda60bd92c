package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"payregister/internal/domain/payroll"
)

func newGenerateCmd() *cobra.Command {
	var opts payroll.GenerateOptions
	var dir string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic payroll, time and benefits files",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Rows <= 0 {
				return withCode(exitUsage, fmt.Errorf("--rows must be positive"))
			}
			if opts.MatchRatio < 0 || opts.MatchRatio > 1 {
				return withCode(exitUsage, fmt.Errorf("--match-ratio must be between 0 and 1"))
			}
			paths, err := payroll.WriteDataset(dir, payroll.Generate(opts))
			if err != nil {
				return withCode(exitOutput, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d employees (seed %d)\n", opts.Rows, opts.Seed)
			fmt.Fprintln(out, paths.Payroll)
			fmt.Fprintln(out, paths.Time)
			fmt.Fprintln(out, paths.Benefits)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Rows, "rows", 1000, "Number of employees")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 42, "Random seed")
	cmd.Flags().Float64Var(&opts.MatchRatio, "match-ratio", 0.9, "Share of employees present in all three files")
	cmd.Flags().StringVar(&dir, "dir", ".", "Output directory")
	return cmd
}
