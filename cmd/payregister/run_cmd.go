package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"payregister/internal/domain/payroll"
	"payregister/internal/platform/config"
	cryptoutil "payregister/internal/platform/crypto"
	"payregister/internal/platform/metrics"
)

type runFlags struct {
	payroll     string
	time        string
	benefits    string
	output      string
	strategy    string
	format      string
	payslipsDir string
	metricsFile string
}

func bindRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVar(&f.payroll, "payroll", "", "Payroll input file (default $PAYROLL_FILE or payroll_data.csv)")
	cmd.Flags().StringVar(&f.time, "time", "", "Time input file (default $TIME_FILE or time_data.csv)")
	cmd.Flags().StringVar(&f.benefits, "benefits", "", "Benefits input file (default $BENEFITS_FILE or benefits.csv)")
	cmd.Flags().StringVar(&f.output, "output", "", "Register output file (default $OUTPUT_FILE or payroll_register.csv)")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "Join strategy: hash or merge")
	cmd.Flags().StringVar(&f.format, "format", "", "Register format: csv, xlsx or json")
	cmd.Flags().StringVar(&f.payslipsDir, "payslips-dir", "", "Write one PDF payslip per row into this directory")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the payroll register from the three input files",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, flags)
		},
	}
	bindRunFlags(cmd, &flags)
	return cmd
}

// apply overrides cfg with the flags the user actually set.
func (f runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string, value string) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	set("payroll", &cfg.PayrollFile, f.payroll)
	set("time", &cfg.TimeFile, f.time)
	set("benefits", &cfg.BenefitsFile, f.benefits)
	set("output", &cfg.OutputFile, f.output)
	set("strategy", &cfg.Strategy, f.strategy)
	set("format", &cfg.OutputFormat, f.format)
	set("payslips-dir", &cfg.PayslipsDir, f.payslipsDir)
	set("metrics-file", &cfg.MetricsFile, f.metricsFile)
}

func (f runFlags) validate(cmd *cobra.Command) error {
	if cmd.Flags().Changed("strategy") && !slices.Contains(payroll.Strategies, f.strategy) {
		return fmt.Errorf("invalid --strategy %q: must be one of %s", f.strategy, strings.Join(payroll.Strategies, ", "))
	}
	if cmd.Flags().Changed("format") && !slices.Contains(payroll.Formats, f.format) {
		return fmt.Errorf("invalid --format %q: must be one of %s", f.format, strings.Join(payroll.Formats, ", "))
	}
	return nil
}

func loadConfig() (config.Config, error) {
	if _, err := config.LoadEnv(config.DefaultEnvFiles); err != nil {
		return config.Config{}, withCode(exitConfig, fmt.Errorf("load env files: %w", err))
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, withCode(exitConfig, err)
	}
	return cfg, nil
}

func runRegister(cmd *cobra.Command, flags runFlags) error {
	if err := flags.validate(cmd); err != nil {
		return withCode(exitUsage, err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return withCode(exitConfig, err)
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return withCode(exitConfig, err)
	}
	cfg.ApplyTo(logrus.StandardLogger())
	collector := metrics.New()
	svc := payroll.NewService(payroll.NewFileStore(), payroll.NewPayslipStore(crypto), cfg.Logger(), collector)

	result, err := svc.Run(cmd.Context(), payroll.RunOptions{
		Inputs: payroll.Paths{
			Payroll:  cfg.PayrollFile,
			Time:     cfg.TimeFile,
			Benefits: cfg.BenefitsFile,
		},
		Output:      cfg.OutputFile,
		Strategy:    cfg.Strategy,
		Format:      cfg.OutputFormat,
		PayslipsDir: cfg.PayslipsDir,
	})
	if err != nil {
		return classify(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Time to read input files: %v\n", result.Timings.Read)
	fmt.Fprintf(out, "Time to compute pay register: %v\n", result.Timings.Compute)
	fmt.Fprintf(out, "Computed %d register records.\n", len(result.Rows))
	fmt.Fprintf(out, "Time to write output file: %v\n", result.Timings.Write)
	fmt.Fprintf(out, "Total elapsed time: %v\n", result.Timings.Total)
	fmt.Fprintf(out, "Pay register computed and saved to %s\n", cfg.OutputFile)
	if len(result.Payslips) > 0 {
		fmt.Fprintf(out, "Wrote %d payslips to %s\n", len(result.Payslips), cfg.PayslipsDir)
	}

	if cfg.MetricsFile != "" {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			return withCode(exitOutput, fmt.Errorf("write metrics file: %w", err))
		}
	}
	return nil
}
