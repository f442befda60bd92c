package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"payregister/internal/app/server"
	"payregister/internal/domain/payroll"
	cryptoutil "payregister/internal/platform/crypto"
	"payregister/internal/platform/metrics"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve register computations over HTTP",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return withCode(exitConfig, err)
			}
			crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
			if err != nil {
				return withCode(exitConfig, err)
			}

			cfg.ApplyTo(logrus.StandardLogger())
			logger := cfg.Logger()
			collector := metrics.New()
			svc := payroll.NewService(payroll.NewFileStore(), payroll.NewPayslipStore(crypto), logger, collector)
			return server.New(cfg, logger, svc, collector).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $APP_ADDR or :8080)")
	return cmd
}
