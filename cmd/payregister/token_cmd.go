package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"payregister/internal/auth"
)

func newTokenCmd() *cobra.Command {
	var subject string
	var scopes []string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API, signed with JWT_SECRET",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				return withCode(exitUsage, fmt.Errorf("--ttl must be positive"))
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return withCode(exitConfig, fmt.Errorf("JWT_SECRET is not set"))
			}
			token, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: subject, Scopes: scopes}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "Token subject")
	cmd.Flags().StringSliceVar(&scopes, "scope", auth.DefaultScopes, "Granted scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
