package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:           "payregister",
		Short:         "Join payroll, time and benefits files into a payroll register",
		Long:          "Without a subcommand, payregister behaves like \"payregister run\".",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, flags)
		},
	}
	bindRunFlags(cmd, &flags)
	// Subcommands inherit the flag error func from the root.
	cmd.SetFlagErrorFunc(usageFlagError)

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newTokenCmd())
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
