package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var intervalFlag int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescan the input directory on a fixed interval",
		Long: `Repeat batch passes over the input directory until interrupted.
The process is idle between passes; SIGINT or SIGTERM stops it at the next
image boundary with the ledger persisted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			env, err := newRuntime(signalCtx, ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			interval := time.Duration(env.cfg.Watch.IntervalSeconds) * time.Second
			if intervalFlag > 0 {
				interval = time.Duration(intervalFlag) * time.Second
			}
			return env.runner.Watch(signalCtx, interval)
		},
	}

	cmd.Flags().IntVarP(&intervalFlag, "interval", "i", 0, "Seconds between rescans (overrides config)")
	return cmd
}
