package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vocabscan/internal/config"
	"vocabscan/internal/ledger"
	"vocabscan/internal/logging"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and edit the processing ledger",
	}

	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	ledgerCmd.AddCommand(newLedgerRemoveCommand(ctx))
	ledgerCmd.AddCommand(newLedgerClearCommand(ctx))

	return ledgerCmd
}

func loadLedger(ctx *commandContext) (*ledger.Ledger, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	led, err := ledger.Load(cfg.Paths.LedgerPath, logging.NewNop())
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return led, nil
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded image outcomes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := loadLedger(ctx)
			if err != nil {
				return err
			}
			entries := led.Entries()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Ledger is empty")
				return nil
			}

			if file, ok := out.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.ImageID,
						string(entry.Status),
						strconv.Itoa(entry.ContributedCards),
						entry.Timestamp.Local().Format(time.RFC3339),
						entry.Error,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Image", "Status", "Cards", "When", "Error"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			}

			for _, entry := range entries {
				fmt.Fprintf(out, "%s\t%s\t%d\t%s\t%s\n",
					entry.ImageID, entry.Status, entry.ContributedCards,
					entry.Timestamp.Format(time.RFC3339), entry.Error)
			}
			return nil
		},
	}
}

func newLedgerRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <image>",
		Short: "Remove one image's entry, re-enabling its processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := loadLedger(ctx)
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve image path: %w", err)
			}
			if err := led.Remove(path); err != nil {
				return err
			}
			if err := led.Persist(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the ledger\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Reprocessing it may append duplicate rows to the output CSV.")
			return nil
		},
	}
}

func newLedgerClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every ledger entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the ledger without --yes; every image will be reprocessed and may append duplicate rows")
			}
			led, err := loadLedger(ctx)
			if err != nil {
				return err
			}
			count := led.Count()
			led.Clear()
			if err := led.Persist(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d ledger entries\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing the ledger")
	return cmd
}
