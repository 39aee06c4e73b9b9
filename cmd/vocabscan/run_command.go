package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vocabscan/internal/batch"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run [image]",
		Short: "Process the input directory, or force one image through",
		Long: `Process every unprocessed image in the input directory. With an
explicit image path the image is processed unconditionally, even when the
ledger already records a success for it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			env, err := newRuntime(signalCtx, ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			var summary *batch.Summary
			if len(args) == 1 {
				summary, err = env.runner.RunSingle(signalCtx, args[0])
			} else {
				summary, err = env.runner.RunDirectory(signalCtx)
			}
			if summary != nil {
				printSummary(cmd, summary)
			}
			return err
		},
	}
}

func printSummary(cmd *cobra.Command, summary *batch.Summary) {
	out := cmd.OutOrStdout()
	if file, ok := out.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		rows := [][]string{
			{"Images found", strconv.Itoa(summary.Total)},
			{"Already processed", strconv.Itoa(summary.Skipped)},
			{"Processed this run", strconv.Itoa(summary.Processed)},
			{"Succeeded", strconv.Itoa(summary.Succeeded)},
			{"Failed", strconv.Itoa(summary.Failed)},
			{"Cards written", strconv.Itoa(summary.Cards)},
		}
		fmt.Fprintln(out, renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
		return
	}
	fmt.Fprintln(out, summary.String())
}
