package main

import "github.com/spf13/cobra"

func newRootCommand() *cobra.Command {
	var configFlag string
	cmdCtx := newCommandContext(&configFlag)

	root := &cobra.Command{
		Use:           "vocabscan",
		Short:         "Extract vocabulary flashcards from scanned pages",
		Long:          "vocabscan scans a directory of vocabulary page images, extracts word/meaning/example entries with a vision model, and appends them as CSV flashcard rows.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cmdCtx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	root.AddCommand(
		newRunCommand(cmdCtx),
		newWatchCommand(cmdCtx),
		newConfigCommand(cmdCtx),
		newLedgerCommand(cmdCtx),
		newPresetsCommand(),
	)
	return root
}
