package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vocabscan/internal/preprocess"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "presets",
		Short:       "List preprocessing presets",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(preprocess.PresetNames()))
			for _, name := range preprocess.PresetNames() {
				cfg, _ := preprocess.Preset(name)
				if !cfg.EnablePreprocessing {
					rows = append(rows, []string{name, "-", "-", "-", "-", "-", "disabled"})
					continue
				}
				rows = append(rows, []string{
					name,
					fmt.Sprintf("%dx%d", cfg.MaxWidth, cfg.MaxHeight),
					formatFactor(cfg.EnableContrast, cfg.ContrastFactor),
					formatFactor(cfg.EnableNoiseReduction, cfg.NoiseReductionRadius),
					formatFactor(cfg.EnableSharpening, cfg.SharpeningFactor),
					string(cfg.OutputFormat) + " q" + strconv.Itoa(cfg.JPEGQuality),
					"enabled",
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Preset", "Max size", "Contrast", "Denoise", "Sharpen", "Encode", "Pipeline"},
				rows,
				nil,
			))
			return nil
		},
	}
}

func formatFactor(enabled bool, value float64) string {
	if !enabled {
		return "-"
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}
