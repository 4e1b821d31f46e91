package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"batchmux/internal/presets"
)

func newPresetsCommand(ctx *commandContext) *cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "Inspect saved scan and track presets",
	}

	presetsCmd.AddCommand(newPresetsListCommand(ctx))
	return presetsCmd
}

func newPresetsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets and mark the favorite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			options, err := presets.Load(cfg.PresetsPath())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(options.Presets))
			for i, preset := range options.Presets {
				name := preset.Name
				if i == options.FavoritePresetID {
					name += " *"
				}
				rows = append(rows, []string{
					name,
					orDash(preset.VideoDirectory),
					strings.Join(preset.VideoExtensions, ","),
					orDash(preset.AudioLanguage),
					orDash(preset.SubtitleLanguage),
					orDash(preset.DestinationDirectory),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Video Dir", "Video Ext", "Audio Lang", "Subtitle Lang", "Destination"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}
}
