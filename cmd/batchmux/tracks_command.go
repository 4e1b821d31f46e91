package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"batchmux/internal/aggregate"
	"batchmux/internal/mediakit"
	"batchmux/internal/services"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Show the aggregate track view across all scanned videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			kind, err := trackKindFromFlag(kindFlag)
			if err != nil {
				return err
			}
			store, err := buildCatalog(cmd.Context(), cfg, ctx.loggerValue(), flags)
			if err != nil {
				return err
			}

			videos := store.Videos()
			rows := aggregate.Rows(videos, kind)
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No %s tracks found across %d videos\n", kindFlag, len(videos))
				return nil
			}

			tableRows := make([][]string, 0, len(rows))
			for _, row := range rows {
				name := row.Name
				if row.NameDivergent {
					name = "(varies)"
				}
				tableRows = append(tableRows, []string{
					strconv.Itoa(row.Position + 1),
					orDash(name),
					orDash(row.Language),
					yesNo(row.Default),
					yesNo(row.Forced),
					yesNo(row.Copy),
					fmt.Sprintf("%d/%d", row.Contributors, len(videos)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Name", "Language", "Default", "Forced", "Copy", "Videos"},
				tableRows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&kindFlag, "kind", "audio", "Track kind to aggregate (audio or subtitle)")
	return cmd
}

func trackKindFromFlag(value string) (mediakit.TrackKind, error) {
	switch value {
	case "audio":
		return mediakit.TrackAudio, nil
	case "subtitle", "subtitles":
		return mediakit.TrackSubtitle, nil
	default:
		return "", services.Wrap(services.ErrValidation, "tracks", "kind",
			fmt.Sprintf("unsupported track kind %q (use audio or subtitle)", value), nil)
	}
}
