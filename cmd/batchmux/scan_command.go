package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"batchmux/internal/mediakit"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan media directories and list what was found",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := buildCatalog(cmd.Context(), cfg, ctx.loggerValue(), flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			videos := store.Videos()
			rows := make([][]string, 0, len(videos))
			for _, v := range videos {
				rows = append(rows, []string{
					v.Name,
					orDash(v.Duration),
					formatFPS(v.FPS),
					strconv.Itoa(len(v.Tracks)),
					formatSize(v.Size),
				})
			}
			fmt.Fprintf(out, "Videos (%d)\n", len(videos))
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Duration", "FPS", "Tracks", "Size"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight}))
			}

			for _, kind := range mediakit.ExternalKinds {
				files := store.ExternalsOfKind(kind)
				if len(files) == 0 {
					continue
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					rows = append(rows, []string{
						f.Name,
						orDash(f.Language),
						orDash(f.Duration),
						formatSize(f.Size),
					})
				}
				fmt.Fprintf(out, "\n%s files (%d)\n", kindTitle(kind), len(files))
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Language", "Duration", "Size"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func formatFPS(fps float64) string {
	if fps == 0 {
		return "-"
	}
	return strconv.FormatFloat(fps, 'f', 3, 64)
}

func kindTitle(kind mediakit.FileKind) string {
	switch kind {
	case mediakit.FileAudio:
		return "Audio"
	case mediakit.FileSubtitle:
		return "Subtitle"
	case mediakit.FileChapter:
		return "Chapter"
	case mediakit.FileAttachment:
		return "Attachment"
	default:
		return string(kind)
	}
}
