package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Show how external files pair with videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := buildCatalog(cmd.Context(), cfg, ctx.loggerValue(), flags)
			if err != nil {
				return err
			}

			videos := store.Videos()
			externals := store.Externals()
			result := store.Resolve()

			byExternal := make(map[string]int, len(result.Assignments))
			for i, a := range result.Assignments {
				byExternal[a.ExternalID] = i
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(externals))
			for _, ext := range externals {
				idx, ok := byExternal[ext.ID]
				if !ok {
					continue
				}
				a := result.Assignments[idx]
				method := "name"
				score := strconv.Itoa(a.Score)
				if a.Positional {
					method = "position"
					score = "-"
				}
				rows = append(rows, []string{
					ext.Name,
					string(ext.Kind),
					videoName(videos, a.VideoID),
					method,
					score,
				})
			}
			fmt.Fprintf(out, "Matched (%d)\n", len(rows))
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"External", "Kind", "Video", "Method", "Score"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight}))
			}

			if len(result.Unmatched) > 0 {
				fmt.Fprintf(out, "\nUnmatched (%d)\n", len(result.Unmatched))
				unmatchedRows := make([][]string, 0, len(result.Unmatched))
				for _, ext := range store.Unmatched() {
					unmatchedRows = append(unmatchedRows, []string{ext.Name, string(ext.Kind)})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"External", "Kind"},
					unmatchedRows,
					[]columnAlignment{alignLeft, alignLeft}))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
