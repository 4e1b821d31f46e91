package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"batchmux/internal/assembly"
	"batchmux/internal/muxer"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var sources sourceFlags
	var settings settingsFlags

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the commands a mux run would execute, without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := buildCatalog(cmd.Context(), cfg, ctx.loggerValue(), sources)
			if err != nil {
				return err
			}

			jobs := assembly.Build(store.Videos(), store.Externals())
			previews := muxer.PreviewJobs(jobs, settings.apply(cmd, cfg))

			out := cmd.OutOrStdout()
			for i, p := range previews {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s\n", p.JobID)
				fmt.Fprintf(out, "  source: %s\n", p.VideoPath)
				if p.OutputPath != "" {
					fmt.Fprintf(out, "  output: %s\n", p.OutputPath)
				}
				if p.FastPath {
					fmt.Fprintln(out, "  mode:   mkvpropedit (in-place metadata edit)")
				}
				fmt.Fprintf(out, "  %s\n", p.CommandLine())
				for _, warning := range p.Warnings {
					fmt.Fprintf(out, "  warning: %s\n", warning)
				}
			}
			fmt.Fprintf(out, "\n%d job(s)\n", len(previews))
			return nil
		},
	}

	sources.register(cmd)
	settings.register(cmd)
	return cmd
}
