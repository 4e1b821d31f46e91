package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"batchmux/internal/queue"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage the mux job ledger",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsHealthCommand(ctx))
	jobsCmd.AddCommand(newJobsStopCommand(ctx))
	jobsCmd.AddCommand(newJobsClearCommand(ctx))
	return jobsCmd
}

func withLedger(ctx *commandContext, fn func(*queue.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(ctx, func(store *queue.Store) error {
				var statuses []queue.Status
				if statusFlag != "" {
					statuses = append(statuses, queue.Status(statusFlag))
				}
				items, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No jobs recorded")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					detail := item.OutputPath
					if item.Message != "" {
						detail = item.Message
					}
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.JobID,
						string(item.Status),
						fmt.Sprintf("%.0f%%", item.ProgressPercent),
						formatSize(item.OutputSize),
						detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Job", "Status", "Progress", "Size", "Detail"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Only list rows with this status")
	return cmd
}

func newJobsHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Summarize ledger row counts per status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(ctx, func(store *queue.Store) error {
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total:      %d\n", health.Total)
				fmt.Fprintf(out, "Queued:     %d\n", health.Queued)
				fmt.Fprintf(out, "Processing: %d\n", health.Processing)
				fmt.Fprintf(out, "Completed:  %d\n", health.Completed)
				fmt.Fprintf(out, "Errored:    %d\n", health.Errored)
				fmt.Fprintf(out, "Stopped:    %d\n", health.Stopped)
				return nil
			})
		},
	}
}

func newJobsStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Mark every queued or processing row stopped",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(ctx, func(store *queue.Store) error {
				stopped, err := store.StopActive(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stopped %d job(s)\n", stopped)
				return nil
			})
		},
	}
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove completed rows from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(ctx, func(store *queue.Store) error {
				var removed int64
				var err error
				if all {
					removed, err = store.Clear(cmd.Context())
				} else {
					removed, err = store.ClearCompleted(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d row(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every row, including errors")
	return cmd
}
