package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"batchmux/internal/assembly"
	"batchmux/internal/muxer"
	"batchmux/internal/queue"
	"batchmux/internal/services"
)

func newMuxCommand(ctx *commandContext) *cobra.Command {
	var sources sourceFlags
	var settings settingsFlags

	cmd := &cobra.Command{
		Use:   "mux",
		Short: "Assemble and run the mux jobs for the scanned media",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// One run at a time; concurrent runs would race on outputs and
			// the ledger.
			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "batchmux.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return services.Wrap(services.ErrValidation, "mux", "lock",
					"another batchmux run is already active", nil)
			}
			defer func() {
				_ = lock.Unlock()
			}()

			logger := ctx.loggerValue()
			store, err := buildCatalog(cmd.Context(), cfg, logger, sources)
			if err != nil {
				return err
			}
			jobs := assembly.Build(store.Videos(), store.Externals())
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to mux")
				return nil
			}

			ledger, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer ledger.Close()

			out := cmd.OutOrStdout()
			tty := stdoutIsTerminal()
			executor := muxer.NewExecutor(settings.apply(cmd, cfg), ledger, logger)
			executor.OnEvent = func(event muxer.Event) {
				switch event.Status {
				case queue.StatusProcessing:
					if event.Progress > 0 && tty {
						fmt.Fprintf(out, "\r%s %3.0f%%", event.JobID, event.Progress)
					}
				case queue.StatusCompleted:
					if tty {
						fmt.Fprint(out, "\r")
					}
					fmt.Fprintf(out, "%s completed\n", event.JobID)
				case queue.StatusError:
					if tty {
						fmt.Fprint(out, "\r")
					}
					fmt.Fprintf(out, "%s failed: %s\n", event.JobID, event.Message)
				}
			}

			results, err := executor.Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(results))
			failures := 0
			for _, result := range results {
				detail := result.OutputPath
				if result.Err != nil {
					failures++
					detail = result.Err.Error()
				}
				rows = append(rows, []string{
					result.JobID,
					string(result.Status),
					formatSize(result.OutputSize),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Job", "Status", "Size", "Result"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
			if failures > 0 {
				return fmt.Errorf("%d of %d job(s) failed", failures, len(results))
			}
			return nil
		},
	}

	sources.register(cmd)
	settings.register(cmd)
	return cmd
}
