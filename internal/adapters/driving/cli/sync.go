package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driving"
	"github.com/jasonbrettpreston/buildo-sub002/internal/logger"
)

// progressInterval is how often the sync command polls run status.
var progressInterval = 500 * time.Millisecond

var syncCmd = &cobra.Command{
	Use:   "sync <export.json>",
	Short: "Synchronise a permit export into the record store",
	Long: `Ingests a bulk permit export (a JSON array of permit records) in batches.

Each record is classified as new, updated or unchanged against the store.
Changed fields are written to the change log. Interrupting the command stops
the run at the next batch boundary and marks it failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if permitSync == nil {
		return fmt.Errorf("sync: %w", errNotConfigured)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ref := args[0]
	cmd.Printf("Synchronising %s...\n", ref)
	logger.Section("Sync")

	run, err := syncWithProgress(ctx, cmd, permitSync, ref)
	if run != nil {
		printRunSummary(cmd, run)
	}
	if afterSync != nil {
		if flushErr := afterSync(); flushErr != nil {
			logger.Warn("Post-sync hook failed: %v", flushErr)
		}
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

// syncWithProgress runs sync while displaying progress updates.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	syncer driving.PermitSync,
	ref string,
) (*domain.SyncRun, error) {
	type result struct {
		run *domain.SyncRun
		err error
	}

	// Start sync in goroutine
	done := make(chan result, 1)
	go func() {
		run, err := syncer.Sync(ctx, ref)
		done <- result{run: run, err: err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	lastTotal := 0
	for {
		select {
		case r := <-done:
			if lastTotal > 0 {
				cmd.Println()
			}
			return r.run, r.err
		case <-ticker.C:
			// Best effort; a status error only skips this tick.
			status, statusErr := syncer.Status(ctx)
			if statusErr != nil || status == nil || !status.Running {
				continue
			}
			if c := status.Counters; c.Total > lastTotal {
				cmd.Printf("\rProcessing... %d records (%d new, %d updated, %d errors)",
					c.Total, c.New, c.Updated, c.Errors)
				lastTotal = c.Total
			}
		}
	}
}

func printRunSummary(cmd *cobra.Command, run *domain.SyncRun) {
	c := run.Counters
	cmd.Printf("Run %s %s: %d records (%d new, %d updated, %d unchanged, %d errors)\n",
		run.ID, run.Status, c.Total, c.New, c.Updated, c.Unchanged, c.Errors)
	if run.ErrorMessage != "" {
		cmd.Printf("Error: %s\n", run.ErrorMessage)
	}
}
