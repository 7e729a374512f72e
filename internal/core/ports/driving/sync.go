package driving

import (
	"context"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// PermitSync runs the permit synchronisation pipeline.
type PermitSync interface {
	// Sync ingests the export at ref and returns the finalized run.
	// On a fatal failure the run is returned FAILED alongside the error.
	Sync(ctx context.Context, ref string) (*domain.SyncRun, error)

	// Status returns the state of the current run.
	Status(ctx context.Context) (*SyncStatus, error)
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// RunID identifies the in-flight run. Empty when idle.
	RunID string

	// SourceRef is the export being ingested.
	SourceRef string

	// Running indicates if sync is currently in progress.
	Running bool

	// Counters is a snapshot of the in-flight record accounting.
	Counters domain.RunCounters
}
