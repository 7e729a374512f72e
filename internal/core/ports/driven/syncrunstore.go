package driven

import (
	"context"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// SyncRunStore persists sync run summaries.
type SyncRunStore interface {
	// Create stores a new run.
	Create(ctx context.Context, run *domain.SyncRun) error

	// Update replaces a run's status, counters and timestamps.
	// Returns domain.ErrRunFinalized if the stored run is already terminal.
	Update(ctx context.Context, run *domain.SyncRun) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.SyncRun, error)

	// List returns the most recent runs first. A limit <= 0 returns all runs.
	List(ctx context.Context, limit int) ([]domain.SyncRun, error)
}
