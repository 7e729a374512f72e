package driving

import (
	"context"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// HistoryService answers questions about past runs and detected changes.
type HistoryService interface {
	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, id string) (*domain.SyncRun, error)

	// Changes returns the change log of one permit revision.
	Changes(ctx context.Context, key domain.NaturalKey) ([]domain.PermitChange, error)

	// RunChanges returns the changes detected by one run.
	RunChanges(ctx context.Context, runID string) ([]domain.PermitChange, error)
}
