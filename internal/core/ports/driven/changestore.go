package driven

import (
	"context"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// ChangeStore is the append-only change log.
type ChangeStore interface {
	// Append records field changes. An empty slice is a no-op.
	Append(ctx context.Context, changes []domain.PermitChange) error

	// ListByKey returns the changes of one permit revision, oldest first.
	ListByKey(ctx context.Context, key domain.NaturalKey) ([]domain.PermitChange, error)

	// ListByRun returns the changes detected by one sync run, oldest first.
	ListByRun(ctx context.Context, runID string) ([]domain.PermitChange, error)
}
