package driven

import (
	"context"
	"time"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// PermitStore persists canonical permits keyed by natural key.
// Every mutation is an atomic per-record operation; runs are not transactional.
type PermitStore interface {
	// GetHash returns the stored content hash for a key.
	// Returns domain.ErrNotFound if the permit has never been stored.
	GetHash(ctx context.Context, key domain.NaturalKey) (string, error)

	// Get retrieves the stored permit, bookkeeping fields included.
	// Returns domain.ErrNotFound if the permit has never been stored.
	Get(ctx context.Context, key domain.NaturalKey) (*domain.Permit, error)

	// Upsert stores or replaces a permit with its content hash.
	// first_seen_at is set on insert only; last_seen_at is set to seenAt.
	Upsert(ctx context.Context, permit *domain.Permit, hash string, seenAt time.Time) error

	// Touch updates last_seen_at for an unchanged permit.
	Touch(ctx context.Context, key domain.NaturalKey, seenAt time.Time) error

	// Count returns the number of stored permits.
	Count(ctx context.Context) (int, error)
}
