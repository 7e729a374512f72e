package driven

import "github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"

// ChangeDetector fingerprints raw records and diffs canonical ones.
type ChangeDetector interface {
	// Hash returns a deterministic hex digest of the raw record,
	// independent of key order.
	Hash(raw domain.RawPermit) (string, error)

	// Diff returns one change per differing non-bookkeeping field.
	// The returned changes carry only Field, OldValue and NewValue.
	Diff(old, updated *domain.Permit) []domain.PermitChange
}
