package domain

import "time"

// PermitChange is one changed field of one permit revision, as detected
// by a sync run. Nil values mean the field was absent on that side.
// Changes are appended to the log and never mutated.
type PermitChange struct {
	// ID is the unique identifier for the change row.
	ID string

	// RunID links to the SyncRun that detected the change.
	RunID string

	// PermitNum and RevisionNum form the natural key.
	PermitNum   string
	RevisionNum string

	// Field is the canonical field name.
	Field string

	// OldValue and NewValue are the stringified values.
	OldValue *string
	NewValue *string

	// DetectedAt is when the change was recorded.
	DetectedAt time.Time
}

// Key returns the natural key of the changed permit.
func (c *PermitChange) Key() NaturalKey {
	return NaturalKey{PermitNum: c.PermitNum, RevisionNum: c.RevisionNum}
}
