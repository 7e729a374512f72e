package domain

import (
	"fmt"
	"time"
)

// RunStatus is the state of a sync run.
type RunStatus string

// Run statuses. A run moves PENDING -> RUNNING -> {COMPLETED, FAILED}.
const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusPending, RunStatusRunning, RunStatusCompleted, RunStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for COMPLETED and FAILED.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// String returns the string representation.
func (s RunStatus) String() string {
	return string(s)
}

// RecordOutcome classifies how a single record was handled.
type RecordOutcome string

// Record outcomes.
const (
	OutcomeNew       RecordOutcome = "new"
	OutcomeUpdated   RecordOutcome = "updated"
	OutcomeUnchanged RecordOutcome = "unchanged"
	OutcomeError     RecordOutcome = "error"
)

// RunCounters are the record accounting of a sync run.
type RunCounters struct {
	Total     int
	New       int
	Updated   int
	Unchanged int
	Errors    int
}

// Record counts one record against the given outcome.
// Any outcome other than new, updated or unchanged counts as an error.
func (c *RunCounters) Record(outcome RecordOutcome) {
	c.Total++
	switch outcome {
	case OutcomeNew:
		c.New++
	case OutcomeUpdated:
		c.Updated++
	case OutcomeUnchanged:
		c.Unchanged++
	default:
		c.Errors++
	}
}

// Add folds other into c.
func (c *RunCounters) Add(other RunCounters) {
	c.Total += other.Total
	c.New += other.New
	c.Updated += other.Updated
	c.Unchanged += other.Unchanged
	c.Errors += other.Errors
}

// Consistent reports whether New + Updated + Unchanged + Errors == Total.
func (c RunCounters) Consistent() bool {
	return c.New+c.Updated+c.Unchanged+c.Errors == c.Total
}

// SyncRun is one execution of the pipeline against one export snapshot.
type SyncRun struct {
	// ID is the unique identifier for the run.
	ID string

	// SourceRef identifies the input snapshot (usually the export path).
	SourceRef string

	// Status is the lifecycle state.
	Status RunStatus

	// StartedAt is when the run entered RUNNING.
	StartedAt time.Time

	// FinishedAt is set when the run is finalized.
	FinishedAt *time.Time

	// Counters hold the record accounting.
	Counters RunCounters

	// ErrorMessage is set when the run FAILED.
	ErrorMessage string
}

// NewSyncRun creates a PENDING run with zeroed counters.
func NewSyncRun(id, sourceRef string) *SyncRun {
	return &SyncRun{
		ID:        id,
		SourceRef: sourceRef,
		Status:    RunStatusPending,
	}
}

// Start moves the run from PENDING to RUNNING.
func (r *SyncRun) Start(now time.Time) error {
	if r.Status != RunStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, RunStatusRunning)
	}
	r.Status = RunStatusRunning
	r.StartedAt = now
	return nil
}

// Complete finalizes a RUNNING run as COMPLETED.
func (r *SyncRun) Complete(now time.Time) error {
	return r.finish(RunStatusCompleted, now, "")
}

// Fail finalizes a RUNNING run as FAILED with the cause's message.
func (r *SyncRun) Fail(now time.Time, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return r.finish(RunStatusFailed, now, msg)
}

func (r *SyncRun) finish(status RunStatus, now time.Time, msg string) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, status)
	}
	r.Status = status
	r.FinishedAt = &now
	r.ErrorMessage = msg
	return nil
}

// Duration returns the elapsed run time, or zero while the run is unfinished.
func (r *SyncRun) Duration() time.Duration {
	if r.FinishedAt == nil || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Clone returns a copy safe to hand to other goroutines.
func (r *SyncRun) Clone() *SyncRun {
	c := *r
	if r.FinishedAt != nil {
		t := *r.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}
