package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driving"
	"github.com/jasonbrettpreston/buildo-sub002/internal/logger"
)

// DefaultBatchSize is used when the orchestrator is given a batch size < 1.
const DefaultBatchSize = 500

// Ensure SyncOrchestrator implements the interface.
var _ driving.PermitSync = (*SyncOrchestrator)(nil)

// SyncOrchestrator drives one permit sync run at a time: it streams the
// export in batches, classifies every record as new, updated or unchanged
// against the permit store, records field changes and keeps the run row
// current as batches complete.
type SyncOrchestrator struct {
	source     driven.BatchSource
	normaliser driven.PermitNormaliser
	detector   driven.ChangeDetector
	names      driven.NameNormaliser
	permits    driven.PermitStore
	changes    driven.ChangeStore
	runs       driven.SyncRunStore
	metrics    driven.SyncMetrics
	batchSize  int

	now   func() time.Time
	newID func() string

	// Status tracking
	mu      sync.RWMutex
	current *domain.SyncRun
}

// NewSyncOrchestrator creates a new sync orchestrator.
// metrics is optional; if nil, no instrumentation is recorded.
func NewSyncOrchestrator(
	source driven.BatchSource,
	normaliser driven.PermitNormaliser,
	detector driven.ChangeDetector,
	names driven.NameNormaliser,
	permits driven.PermitStore,
	changes driven.ChangeStore,
	runs driven.SyncRunStore,
	metrics driven.SyncMetrics,
	batchSize int,
) *SyncOrchestrator {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &SyncOrchestrator{
		source:     source,
		normaliser: normaliser,
		detector:   detector,
		names:      names,
		permits:    permits,
		changes:    changes,
		runs:       runs,
		metrics:    metrics,
		batchSize:  batchSize,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// Sync ingests the export at ref and returns the finalized run.
//
// Per-record failures are counted and never abort the run. A fatal failure
// (unreadable or malformed export, lost store connection, cancellation)
// finalizes the run FAILED and is returned together with the run.
func (o *SyncOrchestrator) Sync(ctx context.Context, ref string) (*domain.SyncRun, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: export reference is required", domain.ErrInvalidInput)
	}

	// The run is started before it is published to Status.
	run := domain.NewSyncRun(o.newID(), ref)
	if err := run.Start(o.now()); err != nil {
		return nil, err
	}
	if err := o.begin(run); err != nil {
		return nil, err
	}
	defer o.end()

	if err := o.runs.Create(ctx, run.Clone()); err != nil {
		return nil, fmt.Errorf("create sync run: %w", err)
	}

	logger.Info("Starting sync run %s for %s (batch size %d)", run.ID, ref, o.batchSize)

	total, err := o.source.Ingest(ctx, ref, o.batchSize, func(ctx context.Context, batch []domain.RawElement) error {
		return o.processBatch(ctx, run, batch)
	})

	// The run row is finalized even when the caller has gone away.
	finishCtx := context.WithoutCancel(ctx)
	if err != nil {
		return o.fail(finishCtx, run, err)
	}

	o.mu.Lock()
	completeErr := run.Complete(o.now())
	final := run.Clone()
	o.mu.Unlock()
	if completeErr != nil {
		return final, completeErr
	}

	if total != final.Counters.Total {
		logger.Warn("Run %s: ingested %d records but accounted for %d", run.ID, total, final.Counters.Total)
	}
	if err := o.runs.Update(finishCtx, final); err != nil {
		return final, fmt.Errorf("finalize sync run: %w", err)
	}
	o.observeRun(final)

	c := final.Counters
	logger.Info("Sync run %s complete: %d records (%d new, %d updated, %d unchanged, %d errors)",
		run.ID, c.Total, c.New, c.Updated, c.Unchanged, c.Errors)
	return final, nil
}

// Status returns the state of the current run.
func (o *SyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.current == nil {
		// Not running - return idle status
		return &driving.SyncStatus{Running: false}, nil
	}

	// Return a copy to avoid race conditions
	return &driving.SyncStatus{
		RunID:     o.current.ID,
		SourceRef: o.current.SourceRef,
		Running:   !o.current.Status.IsTerminal(),
		Counters:  o.current.Counters,
	}, nil
}

func (o *SyncOrchestrator) begin(run *domain.SyncRun) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		return fmt.Errorf("%w: run %s", domain.ErrSyncInProgress, o.current.ID)
	}
	o.current = run
	return nil
}

func (o *SyncOrchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = nil
}

// fail finalizes run as FAILED and returns cause, joined with any error
// from persisting the failure.
func (o *SyncOrchestrator) fail(ctx context.Context, run *domain.SyncRun, cause error) (*domain.SyncRun, error) {
	o.mu.Lock()
	if err := run.Fail(o.now(), cause); err != nil {
		cause = errors.Join(cause, err)
	}
	final := run.Clone()
	o.mu.Unlock()

	logger.Error("Sync run %s failed: %v", run.ID, cause)

	if err := o.runs.Update(ctx, final); err != nil {
		cause = errors.Join(cause, fmt.Errorf("finalize sync run: %w", err))
	}
	o.observeRun(final)
	return final, cause
}

// processBatch handles every record of one batch, folds the outcomes into
// the run counters and persists the run row. Only a fatal store error
// aborts the batch; the records before it stay counted.
func (o *SyncOrchestrator) processBatch(ctx context.Context, run *domain.SyncRun, batch []domain.RawElement) error {
	started := time.Now()

	// A batch always runs to completion once started.
	ctx = context.WithoutCancel(ctx)
	seenAt := o.now()

	var (
		delta domain.RunCounters
		fatal error
	)
	for i, elem := range batch {
		outcome, label, err := o.processRecord(ctx, run.ID, elem, seenAt)
		if err != nil {
			outcome = domain.OutcomeError
			logger.Debug("Record %s failed: %v", recordLabel(label, run.Counters.Total+i), err)
		}
		delta.Record(outcome)
		o.recordOutcome(outcome)

		if err != nil && domain.IsFatal(err) {
			fatal = fmt.Errorf("record %s: %w", recordLabel(label, run.Counters.Total+i), err)
			break
		}
	}

	o.mu.Lock()
	run.Counters.Add(delta)
	snapshot := run.Clone()
	o.mu.Unlock()

	if fatal != nil {
		return fatal
	}

	if err := o.runs.Update(ctx, snapshot); err != nil {
		return fmt.Errorf("update sync run: %w", err)
	}
	o.observeBatch(len(batch), time.Since(started))
	logger.Debug("Run %s: %d records processed", run.ID, snapshot.Counters.Total)
	return nil
}

// processRecord classifies and persists one export element. The returned
// label is the record's natural key once it is known.
func (o *SyncOrchestrator) processRecord(
	ctx context.Context,
	runID string,
	elem domain.RawElement,
	seenAt time.Time,
) (domain.RecordOutcome, string, error) {
	// 1. DECODE AND MAP
	raw, err := o.normaliser.Decode(elem)
	if err != nil {
		return "", "", fmt.Errorf("decode: %w", err)
	}
	permit, err := o.normaliser.Map(raw)
	if err != nil {
		return "", "", fmt.Errorf("map: %w", err)
	}
	key := permit.Key()
	label := key.String()

	// 2. HASH
	hash, err := o.detector.Hash(raw)
	if err != nil {
		return "", label, fmt.Errorf("hash: %w", err)
	}

	// 3. NORMALISE BUILDER
	o.normaliseBuilder(permit)

	// 4. COMPARE WITH PRIOR STATE
	stored, err := o.permits.GetHash(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := o.permits.Upsert(ctx, permit, hash, seenAt); err != nil {
			return "", label, fmt.Errorf("upsert: %w", err)
		}
		return domain.OutcomeNew, label, nil

	case err != nil:
		return "", label, fmt.Errorf("get hash: %w", err)

	case stored == hash:
		if err := o.permits.Touch(ctx, key, seenAt); err != nil {
			return "", label, fmt.Errorf("touch: %w", err)
		}
		return domain.OutcomeUnchanged, label, nil
	}

	// 5. DIFF, RECORD CHANGES, THEN UPSERT
	old, err := o.permits.Get(ctx, key)
	if err != nil {
		return "", label, fmt.Errorf("get permit: %w", err)
	}
	changes := o.detector.Diff(old, permit)
	for i := range changes {
		changes[i].ID = o.newID()
		changes[i].RunID = runID
		changes[i].PermitNum = key.PermitNum
		changes[i].RevisionNum = key.RevisionNum
		changes[i].DetectedAt = seenAt
	}
	if err := o.changes.Append(ctx, changes); err != nil {
		return "", label, fmt.Errorf("append changes: %w", err)
	}
	if err := o.permits.Upsert(ctx, permit, hash, seenAt); err != nil {
		return "", label, fmt.Errorf("upsert: %w", err)
	}
	return domain.OutcomeUpdated, label, nil
}

// normaliseBuilder derives the builder dedup key and incorporation flag.
func (o *SyncOrchestrator) normaliseBuilder(p *domain.Permit) {
	if p.BuilderName == nil || o.names == nil {
		return
	}
	if key := o.names.Normalize(*p.BuilderName); key != "" {
		p.BuilderKey = &key
	}
	p.BuilderIncorporated = o.names.IsIncorporated(*p.BuilderName)
}

func (o *SyncOrchestrator) recordOutcome(outcome domain.RecordOutcome) {
	if o.metrics != nil {
		o.metrics.RecordOutcome(outcome)
	}
}

func (o *SyncOrchestrator) observeBatch(size int, elapsed time.Duration) {
	if o.metrics != nil {
		o.metrics.BatchProcessed(size, elapsed)
	}
}

func (o *SyncOrchestrator) observeRun(run *domain.SyncRun) {
	if o.metrics != nil {
		o.metrics.RunFinished(run.Status, run.Duration())
	}
}

func recordLabel(label string, index int) string {
	if label != "" {
		return label
	}
	return fmt.Sprintf("#%d", index)
}
