package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

const selectRunColumns = `
	SELECT id, source_ref, status, started_at, finished_at,
		records_total, records_new, records_updated, records_unchanged, records_errors,
		error_message
	FROM sync_runs`

// syncRunStore implements driven.SyncRunStore.
type syncRunStore struct {
	store *Store
}

var _ driven.SyncRunStore = (*syncRunStore)(nil)

// Create stores a new run.
func (s *syncRunStore) Create(ctx context.Context, run *domain.SyncRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	c := run.Counters
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, source_ref, status, started_at, finished_at,
			records_total, records_new, records_updated, records_unchanged, records_errors, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SourceRef, string(run.Status), startedAt(run.StartedAt), nullTime(run.FinishedAt),
		c.Total, c.New, c.Updated, c.Unchanged, c.Errors, errorMessage(run.ErrorMessage))
	if err != nil {
		var cause error = err
		if !isUnavailable(err) {
			if _, getErr := s.Get(ctx, run.ID); getErr == nil {
				cause = fmt.Errorf("%w: run %s already exists", domain.ErrInvalidInput, run.ID)
			}
		}
		return wrapErr("creating sync run", cause)
	}
	return nil
}

// Update replaces a stored run. Terminal runs are immutable.
func (s *syncRunStore) Update(ctx context.Context, run *domain.SyncRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	c := run.Counters
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE sync_runs SET
			source_ref = ?, status = ?, started_at = ?, finished_at = ?,
			records_total = ?, records_new = ?, records_updated = ?, records_unchanged = ?, records_errors = ?,
			error_message = ?
		WHERE id = ? AND status NOT IN ('completed', 'failed')
	`, run.SourceRef, string(run.Status), startedAt(run.StartedAt), nullTime(run.FinishedAt),
		c.Total, c.New, c.Updated, c.Unchanged, c.Errors, errorMessage(run.ErrorMessage),
		run.ID)
	if err != nil {
		return wrapErr(fmt.Sprintf("updating sync run %s", run.ID), err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return wrapErr("checking rows affected", err)
	}
	if n > 0 {
		return nil
	}

	// Nothing updated: either missing or already finalized.
	stored, err := s.Get(ctx, run.ID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: run %s is %s", domain.ErrRunFinalized, run.ID, stored.Status)
}

// Get retrieves a run by ID.
func (s *syncRunStore) Get(ctx context.Context, id string) (*domain.SyncRun, error) {
	row := s.store.db.QueryRowContext(ctx, selectRunColumns+" WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("querying sync run", err)
	}
	return run, nil
}

// List returns runs newest first by start time, then by creation order.
func (s *syncRunStore) List(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.store.db.QueryContext(ctx,
		selectRunColumns+" ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, wrapErr("querying sync runs", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating sync runs", err)
	}
	return runs, nil
}

func scanRun(row rowScanner) (*domain.SyncRun, error) {
	var (
		run    domain.SyncRun
		status string
		errMsg sql.NullString
	)
	err := row.Scan(
		&run.ID, &run.SourceRef, &status, reqTime{&run.StartedAt}, optTime{&run.FinishedAt},
		&run.Counters.Total, &run.Counters.New, &run.Counters.Updated,
		&run.Counters.Unchanged, &run.Counters.Errors,
		&errMsg,
	)
	if err != nil {
		return nil, err
	}
	run.Status = domain.RunStatus(status)
	run.ErrorMessage = errMsg.String
	return &run, nil
}

func startedAt(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func errorMessage(msg string) any {
	if msg == "" {
		return nil
	}
	return msg
}
