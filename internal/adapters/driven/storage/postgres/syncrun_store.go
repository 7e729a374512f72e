package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

const selectRunColumns = `
	SELECT id, source_ref, status, started_at, finished_at,
		records_total, records_new, records_updated, records_unchanged, records_errors,
		COALESCE(error_message, '')
	FROM sync_runs`

type syncRunStore struct {
	store *Store
}

var _ driven.SyncRunStore = (*syncRunStore)(nil)

func (s *syncRunStore) Create(ctx context.Context, run *domain.SyncRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	c := run.Counters
	_, err := s.store.pool.Exec(ctx, `
		INSERT INTO sync_runs (id, source_ref, status, started_at, finished_at,
			records_total, records_new, records_updated, records_unchanged, records_errors, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''))
	`, run.ID, run.SourceRef, string(run.Status), startedAt(run.StartedAt), run.FinishedAt,
		c.Total, c.New, c.Updated, c.Unchanged, c.Errors, run.ErrorMessage)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: run %s already exists", domain.ErrInvalidInput, run.ID)
	}
	if err != nil {
		return wrapErr("creating sync run", err)
	}
	return nil
}

func (s *syncRunStore) Update(ctx context.Context, run *domain.SyncRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	c := run.Counters
	tag, err := s.store.pool.Exec(ctx, `
		UPDATE sync_runs SET
			source_ref = $1, status = $2, started_at = $3, finished_at = $4,
			records_total = $5, records_new = $6, records_updated = $7, records_unchanged = $8, records_errors = $9,
			error_message = NULLIF($10, '')
		WHERE id = $11 AND status NOT IN ('completed', 'failed')
	`, run.SourceRef, string(run.Status), startedAt(run.StartedAt), run.FinishedAt,
		c.Total, c.New, c.Updated, c.Unchanged, c.Errors, run.ErrorMessage, run.ID)
	if err != nil {
		return wrapErr(fmt.Sprintf("updating sync run %s", run.ID), err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	stored, err := s.Get(ctx, run.ID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: run %s is %s", domain.ErrRunFinalized, run.ID, stored.Status)
}

func (s *syncRunStore) Get(ctx context.Context, id string) (*domain.SyncRun, error) {
	rows, err := s.store.pool.Query(ctx, selectRunColumns+" WHERE id = $1", id)
	if err != nil {
		return nil, wrapErr("querying sync run", err)
	}
	run, err := pgx.CollectExactlyOneRow(rows, scanRun)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("querying sync run", err)
	}
	return &run, nil
}

// List returns runs newest first; a NULL limit means no limit.
func (s *syncRunStore) List(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := s.store.pool.Query(ctx,
		selectRunColumns+" ORDER BY started_at DESC NULLS LAST, seq DESC LIMIT $1", lim)
	if err != nil {
		return nil, wrapErr("querying sync runs", err)
	}
	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, wrapErr("scanning sync runs", err)
	}
	return runs, nil
}

func scanRun(row pgx.CollectableRow) (domain.SyncRun, error) {
	var (
		run     domain.SyncRun
		status  string
		started *time.Time
	)
	err := row.Scan(
		&run.ID, &run.SourceRef, &status, &started, &run.FinishedAt,
		&run.Counters.Total, &run.Counters.New, &run.Counters.Updated,
		&run.Counters.Unchanged, &run.Counters.Errors,
		&run.ErrorMessage,
	)
	if err != nil {
		return run, err
	}
	run.Status = domain.RunStatus(status)
	if started != nil {
		run.StartedAt = started.UTC()
	}
	run.FinishedAt = utc(run.FinishedAt)
	return run, nil
}

func startedAt(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
