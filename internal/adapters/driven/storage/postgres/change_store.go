package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

const selectChangeColumns = `
	SELECT id, run_id, permit_num, revision_num, field, old_value, new_value, detected_at
	FROM permit_changes`

type changeStore struct {
	store *Store
}

var _ driven.ChangeStore = (*changeStore)(nil)

// Append sends the changes of one permit as a single batch in one transaction.
func (s *changeStore) Append(ctx context.Context, changes []domain.PermitChange) (err error) {
	if len(changes) == 0 {
		return nil
	}
	for i := range changes {
		if changes[i].ID == "" {
			return fmt.Errorf("%w: change without id", domain.ErrInvalidInput)
		}
	}

	tx, err := s.store.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin change tx", err)
	}
	defer rollbackOrCommit(ctx, tx, &err)

	batch := &pgx.Batch{}
	for i := range changes {
		c := &changes[i]
		batch.Queue(`
			INSERT INTO permit_changes (id, run_id, permit_num, revision_num, field, old_value, new_value, detected_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, c.ID, c.RunID, c.PermitNum, c.RevisionNum, c.Field, c.OldValue, c.NewValue, c.DetectedAt)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return wrapErr("appending changes", err)
	}
	return nil
}

func (s *changeStore) ListByKey(ctx context.Context, key domain.NaturalKey) ([]domain.PermitChange, error) {
	return s.list(ctx, selectChangeColumns+" WHERE permit_num = $1 AND revision_num = $2 ORDER BY detected_at, seq",
		key.PermitNum, key.RevisionNum)
}

func (s *changeStore) ListByRun(ctx context.Context, runID string) ([]domain.PermitChange, error) {
	return s.list(ctx, selectChangeColumns+" WHERE run_id = $1 ORDER BY detected_at, seq", runID)
}

func (s *changeStore) list(ctx context.Context, query string, args ...any) ([]domain.PermitChange, error) {
	rows, err := s.store.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("querying changes", err)
	}
	changes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PermitChange, error) {
		var c domain.PermitChange
		err := row.Scan(&c.ID, &c.RunID, &c.PermitNum, &c.RevisionNum, &c.Field, &c.OldValue, &c.NewValue, &c.DetectedAt)
		c.DetectedAt = c.DetectedAt.UTC()
		return c, err
	})
	if err != nil {
		return nil, wrapErr("scanning changes", err)
	}
	return changes, nil
}
