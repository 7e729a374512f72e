package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

// changeStore implements driven.ChangeStore.
type changeStore struct {
	store *Store
}

var _ driven.ChangeStore = (*changeStore)(nil)

// Append records the changes of one permit in a single transaction.
func (s *changeStore) Append(ctx context.Context, changes []domain.PermitChange) error {
	if len(changes) == 0 {
		return nil
	}
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO permit_changes (id, run_id, permit_num, revision_num, field, old_value, new_value, detected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range changes {
			c := &changes[i]
			if c.ID == "" {
				return fmt.Errorf("%w: change without id", domain.ErrInvalidInput)
			}
			if _, err := stmt.ExecContext(ctx,
				c.ID, c.RunID, c.PermitNum, c.RevisionNum, c.Field,
				nullString(c.OldValue), nullString(c.NewValue), formatTime(c.DetectedAt),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapErr("appending changes", err)
	}
	return nil
}

// ListByKey returns the changes of one permit revision, oldest first.
func (s *changeStore) ListByKey(ctx context.Context, key domain.NaturalKey) ([]domain.PermitChange, error) {
	return s.list(ctx, `
		SELECT id, run_id, permit_num, revision_num, field, old_value, new_value, detected_at
		FROM permit_changes WHERE permit_num = ? AND revision_num = ?
		ORDER BY detected_at, rowid
	`, key.PermitNum, key.RevisionNum)
}

// ListByRun returns the changes detected by one run, oldest first.
func (s *changeStore) ListByRun(ctx context.Context, runID string) ([]domain.PermitChange, error) {
	return s.list(ctx, `
		SELECT id, run_id, permit_num, revision_num, field, old_value, new_value, detected_at
		FROM permit_changes WHERE run_id = ?
		ORDER BY detected_at, rowid
	`, runID)
}

func (s *changeStore) list(ctx context.Context, query string, args ...any) ([]domain.PermitChange, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("querying changes", err)
	}
	defer rows.Close()

	var changes []domain.PermitChange //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.PermitChange
		if err := rows.Scan(
			&c.ID, &c.RunID, &c.PermitNum, &c.RevisionNum, &c.Field,
			optString{&c.OldValue}, optString{&c.NewValue}, reqTime{&c.DetectedAt},
		); err != nil {
			return nil, fmt.Errorf("scanning change: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating changes", err)
	}
	return changes, nil
}
