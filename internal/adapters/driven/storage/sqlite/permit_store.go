package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

// permitColumns lists the permits table columns in scan order.
var permitColumns = []string{
	"permit_num", "revision_num",
	"permit_type", "structure_type", "work",
	"street_num", "street_name", "street_type", "street_direction", "postal", "geo_id", "ward_grid",
	"application_date", "issued_date", "completed_date",
	"status", "description", "current_use", "proposed_use",
	"builder_name", "builder_key", "builder_incorporated", "owner",
	"est_const_cost",
	"dwelling_units_created", "dwelling_units_lost", "housing_units", "storeys",
	"content_hash", "first_seen_at", "last_seen_at",
}

var (
	selectPermitSQL = "SELECT " + strings.Join(permitColumns, ", ") +
		" FROM permits WHERE permit_num = ? AND revision_num = ?"
	upsertPermitSQL = buildUpsertPermit()
)

// buildUpsertPermit keeps first_seen_at from the original insert.
func buildUpsertPermit() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(permitColumns)), ", ")
	var sets []string
	for _, col := range permitColumns {
		switch col {
		case "permit_num", "revision_num", "first_seen_at":
			continue
		}
		sets = append(sets, col+" = excluded."+col)
	}
	return "INSERT INTO permits (" + strings.Join(permitColumns, ", ") + ") VALUES (" + placeholders + ")" +
		" ON CONFLICT(permit_num, revision_num) DO UPDATE SET " + strings.Join(sets, ", ")
}

// permitStore implements driven.PermitStore.
type permitStore struct {
	store *Store
}

var _ driven.PermitStore = (*permitStore)(nil)

// GetHash returns the stored content hash for a key.
func (s *permitStore) GetHash(ctx context.Context, key domain.NaturalKey) (string, error) {
	var hash string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT content_hash FROM permits WHERE permit_num = ? AND revision_num = ?",
		key.PermitNum, key.RevisionNum,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", wrapErr("querying permit hash", err)
	}
	return hash, nil
}

// Get retrieves a stored permit.
func (s *permitStore) Get(ctx context.Context, key domain.NaturalKey) (*domain.Permit, error) {
	row := s.store.db.QueryRowContext(ctx, selectPermitSQL, key.PermitNum, key.RevisionNum)
	p, err := scanPermit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("querying permit", err)
	}
	return p, nil
}

// Upsert stores or replaces a permit.
func (s *permitStore) Upsert(ctx context.Context, p *domain.Permit, hash string, seenAt time.Time) error {
	if p == nil {
		return domain.ErrInvalidInput
	}
	seen := formatTime(seenAt)
	_, err := s.store.db.ExecContext(ctx, upsertPermitSQL,
		p.PermitNum, p.RevisionNum,
		nullString(p.PermitType), nullString(p.StructureType), nullString(p.Work),
		nullString(p.StreetNum), nullString(p.StreetName), nullString(p.StreetType),
		nullString(p.StreetDirection), nullString(p.Postal), nullString(p.GeoID), nullString(p.WardGrid),
		nullTime(p.ApplicationDate), nullTime(p.IssuedDate), nullTime(p.CompletedDate),
		nullString(p.Status), nullString(p.Description), nullString(p.CurrentUse), nullString(p.ProposedUse),
		nullString(p.BuilderName), nullString(p.BuilderKey), p.BuilderIncorporated, nullString(p.Owner),
		nullFloat(p.EstConstCost),
		p.DwellingUnitsCreated, p.DwellingUnitsLost, p.HousingUnits, p.Storeys,
		hash, seen, seen,
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("upserting permit %s", p.Key()), err)
	}
	return nil
}

// Touch updates last_seen_at for a stored permit.
func (s *permitStore) Touch(ctx context.Context, key domain.NaturalKey, seenAt time.Time) error {
	result, err := s.store.db.ExecContext(ctx,
		"UPDATE permits SET last_seen_at = ? WHERE permit_num = ? AND revision_num = ?",
		formatTime(seenAt), key.PermitNum, key.RevisionNum,
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("touching permit %s", key), err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return wrapErr("checking rows affected", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of stored permits.
func (s *permitStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM permits").Scan(&n); err != nil {
		return 0, wrapErr("counting permits", err)
	}
	return n, nil
}

func scanPermit(row rowScanner) (*domain.Permit, error) {
	var p domain.Permit
	err := row.Scan(
		&p.PermitNum, &p.RevisionNum,
		optString{&p.PermitType}, optString{&p.StructureType}, optString{&p.Work},
		optString{&p.StreetNum}, optString{&p.StreetName}, optString{&p.StreetType},
		optString{&p.StreetDirection}, optString{&p.Postal}, optString{&p.GeoID}, optString{&p.WardGrid},
		optTime{&p.ApplicationDate}, optTime{&p.IssuedDate}, optTime{&p.CompletedDate},
		optString{&p.Status}, optString{&p.Description}, optString{&p.CurrentUse}, optString{&p.ProposedUse},
		optString{&p.BuilderName}, optString{&p.BuilderKey}, &p.BuilderIncorporated, optString{&p.Owner},
		optFloat{&p.EstConstCost},
		&p.DwellingUnitsCreated, &p.DwellingUnitsLost, &p.HousingUnits, &p.Storeys,
		&p.ContentHash, reqTime{&p.FirstSeenAt}, reqTime{&p.LastSeenAt},
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
