package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

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
		" FROM permits WHERE permit_num = $1 AND revision_num = $2"
	upsertPermitSQL = buildUpsertPermit()
)

func buildUpsertPermit() string {
	placeholders := make([]string, len(permitColumns))
	var sets []string
	for i, col := range permitColumns {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		switch col {
		case "permit_num", "revision_num", "first_seen_at":
			continue
		}
		sets = append(sets, col+" = EXCLUDED."+col)
	}
	return "INSERT INTO permits (" + strings.Join(permitColumns, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")" +
		" ON CONFLICT (permit_num, revision_num) DO UPDATE SET " + strings.Join(sets, ", ")
}

type permitStore struct {
	store *Store
}

var _ driven.PermitStore = (*permitStore)(nil)

func (s *permitStore) GetHash(ctx context.Context, key domain.NaturalKey) (string, error) {
	var hash string
	err := s.store.pool.QueryRow(ctx,
		"SELECT content_hash FROM permits WHERE permit_num = $1 AND revision_num = $2",
		key.PermitNum, key.RevisionNum,
	).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", wrapErr("querying permit hash", err)
	}
	return hash, nil
}

func (s *permitStore) Get(ctx context.Context, key domain.NaturalKey) (*domain.Permit, error) {
	var p domain.Permit
	err := s.store.pool.QueryRow(ctx, selectPermitSQL, key.PermitNum, key.RevisionNum).Scan(
		&p.PermitNum, &p.RevisionNum,
		&p.PermitType, &p.StructureType, &p.Work,
		&p.StreetNum, &p.StreetName, &p.StreetType, &p.StreetDirection, &p.Postal, &p.GeoID, &p.WardGrid,
		&p.ApplicationDate, &p.IssuedDate, &p.CompletedDate,
		&p.Status, &p.Description, &p.CurrentUse, &p.ProposedUse,
		&p.BuilderName, &p.BuilderKey, &p.BuilderIncorporated, &p.Owner,
		&p.EstConstCost,
		&p.DwellingUnitsCreated, &p.DwellingUnitsLost, &p.HousingUnits, &p.Storeys,
		&p.ContentHash, &p.FirstSeenAt, &p.LastSeenAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("querying permit", err)
	}
	p.ApplicationDate = utc(p.ApplicationDate)
	p.IssuedDate = utc(p.IssuedDate)
	p.CompletedDate = utc(p.CompletedDate)
	p.FirstSeenAt = p.FirstSeenAt.UTC()
	p.LastSeenAt = p.LastSeenAt.UTC()
	return &p, nil
}

func (s *permitStore) Upsert(ctx context.Context, p *domain.Permit, hash string, seenAt time.Time) error {
	if p == nil {
		return domain.ErrInvalidInput
	}
	_, err := s.store.pool.Exec(ctx, upsertPermitSQL,
		p.PermitNum, p.RevisionNum,
		p.PermitType, p.StructureType, p.Work,
		p.StreetNum, p.StreetName, p.StreetType, p.StreetDirection, p.Postal, p.GeoID, p.WardGrid,
		p.ApplicationDate, p.IssuedDate, p.CompletedDate,
		p.Status, p.Description, p.CurrentUse, p.ProposedUse,
		p.BuilderName, p.BuilderKey, p.BuilderIncorporated, p.Owner,
		p.EstConstCost,
		p.DwellingUnitsCreated, p.DwellingUnitsLost, p.HousingUnits, p.Storeys,
		hash, seenAt, seenAt,
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("upserting permit %s", p.Key()), err)
	}
	return nil
}

func (s *permitStore) Touch(ctx context.Context, key domain.NaturalKey, seenAt time.Time) error {
	tag, err := s.store.pool.Exec(ctx,
		"UPDATE permits SET last_seen_at = $1 WHERE permit_num = $2 AND revision_num = $3",
		seenAt, key.PermitNum, key.RevisionNum,
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("touching permit %s", key), err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *permitStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.pool.QueryRow(ctx, "SELECT COUNT(*) FROM permits").Scan(&n); err != nil {
		return 0, wrapErr("counting permits", err)
	}
	return n, nil
}
