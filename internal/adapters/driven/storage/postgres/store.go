// Package postgres provides a PostgreSQL implementation of the record store
// ports over a pgx connection pool.
//
// The pool is created once by NewStore and lives until Close; every
// operation borrows a connection for a single statement or transaction.
// Migrations in migrations/ are applied on open under an advisory lock so
// concurrent processes do not race.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jasonbrettpreston/buildo-sub002/internal/adapters/driven/storage/postgres/migrations"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
	"github.com/jasonbrettpreston/buildo-sub002/internal/logger"
)

// migrationLockID keys the advisory lock held while migrating.
const migrationLockID = 7305551

// Options tunes the connection pool.
type Options struct {
	MaxConns        int32
	ConnectAttempts uint
	ConnectDelay    time.Duration
}

// DefaultOptions returns the pool settings used by the CLI.
func DefaultOptions() Options {
	return Options{
		MaxConns:        8,
		ConnectAttempts: 5,
		ConnectDelay:    500 * time.Millisecond,
	}
}

// Store is a Postgres-backed storage that provides access to the permit,
// change log and sync run stores through wrapper types.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn, retrying with backoff until the server answers,
// and applies pending migrations.
func NewStore(ctx context.Context, dsn string, opts Options) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is required", domain.ErrInvalidInput)
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing postgres dsn: %v", domain.ErrInvalidInput, err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.ConnectAttempts == 0 {
		opts.ConnectAttempts = 1
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	err = retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(opts.ConnectAttempts),
		retry.Delay(opts.ConnectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("Postgres not reachable, retrying (attempt %d): %v", n+1, err)
		}),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: connecting to postgres: %w", domain.ErrStoreUnavailable, err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx, migrations.FS); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// PermitStore returns a PermitStore interface backed by this store.
func (s *Store) PermitStore() driven.PermitStore {
	return &permitStore{store: s}
}

// ChangeStore returns a ChangeStore interface backed by this store.
func (s *Store) ChangeStore() driven.ChangeStore {
	return &changeStore{store: s}
}

// SyncRunStore returns a SyncRunStore interface backed by this store.
func (s *Store) SyncRunStore() driven.SyncRunStore {
	return &syncRunStore{store: s}
}

// migrate applies pending NNN_name.up.sql files in one transaction.
func (s *Store) migrate(ctx context.Context, fsys embed.FS) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer rollbackOrCommit(ctx, tx, &err)

	if _, err = tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquiring migration lock: %w", err)
	}
	if _, err = tx.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	if err = tx.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, scanErr := fmt.Sscanf(name, "%d_", &version); scanErr != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}
		content, readErr := fs.ReadFile(fsys, name)
		if readErr != nil {
			return fmt.Errorf("reading migration %s: %w", name, readErr)
		}
		if _, err = tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err = tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}
	return nil
}

// rollbackOrCommit finishes tx according to *err.
func rollbackOrCommit(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			logger.Warn("Transaction rollback failed: %v (original error: %v)", rbErr, *err)
		}
		return
	}
	if cmErr := tx.Commit(ctx); cmErr != nil {
		*err = fmt.Errorf("commit failed: %w", cmErr)
	}
}

// wrapErr annotates err with op and marks connection failures as
// domain.ErrStoreUnavailable.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUnavailable reports connection-level failures, as opposed to
// statement errors such as constraint violations.
func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is connection exception; 57P0x is operator intervention.
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0")
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return strings.Contains(err.Error(), "closed pool") || strings.Contains(err.Error(), "conn closed")
}

// isUniqueViolation reports a unique or primary key violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// utc normalises a scanned timestamp; pgx returns timestamptz in local time.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
