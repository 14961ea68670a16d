package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx used by PostgresStore. Both *pgxpool.Pool and
// pgx.Tx satisfy it.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS classification_runs (
	id          UUID PRIMARY KEY,
	file_name   TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	columns     JSONB NOT NULL,
	duration_ms BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_classification_runs_created_at ON classification_runs(created_at);
`

const pgSelect = `SELECT id, file_name, row_count, columns, duration_ms, created_at FROM classification_runs`

// PostgresStore keeps runs in a PostgreSQL table.
type PostgresStore struct {
	db    DBTX
	close func()
}

// PoolOptions sizes the connection pool opened by OpenPostgres.
type PoolOptions struct {
	MaxConns int
	MinConns int
}

// OpenPostgres connects a pool to url, verifies it, and ensures the schema.
func OpenPostgres(ctx context.Context, url string, opts PoolOptions) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse history database url: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		poolConfig.MinConns = int32(opts.MinConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect history database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	store := NewPostgresStore(pool)
	store.close = pool.Close
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wraps an existing connection. The caller owns db.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the runs table when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("migrate history schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Record(ctx context.Context, run Run) error {
	cols, err := encodeColumns(run.Columns)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO classification_runs (id, file_name, row_count, columns, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		pgtype.UUID{Bytes: run.ID, Valid: true},
		run.FileName,
		int32(run.Rows),
		cols,
		run.Duration.Milliseconds(),
		pgtype.Timestamptz{Time: run.CreatedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(ctx, pgSelect+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanPgRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	row := s.db.QueryRow(ctx, pgSelect+` WHERE id = $1`, pgtype.UUID{Bytes: id, Valid: true})
	run, err := scanPgRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

func (s *PostgresStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM classification_runs WHERE created_at < $1`,
		pgtype.Timestamptz{Time: before, Valid: true},
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

func scanPgRun(row pgx.Row) (Run, error) {
	var (
		id         pgtype.UUID
		run        Run
		rowCount   int32
		cols       []byte
		durationMS int64
		createdAt  pgtype.Timestamptz
	)
	if err := row.Scan(&id, &run.FileName, &rowCount, &cols, &durationMS, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	decoded, err := decodeColumns(cols)
	if err != nil {
		return Run{}, err
	}

	run.ID = uuid.UUID(id.Bytes)
	run.Rows = int(rowCount)
	run.Columns = decoded
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.CreatedAt = createdAt.Time.UTC()
	return run, nil
}
