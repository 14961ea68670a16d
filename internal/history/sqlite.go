package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS classification_runs (
	id          TEXT PRIMARY KEY,
	file_name   TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	columns     TEXT NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_classification_runs_created_at ON classification_runs(created_at);
`

const sqliteSelect = `SELECT id, file_name, row_count, columns, duration_ms, created_at FROM classification_runs`

// SQLiteStore keeps runs in a local SQLite file. Timestamps are stored as
// Unix nanoseconds so range comparisons stay numeric.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// SQLite serializes writers; one connection avoids "database is locked".
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	cols, err := encodeColumns(run.Columns)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO classification_runs (id, file_name, row_count, columns, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.FileName, run.Rows, string(cols),
		run.Duration.Milliseconds(), run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, sqliteSelect+` ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanSQLiteRun(rows)
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

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	row := s.db.QueryRowContext(ctx, sqliteSelect+` WHERE id = ?`, id.String())
	run, err := scanSQLiteRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM classification_runs WHERE created_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRun(row scanner) (Run, error) {
	var (
		run        Run
		id         string
		cols       string
		durationMS int64
		createdAt  int64
	)
	if err := row.Scan(&id, &run.FileName, &run.Rows, &cols, &durationMS, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	decoded, err := decodeColumns([]byte(cols))
	if err != nil {
		return Run{}, err
	}

	run.ID = parsed
	run.Columns = decoded
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	return run, nil
}
