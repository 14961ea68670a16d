package history

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

// fakeDB records statements and serves canned rows.
type fakeDB struct {
	execs   []execCall
	execTag pgconn.CommandTag
	execErr error
	rows    [][]any
	rowErr  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(_ context.Context, _ string, _ ...interface{}) (pgx.Rows, error) {
	return &fakeRows{rows: f.rows, pos: -1}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, _ ...interface{}) pgx.Row {
	if f.rowErr != nil {
		return fakeRow{err: f.rowErr}
	}
	if len(f.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{values: f.rows[0]}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Scan(dest ...any) error                       { return assign(dest, r.rows[r.pos]) }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.pos], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return errors.New("column count mismatch")
	}
	for i, v := range values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func pgRow(run Run) []any {
	cols, _ := encodeColumns(run.Columns)
	return []any{
		pgtype.UUID{Bytes: run.ID, Valid: true},
		run.FileName,
		int32(run.Rows),
		cols,
		run.Duration.Milliseconds(),
		pgtype.Timestamptz{Time: run.CreatedAt, Valid: true},
	}
}

func TestPostgresStore_Record(t *testing.T) {
	db := &fakeDB{}
	store := NewPostgresStore(db)
	run := sampleRun("upload.csv", time.Now())

	require.NoError(t, store.Record(context.Background(), run))
	require.Len(t, db.execs, 1)

	call := db.execs[0]
	assert.True(t, strings.HasPrefix(strings.TrimSpace(call.sql), "INSERT INTO classification_runs"))
	require.Len(t, call.args, 6)
	assert.Equal(t, pgtype.UUID{Bytes: run.ID, Valid: true}, call.args[0])
	assert.Equal(t, "upload.csv", call.args[1])
	assert.JSONEq(t,
		`[{"name":"id","category":"N"},{"name":"when","category":"D","dateFormat":"YYYY-MM-DD"}]`,
		string(call.args[3].([]byte)))
}

func TestPostgresStore_RecordError(t *testing.T) {
	store := NewPostgresStore(&fakeDB{execErr: errors.New("connection refused")})
	err := store.Record(context.Background(), sampleRun("x.csv", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record run")
}

func TestPostgresStore_RecentAndGet(t *testing.T) {
	first := sampleRun("first.csv", time.Now())
	second := sampleRun("second.csv", time.Now().Add(-time.Minute))
	store := NewPostgresStore(&fakeDB{rows: [][]any{pgRow(first), pgRow(second)}})
	ctx := context.Background()

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, first.Columns, runs[0].Columns)
	assert.Equal(t, 40*time.Millisecond, runs[1].Duration)

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first.csv", got.FileName)
}

func TestPostgresStore_GetMissing(t *testing.T) {
	store := NewPostgresStore(&fakeDB{})
	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_Prune(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("DELETE 3")}
	store := NewPostgresStore(db)

	removed, err := store.Prune(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Contains(t, db.execs[0].sql, "DELETE FROM classification_runs")
}

func TestPostgresStore_Migrate(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewPostgresStore(db).Migrate(context.Background()))
	assert.Contains(t, db.execs[0].sql, "CREATE TABLE IF NOT EXISTS classification_runs")
}
