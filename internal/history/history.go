// Package history records classification runs.
//
// A run keeps only metadata: the file name, its size in rows and columns,
// and the category assigned to each column. Cell contents are never
// stored. Runs live in a Store, which may be in-memory, PostgreSQL, or
// SQLite, and are pruned on a cron schedule by a Scheduler.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/coltype/internal/core/coltype"
	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no run has the requested ID.
var ErrNotFound = errors.New("history run not found")

// Run is one recorded classification.
type Run struct {
	ID        uuid.UUID              `json:"id"`
	FileName  string                 `json:"fileName"`
	Rows      int                    `json:"rows"`
	Columns   []coltype.ColumnResult `json:"columns"`
	Duration  time.Duration          `json:"-"`
	CreatedAt time.Time              `json:"createdAt"`
}

// NewRun builds a run for a finished classification, stamped now.
func NewRun(fileName string, rows int, result *coltype.Result, took time.Duration) Run {
	return Run{
		ID:        uuid.New(),
		FileName:  fileName,
		Rows:      rows,
		Columns:   result.Columns(),
		Duration:  took,
		CreatedAt: time.Now().UTC(),
	}
}

// Counts returns how many columns landed in each category.
func (r Run) Counts() map[coltype.Category]int {
	out := make(map[coltype.Category]int, 4)
	for _, c := range r.Columns {
		out[c.Category]++
	}
	return out
}

// MarshalJSON writes Duration in milliseconds.
func (r Run) MarshalJSON() ([]byte, error) {
	type alias Run
	return json.Marshal(struct {
		alias
		Duration int64 `json:"durationMs"`
	}{alias(r), r.Duration.Milliseconds()})
}

// Store persists runs. Implementations must be safe for concurrent use.
type Store interface {
	// Record saves a run.
	Record(ctx context.Context, run Run) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// Get returns a run by ID, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (Run, error)

	// Prune deletes runs created before the cutoff and reports how many.
	Prune(ctx context.Context, before time.Time) (int64, error)

	Close() error
}

// encodeColumns serializes column results for the SQL backends.
func encodeColumns(cols []coltype.ColumnResult) ([]byte, error) {
	if cols == nil {
		cols = []coltype.ColumnResult{}
	}
	b, err := json.Marshal(cols)
	if err != nil {
		return nil, fmt.Errorf("encode columns: %w", err)
	}
	return b, nil
}

func decodeColumns(b []byte) ([]coltype.ColumnResult, error) {
	var cols []coltype.ColumnResult
	if err := json.Unmarshal(b, &cols); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	return cols, nil
}
