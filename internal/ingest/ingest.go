// Package ingest turns uploaded bytes into a table of typed columns.
//
// Formats are registered by file extension. Each parser produces a [Table]
// whose first row supplied the column names; the remaining rows become the
// cells of each [coltype.Column]. Ingestion fails with a descriptive error
// when the bytes cannot be read as tabular data; classification is never
// attempted on a failed parse.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/JonMunkholm/coltype/internal/core/coltype"
)

var (
	// ErrNoFile is returned when the upload carries no file.
	ErrNoFile = errors.New("no file provided")

	// ErrEmptyFile is returned when the file holds no header row.
	ErrEmptyFile = errors.New("empty file")

	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrNoColumns is returned when a header row yields no columns.
	ErrNoColumns = errors.New("no columns found")
)

// Table is a parsed dataset: named columns of equal length.
type Table struct {
	Columns []coltype.Column
	Rows    int
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ParseFunc reads one format from r.
type ParseFunc func(r io.Reader) (*Table, error)

// Format describes a supported upload type.
type Format struct {
	Name       string   // Display name: "CSV"
	Extensions []string // Lowercase suffixes including the dot: ".csv"
	Parse      ParseFunc
}

var (
	registry   = make(map[string]Format)
	registryMu sync.RWMutex
)

// Register adds a format to the registry.
// Panics if one of its extensions is already registered.
func Register(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, ext := range f.Extensions {
		ext = strings.ToLower(ext)
		if _, exists := registry[ext]; exists {
			panic(fmt.Sprintf("format already registered: %s", ext))
		}
		registry[ext] = f
	}
}

// Lookup finds the format for a file name. The longest matching suffix
// wins, so "data.csv.gz" resolves to the gzip format rather than CSV.
func Lookup(fileName string) (Format, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	name := strings.ToLower(filepath.Base(fileName))
	var (
		best    Format
		bestLen int
	)
	for ext, f := range registry {
		if strings.HasSuffix(name, ext) && len(ext) > bestLen {
			best, bestLen = f, len(ext)
		}
	}
	return best, bestLen > 0
}

// Extensions returns every registered extension, sorted.
func Extensions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Formats returns the registered formats sorted by name.
func Formats() []Format {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	var out []Format
	for _, f := range registry {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Parse selects a format by file name and parses r.
func Parse(fileName string, r io.Reader) (*Table, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, ErrNoFile
	}
	f, ok := Lookup(fileName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(fileName))
	}

	t, err := f.Parse(r)
	if err != nil {
		return nil, err
	}
	if len(t.Columns) == 0 {
		return nil, ErrNoColumns
	}
	return t, nil
}

// buildTable converts a header row and cell rows into columns.
// Short rows are padded with nulls; rows longer than the header add
// unnamed columns.
func buildTable(header []string, rows [][]coltype.Cell) *Table {
	width := len(header)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	names := normalizeHeaders(header, width)
	cols := make([]coltype.Column, width)
	for i := range cols {
		cols[i] = coltype.Column{Name: names[i], Cells: make([]coltype.Cell, len(rows))}
	}
	for r, row := range rows {
		for c := range cols {
			if c < len(row) {
				cols[c].Cells[r] = row[c]
			}
		}
	}
	return &Table{Columns: cols, Rows: len(rows)}
}

func init() {
	Register(Format{Name: "CSV", Extensions: []string{".csv"}, Parse: parseCSV})
	Register(Format{Name: "TSV", Extensions: []string{".tsv"}, Parse: parseTSV})
	Register(Format{Name: "Excel", Extensions: []string{".xlsx"}, Parse: parseXLSX})
	Register(Format{Name: "CSV (gzip)", Extensions: []string{".csv.gz"}, Parse: gunzip(parseCSV)})
	Register(Format{Name: "CSV (lz4)", Extensions: []string{".csv.lz4"}, Parse: unlz4(parseCSV)})
}
