package coltype

import (
	"bytes"
	"encoding/json"
)

// ColumnResult is the classification of one column.
type ColumnResult struct {
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`

	// DateFormat names the strategy that accepted a Date column.
	DateFormat string `json:"dateFormat,omitempty" yaml:"date_format,omitempty"`
}

// Result maps column names to categories in input column order.
// It encodes to JSON as an object whose keys keep that order.
type Result struct {
	entries []ColumnResult
	index   map[string]int
}

// NewResult returns an empty Result with room for n columns.
func NewResult(n int) *Result {
	return &Result{
		entries: make([]ColumnResult, 0, n),
		index:   make(map[string]int, n),
	}
}

// Set adds or replaces the entry for cr.Name. A replaced entry keeps its
// original position.
func (r *Result) Set(cr ColumnResult) {
	if i, ok := r.index[cr.Name]; ok {
		r.entries[i] = cr
		return
	}
	r.index[cr.Name] = len(r.entries)
	r.entries = append(r.entries, cr)
}

// Get returns the category for a column name.
func (r *Result) Get(name string) (Category, bool) {
	i, ok := r.index[name]
	if !ok {
		return Text, false
	}
	return r.entries[i].Category, true
}

// Len returns the number of columns.
func (r *Result) Len() int { return len(r.entries) }

// Columns returns the entries in order.
func (r *Result) Columns() []ColumnResult {
	out := make([]ColumnResult, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the column names in order.
func (r *Result) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

// Counts returns how many columns fall in each category.
func (r *Result) Counts() map[Category]int {
	out := make(map[Category]int, 4)
	for _, e := range r.entries {
		out[e.Category]++
	}
	return out
}

// MarshalJSON encodes {"col": "N", ...} preserving column order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteByte('"')
		buf.WriteString(e.Category.Code())
		buf.WriteByte('"')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
