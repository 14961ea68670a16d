package ingest

import (
	"bytes"
	"encoding/json"

	"github.com/JonMunkholm/coltype/internal/core/coltype"
)

// Record is one data row keyed by column name. It encodes to a JSON
// object whose keys follow the table's column order.
type Record struct {
	names []string
	cells []coltype.Cell
}

// Get returns the cell for a column name.
func (r Record) Get(name string) (coltype.Cell, bool) {
	for i, n := range r.names {
		if n == name {
			return r.cells[i], true
		}
	}
	return coltype.Null(), false
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.cells[i].Value())
		if err != nil {
			// NaN and Inf have no JSON form.
			v = []byte("null")
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records returns the table rows, limited to max rows when max > 0.
func (t *Table) Records(max int) []Record {
	n := t.Rows
	if max > 0 && max < n {
		n = max
	}
	names := t.Names()

	out := make([]Record, n)
	for row := 0; row < n; row++ {
		cells := make([]coltype.Cell, len(t.Columns))
		for c, col := range t.Columns {
			cells[c] = col.Cells[row]
		}
		out[row] = Record{names: names, cells: cells}
	}
	return out
}

// Row returns the display text of each cell in a row.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.Columns))
	for c, col := range t.Columns {
		out[c] = col.Cells[i].Text()
	}
	return out
}
