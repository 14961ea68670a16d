package coltype

// Column is the ordered sequence of cells for one field across all rows.
// Classification never modifies a Column.
type Column struct {
	Name  string
	Cells []Cell
}

// NewColumn builds a column of string cells; empty strings become nulls.
// It is a convenience for tests and callers holding plain text.
func NewColumn(name string, values ...string) Column {
	cells := make([]Cell, len(values))
	for i, v := range values {
		if v == "" {
			cells[i] = Null()
			continue
		}
		cells[i] = String(v)
	}
	return Column{Name: name, Cells: cells}
}

// Len returns the number of cells, including missing ones.
func (c Column) Len() int { return len(c.Cells) }

// Kind returns the declared kind of the column: the kind shared by every
// non-null cell. Mixed columns are KindString; columns without any present
// cell are KindNull.
func (c Column) Kind() Kind {
	kind := KindNull
	for _, cell := range c.Cells {
		if cell.IsNull() {
			continue
		}
		if kind == KindNull {
			kind = cell.Kind
			continue
		}
		if cell.Kind != kind {
			return KindString
		}
	}
	return kind
}

// present returns the non-null cells in column order.
func (c Column) present() []Cell {
	out := make([]Cell, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if !cell.IsNull() {
			out = append(out, cell)
		}
	}
	return out
}
