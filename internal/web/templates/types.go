package templates

import "time"

// ColumnView is one classified column as shown in the results panel.
type ColumnView struct {
	Name       string
	Slug       string // ASCII identifier derived from Name
	Code       string // N, D, TN or T
	Label      string // Numeric, Date, Text + Numeric or Text
	DateFormat string
}

// ResultView is the rendered outcome of one upload.
type ResultView struct {
	FileName  string
	RunID     string
	Rows      int
	Columns   []ColumnView
	Preview   [][]string
	Truncated bool
	Message   string
}

// RunView is one row of the history table.
type RunView struct {
	ID        string
	FileName  string
	Rows      int
	Columns   int
	Summary   string // e.g. "2 N, 1 D, 3 T"
	CreatedAt time.Time
}

// IndexPage is the data for the upload page.
type IndexPage struct {
	Extensions  []string
	MaxFileSize string
	Recent      []RunView
}
