package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/coltype/internal/core/coltype"
)

// missingMarkers are cell values read as missing rather than as text.
var missingMarkers = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissing reports whether a raw text value denotes a missing cell.
func IsMissing(s string) bool {
	return missingMarkers[strings.TrimSpace(s)]
}

// textCell converts raw delimited text into a cell.
func textCell(s string) coltype.Cell {
	if IsMissing(s) {
		return coltype.Null()
	}
	return coltype.String(s)
}

func parseCSV(r io.Reader) (*Table, error) { return parseDelimited(r, ',') }

func parseTSV(r io.Reader) (*Table, error) { return parseDelimited(r, '\t') }

// parseDelimited reads delimited text. The first record is the header.
func parseDelimited(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(wrapText(r))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	var rows [][]coltype.Cell
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}

		row := make([]coltype.Cell, len(record))
		for i, v := range record {
			row[i] = textCell(v)
		}
		rows = append(rows, row)
	}

	return buildTable(header, rows), nil
}
