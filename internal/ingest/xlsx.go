package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/coltype/internal/core/coltype"
	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first worksheet of a workbook. The first row is the
// header. Numeric cells keep their kind, and numeric cells carrying a date
// number format become time cells.
func parseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	sheet := sheets[0]

	use1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		use1904 = *props.Date1904
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer rows.Close()

	rd := &sheetReader{file: f, sheet: sheet, use1904: use1904, dateStyles: make(map[int]bool)}

	var (
		header     []string
		haveHeader bool
		data       [][]coltype.Cell
	)
	for rowNum := 1; rows.Next(); rowNum++ {
		raw, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("invalid xlsx: row %d: %w", rowNum, err)
		}
		if !haveHeader {
			formatted, err := formattedRow(f, sheet, rowNum, len(raw))
			if err != nil {
				return nil, err
			}
			header, haveHeader = formatted, true
			continue
		}

		row := make([]coltype.Cell, len(raw))
		for i, v := range raw {
			row[i] = rd.cell(i+1, rowNum, v)
		}
		data = append(data, row)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	if !haveHeader {
		return nil, ErrEmptyFile
	}

	return buildTable(header, data), nil
}

// formattedRow reads display values for the header row.
func formattedRow(f *excelize.File, sheet string, rowNum, width int) ([]string, error) {
	out := make([]string, width)
	for i := range out {
		name, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return nil, fmt.Errorf("invalid xlsx: %w", err)
		}
		v, err := f.GetCellValue(sheet, name)
		if err != nil {
			return nil, fmt.Errorf("invalid xlsx: %w", err)
		}
		out[i] = v
	}
	return out, nil
}

// sheetReader converts raw worksheet values into typed cells.
type sheetReader struct {
	file       *excelize.File
	sheet      string
	use1904    bool
	dateStyles map[int]bool
}

func (s *sheetReader) cell(col, row int, raw string) coltype.Cell {
	if strings.TrimSpace(raw) == "" {
		return coltype.Null()
	}

	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return coltype.String(raw)
	}
	typ, err := s.file.GetCellType(s.sheet, name)
	if err != nil {
		return coltype.String(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return textCell(raw)
	case excelize.CellTypeBool:
		if raw == "1" {
			return coltype.String("TRUE")
		}
		return coltype.String("FALSE")
	case excelize.CellTypeDate:
		if t, ok := parseISOCell(raw); ok {
			return coltype.Time(t)
		}
		return coltype.String(raw)
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return textCell(raw)
	}
	if s.isDateStyled(name) {
		if t, err := excelize.ExcelDateToTime(n, s.use1904); err == nil {
			return coltype.Time(t)
		}
	}
	return coltype.Number(n)
}

func (s *sheetReader) isDateStyled(cell string) bool {
	id, err := s.file.GetCellStyle(s.sheet, cell)
	if err != nil || id == 0 {
		return false
	}
	if v, ok := s.dateStyles[id]; ok {
		return v
	}

	isDate := false
	if style, err := s.file.GetStyle(id); err == nil {
		isDate = isDateNumFmt(style.NumFmt)
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	s.dateStyles[id] = isDate
	return isDate
}

// isDateNumFmt reports whether a built-in number format id renders dates.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode inspects a custom format code for date or time tokens,
// ignoring quoted literals, escaped characters and bracketed sections.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c == ']' {
				inBracket = false
			}
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			b.WriteByte(c)
		}
	}
	plain := strings.ToLower(b.String())
	if plain == "general" {
		return false
	}
	return strings.ContainsAny(plain, "ydhs")
}

func parseISOCell(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
