package ingest

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/coltype/internal/core/coltype"
	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParse_CSV(t *testing.T) {
	data := "id,name,joined\n1,Ada,2023-01-31\n2,Grace,\n"
	tbl, err := Parse("people.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "joined"}, tbl.Names())
	assert.Equal(t, 2, tbl.Rows)
	assert.Equal(t, coltype.String("1"), tbl.Columns[0].Cells[0])
	assert.True(t, tbl.Columns[2].Cells[1].IsNull())
}

func TestParse_NumbersWithBlankRowAreText(t *testing.T) {
	tbl, err := Parse("prices.csv", strings.NewReader("price,qty\n1.5,1\n2.25,2\n,\n"))
	require.NoError(t, err)
	require.Len(t, tbl.Columns, 2)

	c := coltype.New(coltype.Options{Seed: 1})
	for _, col := range tbl.Columns {
		res := c.Explain(col)
		assert.Equal(t, coltype.Text, res.Category, col.Name)
		assert.Empty(t, res.DateFormat, col.Name)
	}
}

func TestParse_TSVAndBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\tb\nx\ty\n")...)
	tbl, err := Parse("data.TSV", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.Equal(t, "y", tbl.Columns[1].Cells[0].Str)
}

func TestParse_MissingMarkers(t *testing.T) {
	tbl, err := Parse("m.csv", strings.NewReader("v\nNA\nnull\n n/a \nreal\n"))
	require.NoError(t, err)

	cells := tbl.Columns[0].Cells
	assert.True(t, cells[0].IsNull())
	assert.True(t, cells[1].IsNull())
	assert.True(t, cells[2].IsNull())
	assert.Equal(t, "real", cells[3].Str)
}

func TestParse_RaggedRowsAndHeaders(t *testing.T) {
	data := "a,a,\n1\n1,2,3,4\n"
	tbl, err := Parse("r.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "Unnamed: 3"}, tbl.Names())
	assert.True(t, tbl.Columns[3].Cells[0].IsNull())
	assert.Equal(t, "4", tbl.Columns[3].Cells[1].Str)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    string
		wantErr error
	}{
		{"no file name", "", "a\n1\n", ErrNoFile},
		{"unsupported extension", "report.pdf", "x", ErrUnsupportedFormat},
		{"empty csv", "empty.csv", "", ErrEmptyFile},
		{"only bom", "bom.csv", "\xEF\xBB\xBF", ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.file, strings.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestParse_InvalidUTF8IsSanitized(t *testing.T) {
	tbl, err := Parse("u.csv", bytes.NewReader([]byte("name\nab\xffc\n")))
	require.NoError(t, err)
	assert.Equal(t, "ab?c", tbl.Columns[0].Cells[0].Str)
}

func TestParse_Compressed(t *testing.T) {
	csvData := []byte("n,word\n1,one\n2,two\n")

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write(csvData)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	tbl, err := Parse("nums.csv.gz", &gz)
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "word"}, tbl.Names())
	assert.Equal(t, 2, tbl.Rows)

	var lz bytes.Buffer
	lw := lz4.NewWriter(&lz)
	_, err = lw.Write(csvData)
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	tbl, err = Parse("nums.csv.lz4", &lz)
	require.NoError(t, err)
	assert.Equal(t, "two", tbl.Columns[1].Cells[1].Str)
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	day := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"name", "amount", "when", "flag"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"widget", 12.5, day, true}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"gadget", 3, day.AddDate(0, 0, 1), false}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	tbl, err := Parse("book.xlsx", &buf)
	require.NoError(t, err)
	require.Equal(t, []string{"name", "amount", "when", "flag"}, tbl.Names())
	require.Equal(t, 2, tbl.Rows)

	assert.Equal(t, coltype.KindString, tbl.Columns[0].Kind())
	assert.Equal(t, coltype.KindNumber, tbl.Columns[1].Kind())
	assert.InDelta(t, 12.5, tbl.Columns[1].Cells[0].Num, 1e-9)
	assert.Equal(t, coltype.KindTime, tbl.Columns[2].Kind())
	assert.Equal(t, "2024-05-17", tbl.Columns[2].Cells[0].Time.Format("2006-01-02"))
	assert.Equal(t, "TRUE", tbl.Columns[3].Cells[0].Str)
}

func TestParse_InvalidXLSX(t *testing.T) {
	_, err := Parse("broken.xlsx", strings.NewReader("not a zip"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid xlsx")
}

func TestLookup_LongestSuffix(t *testing.T) {
	f, ok := Lookup("/tmp/Data.CSV.GZ")
	require.True(t, ok)
	assert.Equal(t, "CSV (gzip)", f.Name)

	_, ok = Lookup("notes.txt")
	assert.False(t, ok)
	assert.Contains(t, Extensions(), ".xlsx")
}

func TestRecords_JSON(t *testing.T) {
	tbl := &Table{
		Columns: []coltype.Column{
			{Name: "b", Cells: []coltype.Cell{coltype.Number(1.5), coltype.Null()}},
			{Name: "a", Cells: []coltype.Cell{coltype.String("x"), coltype.String("y")}},
		},
		Rows: 2,
	}

	b, err := json.Marshal(tbl.Records(0))
	require.NoError(t, err)
	assert.Equal(t, `[{"b":1.5,"a":"x"},{"b":null,"a":"y"}]`, string(b))

	assert.Len(t, tbl.Records(1), 1)
	assert.Equal(t, []string{"", "y"}, tbl.Row(1))
}

func TestIsDateFormatCode(t *testing.T) {
	assert.True(t, isDateFormatCode("yyyy-mm-dd"))
	assert.True(t, isDateFormatCode("[$-409]d-mmm-yy;@"))
	assert.True(t, isDateFormatCode("hh:mm"))
	assert.False(t, isDateFormatCode(`0.00"days"`))
	assert.False(t, isDateFormatCode("#,##0.00"))
	assert.False(t, isDateFormatCode("General"))
}
