package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

func writeReports(w io.Writer, format outputFormat, reports []Report) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	default:
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, renderReport(r))
		}
		return nil
	}
}

func renderReport(r Report) string {
	t := table.NewWriter()
	t.SetTitle(filepath.Base(r.File))
	t.SetCaption(r.File + " (" + strconv.Itoa(r.Rows) + " rows)")
	t.AppendHeader(table.Row{"#", "Column", "Type", "Label", "Date format"})
	for i, c := range r.Columns {
		t.AppendRow(table.Row{i + 1, c.Name, c.Category.Code(), c.Category.Label(), c.DateFormat})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}
