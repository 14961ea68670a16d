package web

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/coltype/internal/core"
	"github.com/JonMunkholm/coltype/internal/core/coltype"
	"github.com/JonMunkholm/coltype/internal/history"
	"github.com/JonMunkholm/coltype/internal/web/templates"
	"github.com/mozillazg/go-unidecode"
)

// previewRows caps the rows rendered into the HTML fragment.
const previewRows = 20

// slugify turns a column header into an ASCII identifier usable in
// element ids: "Café Total" -> "cafe-total".
func slugify(name string) string {
	ascii := strings.ToLower(unidecode.Unidecode(name))

	var b strings.Builder
	dash := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// uniqueSlugs slugifies names, suffixing repeats so ids stay unique.
func uniqueSlugs(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		s := slugify(n)
		if s == "" {
			s = "column-" + strconv.Itoa(i)
		}
		if c := seen[s]; c > 0 {
			seen[s]++
			s = fmt.Sprintf("%s-%d", s, c)
		} else {
			seen[s] = 1
		}
		out[i] = s
	}
	return out
}

func columnViews(cols []coltype.ColumnResult) []templates.ColumnView {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	slugs := uniqueSlugs(names)

	out := make([]templates.ColumnView, len(cols))
	for i, c := range cols {
		out[i] = templates.ColumnView{
			Name:       c.Name,
			Slug:       slugs[i],
			Code:       c.Category.Code(),
			Label:      c.Category.Label(),
			DateFormat: c.DateFormat,
		}
	}
	return out
}

func resultView(resp *core.UploadResponse) templates.ResultView {
	v := templates.ResultView{
		FileName: resp.FileName,
		RunID:    resp.RunID,
		Rows:     resp.Rows,
		Columns:  columnViews(resp.Details),
		Message:  resp.Message,
	}
	if resp.Table != nil {
		n := min(resp.Table.Rows, previewRows)
		v.Preview = make([][]string, n)
		for i := range n {
			v.Preview[i] = resp.Table.Row(i)
		}
		v.Truncated = resp.Table.Rows > n
	}
	return v
}

func runViews(runs []history.Run) []templates.RunView {
	out := make([]templates.RunView, len(runs))
	for i, r := range runs {
		out[i] = templates.RunView{
			ID:        r.ID.String(),
			FileName:  r.FileName,
			Rows:      r.Rows,
			Columns:   len(r.Columns),
			Summary:   summarize(r.Counts()),
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}

// summarize renders category counts in precedence order, e.g. "2 N, 1 T".
func summarize(counts map[coltype.Category]int) string {
	var parts []string
	for _, c := range coltype.Categories() {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c.Code()))
		}
	}
	return strings.Join(parts, ", ")
}

// formatBytes renders a byte count for the upload hint.
func formatBytes(n int64) string {
	const mb = 1 << 20
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%d KB", (n+1023)/1024)
}
