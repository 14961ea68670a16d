package coltype

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DefaultSampleSize bounds the permissive date fallback.
const DefaultSampleSize = 10

// DatePattern is one format template tried by the DateRecognizer.
type DatePattern struct {
	Name   string // e.g. "YYYY-MM-DD"
	Layout string // Go reference layout
}

// Parse reports whether s parses under exactly this pattern.
func (p DatePattern) Parse(s string) (time.Time, bool) {
	t, err := time.Parse(p.Layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day and month fields use the unpadded layout elements so that both
// "1/2/2023" and "01/02/2023" are accepted.
var defaultPatterns = []DatePattern{
	{Name: "YYYY-MM-DD", Layout: "2006-1-2"},
	{Name: "DD/MM/YYYY", Layout: "2/1/2006"},
	{Name: "MM/DD/YYYY", Layout: "1/2/2006"},
	{Name: "YYYY/MM/DD", Layout: "2006/1/2"},
	{Name: "DD-MM-YYYY", Layout: "2-1-2006"},
	{Name: "MM-DD-YYYY", Layout: "1-2-2006"},
	{Name: "Month DD, YYYY", Layout: "January 2, 2006"},
	{Name: "DD Month YYYY", Layout: "2 January 2006"},
	{Name: "YYYY-MM-DD HH:MM:SS", Layout: "2006-1-2 15:4:5"},
}

// DefaultPatterns returns a copy of the built-in pattern catalog in
// priority order.
func DefaultPatterns() []DatePattern {
	out := make([]DatePattern, len(defaultPatterns))
	copy(out, defaultPatterns)
	return out
}

// PermissiveFallback is the secondary date strategy used when no catalog
// pattern covers the whole column. It parses a bounded sample of the
// column without a fixed format, so it may accept a column whose
// unsampled values are not dates.
type PermissiveFallback struct {
	SampleSize int
	Sampler    Sampler
}

// Matches reports whether every sampled value parses as a date.
func (f PermissiveFallback) Matches(cells []Cell) bool {
	size := f.SampleSize
	if size <= 0 {
		size = DefaultSampleSize
	}
	sampler := f.Sampler
	if sampler == nil {
		sampler = RandomSampler{}
	}

	sample := sampler.Sample(cells, size)
	if len(sample) == 0 {
		return false
	}
	for _, cell := range sample {
		if !parsePermissive(cell) {
			return false
		}
	}
	return true
}

func parsePermissive(c Cell) bool {
	switch c.Kind {
	case KindTime:
		return true
	case KindString:
		s := strings.TrimSpace(c.Str)
		if s == "" {
			return false
		}
		// Plain numbers are never dates, even where a parser would
		// read them as a timestamp.
		if _, ok := ToNumber(c); ok {
			return false
		}
		_, err := dateparse.ParseAny(s)
		return err == nil
	default:
		return false
	}
}

// DateRecognizer decides whether a column holds calendar dates.
type DateRecognizer struct {
	Patterns []DatePattern
	Fallback PermissiveFallback
}

// NewDateRecognizer returns a recognizer using the default catalog and a
// random sample of DefaultSampleSize values for the fallback.
func NewDateRecognizer() DateRecognizer {
	return DateRecognizer{
		Patterns: DefaultPatterns(),
		Fallback: PermissiveFallback{SampleSize: DefaultSampleSize, Sampler: RandomSampler{}},
	}
}

// IsDate reports whether the column is date-like.
func (r DateRecognizer) IsDate(col Column) bool {
	_, ok := r.Match(col)
	return ok
}

// Match reports whether the column is date-like and names the strategy
// that accepted it: a catalog pattern name, "datetime" for columns whose
// cells are already dates, or "permissive" for the sampled fallback.
//
// Missing cells are ignored. A column without any present value is
// never a date.
func (r DateRecognizer) Match(col Column) (string, bool) {
	cells := col.present()
	if len(cells) == 0 {
		return "", false
	}
	if col.Kind() == KindTime {
		return "datetime", true
	}
	if col.Kind() == KindNumber {
		return "", false
	}

	for _, p := range r.Patterns {
		if matchesAll(p, cells) {
			return p.Name, true
		}
	}

	if r.Fallback.Matches(cells) {
		return "permissive", true
	}
	return "", false
}

// matchesAll requires every cell to parse under the one pattern.
func matchesAll(p DatePattern, cells []Cell) bool {
	for _, cell := range cells {
		if cell.Kind == KindNumber {
			return false
		}
		if _, ok := p.Parse(cell.trimmed()); !ok {
			return false
		}
	}
	return true
}
