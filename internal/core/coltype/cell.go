package coltype

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the underlying kind of a raw cell value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindTime
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Cell is a single raw value from a parsed table.
// The zero value is a missing (null) cell.
type Cell struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

// Null returns a missing cell.
func Null() Cell { return Cell{} }

// String returns a string cell.
func String(s string) Cell { return Cell{Kind: KindString, Str: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{Kind: KindNumber, Num: f} }

// Time returns a date/time cell.
func Time(t time.Time) Cell { return Cell{Kind: KindTime, Time: t} }

// IsNull reports whether the cell is missing.
func (c Cell) IsNull() bool { return c.Kind == KindNull }

// Text renders the cell as text. Missing cells render as "".
func (c Cell) Text() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindTime:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 && c.Time.Nanosecond() == 0 {
			return c.Time.Format("2006-01-02")
		}
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Value returns the cell as a JSON-friendly value: float64, string, or nil.
// Time cells are rendered with Text.
func (c Cell) Value() any {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return c.Num
	case KindTime:
		return c.Text()
	default:
		return nil
	}
}

// trimmed returns the cell text with surrounding whitespace removed.
func (c Cell) trimmed() string {
	return strings.TrimSpace(c.Text())
}
