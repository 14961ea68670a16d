package coltype

import "fmt"

// Category is the semantic type assigned to a column.
type Category int

const (
	Text Category = iota
	Numeric
	Date
	TextNumeric
)

// Code returns the short wire code: N, D, TN or T.
func (c Category) Code() string {
	switch c {
	case Numeric:
		return "N"
	case Date:
		return "D"
	case TextNumeric:
		return "TN"
	default:
		return "T"
	}
}

// Label returns the human readable name shown next to a column.
func (c Category) Label() string {
	switch c {
	case Numeric:
		return "Numeric"
	case Date:
		return "Date"
	case TextNumeric:
		return "Text + Numeric"
	default:
		return "Text"
	}
}

func (c Category) String() string { return c.Code() }

// MarshalText encodes the category as its wire code.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Code()), nil
}

// UnmarshalText decodes a wire code.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory converts a wire code back into a Category.
func ParseCategory(code string) (Category, error) {
	switch code {
	case "N":
		return Numeric, nil
	case "D":
		return Date, nil
	case "TN":
		return TextNumeric, nil
	case "T":
		return Text, nil
	default:
		return Text, fmt.Errorf("unknown category code %q", code)
	}
}

// Categories lists every category in precedence order.
func Categories() []Category {
	return []Category{Numeric, Date, TextNumeric, Text}
}
