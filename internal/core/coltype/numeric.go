package coltype

import (
	"errors"
	"math"
	"regexp"
	"strconv"
)

// numericRegex matches integers, decimals and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// infinityRegex matches signed inf and infinity in any case.
var infinityRegex = regexp.MustCompile(`(?i)^[+-]?inf(inity)?$`)

// ToNumber coerces a cell to a number. Missing and uncoercible cells
// report false rather than an error.
func ToNumber(c Cell) (float64, bool) {
	switch c.Kind {
	case KindNumber:
		if math.IsNaN(c.Num) {
			return 0, false
		}
		return c.Num, true
	case KindString:
		s := c.trimmed()
		if infinityRegex.MatchString(s) {
			return math.Inf(infSign(s)), true
		}
		if !numericRegex.MatchString(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Out of range literals still count as numbers.
			if errors.Is(err, strconv.ErrRange) {
				return f, true
			}
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func infSign(s string) int {
	if s[0] == '-' {
		return -1
	}
	return 1
}

// IsNumeric reports whether every cell of the column coerces to a number.
// A single missing or non-numeric cell fails the whole column, and an
// empty column is not numeric.
func IsNumeric(col Column) bool {
	if col.Len() == 0 {
		return false
	}
	for _, cell := range col.Cells {
		if _, ok := ToNumber(cell); !ok {
			return false
		}
	}
	return true
}
