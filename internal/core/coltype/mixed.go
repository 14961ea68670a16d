package coltype

import "unicode"

// MixedContentDetector reports whether a column contains alphabetic and
// numeric characters anywhere across its values.
//
// Presence is measured per column, not per value: a column holding "apple"
// in one row and "42" in another is mixed.
type MixedContentDetector struct{}

// IsMixed reports whether at least one ASCII letter and at least one digit
// appear in the column's textual rendering.
func (MixedContentDetector) IsMixed(col Column) bool {
	hasText, hasNumbers := false, false
	for _, cell := range col.Cells {
		for _, r := range cell.Text() {
			switch {
			case isASCIILetter(r):
				hasText = true
			case unicode.IsDigit(r):
				hasNumbers = true
			}
			if hasText && hasNumbers {
				return true
			}
		}
	}
	return false
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
