package ingest

import (
	"fmt"
	"strings"
)

// normalizeHeaders returns width unique, non-empty column names.
// Blank names become "Unnamed: <i>" and repeats get ".1", ".2" suffixes.
func normalizeHeaders(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]bool, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		seen[candidate] = true
		names[i] = candidate
	}
	return names
}
