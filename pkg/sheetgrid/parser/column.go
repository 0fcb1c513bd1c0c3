package parser

import (
	"sort"
	"strings"
)

// ColumnNumber converts a column label to its 1-based spreadsheet number
// ("A" = 1, "Z" = 26, "AA" = 27). Letters are read case-insensitively and any
// other rune is ignored. Labels longer than 13 letters overflow uint64; OOXML
// caps labels at three letters (XFD).
func ColumnNumber(label string) uint64 {
	var n uint64
	for _, r := range label {
		switch {
		case r >= 'A' && r <= 'Z':
			n = n*26 + uint64(r-'A'+1)
		case r >= 'a' && r <= 'z':
			n = n*26 + uint64(r-'a'+1)
		}
	}
	return n
}

// CompareColumns orders two column labels the way a spreadsheet does:
// Z < AA < AB. It returns -1, 0 or +1.
func CompareColumns(a, b string) int {
	na, nb := ColumnNumber(a), ColumnNumber(b)
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}

// SortColumns sorts labels in place by spreadsheet column order.
func SortColumns(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return CompareColumns(labels[i], labels[j]) < 0
	})
}

// ColumnLabel extracts the letters of a cell reference ("AB12" -> "AB").
func ColumnLabel(ref string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return r
		}
		return -1
	}, ref)
}
