package parser

// SharedStrings is the document-level string pool referenced by shared-string cells.
// It is immutable once built.
type SharedStrings struct {
	items []string
}

// NewSharedStrings builds a resolver over items in declaration order.
func NewSharedStrings(items []string) *SharedStrings {
	return &SharedStrings{items: items}
}

// Resolve returns the string at index, or false when index is out of range.
// A nil resolver behaves as an empty table.
func (s *SharedStrings) Resolve(index int) (string, bool) {
	if s == nil || index < 0 || index >= len(s.items) {
		return "", false
	}
	return s.items[index], true
}

// Len returns the number of strings in the table.
func (s *SharedStrings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}
