// Package models defines data structures for tabular decoding.
package models

// CellType is the storage type tag carried by a raw spreadsheet cell.
type CellType int

const (
	// CellTypeNone means the cell carried no type tag (a plain number in OOXML).
	CellTypeNone CellType = iota
	// CellTypeSharedString stores an index into the shared string table.
	CellTypeSharedString
	// CellTypeInlineString stores its text inline.
	CellTypeInlineString
	// CellTypeFormulaString stores the string result of a formula.
	CellTypeFormulaString
	// CellTypeNumber is an explicitly tagged number.
	CellTypeNumber
	// CellTypeBoolean stores 0 or 1.
	CellTypeBoolean
	// CellTypeError stores an error literal such as #DIV/0!.
	CellTypeError
	// CellTypeDate stores an ISO 8601 date literal.
	CellTypeDate
)

// ParseCellType maps an OOXML "t" attribute to a CellType.
func ParseCellType(t string) CellType {
	switch t {
	case "s":
		return CellTypeSharedString
	case "inlineStr":
		return CellTypeInlineString
	case "str":
		return CellTypeFormulaString
	case "n":
		return CellTypeNumber
	case "b":
		return CellTypeBoolean
	case "e":
		return CellTypeError
	case "d":
		return CellTypeDate
	default:
		return CellTypeNone
	}
}

// RawCell is a single cell as stored in a worksheet part.
type RawCell struct {
	// Column is the column label, letters only (e.g. "AB").
	Column string
	// Row is the 1-based row number.
	Row int
	// Value is the stored literal (<v>), nil when absent.
	Value *string
	// InnerText is the inline string text (<is>), nil when absent.
	InnerText *string
	// StyleIndex is the index into the cell format table, nil when absent.
	StyleIndex *int
	// Type is the storage type tag.
	Type CellType
}

// Address returns the A1-style reference of the cell.
func (c RawCell) Address() string {
	return cellAddress(c.Column, c.Row)
}

// HasContent reports whether the cell stores a literal or inline text.
func (c RawCell) HasContent() bool {
	return c.Value != nil || c.InnerText != nil
}

// Literal returns the stored literal, or "" when absent.
func (c RawCell) Literal() string {
	if c.Value == nil {
		return ""
	}
	return *c.Value
}

// RawRow is a sparse row of cells.
type RawRow struct {
	// Number is the 1-based row number.
	Number int
	// Cells holds the stored cells in document order.
	Cells []RawCell
}
