package models

import "strconv"

// Sheet is a worksheet as produced by the package reader: a name plus its sparse rows.
type Sheet struct {
	Name string
	Rows []RawRow
}

// StringSheet is a decoded sheet: a dense grid of strings.
type StringSheet struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Columns holds the column label of each dense column, when known.
	Columns []string `json:"columns,omitempty"`
	// RowNumbers holds the 1-based row number of each dense row, when known.
	RowNumbers []int `json:"row_numbers,omitempty"`
	// Rows contains one row per stored row. Spreadsheet rows are dense and equal
	// in length; delimited rows keep their record width.
	Rows [][]string `json:"rows"`
	// TableCandidates contains cell ranges likely representing tables.
	TableCandidates []string `json:"table_candidates,omitempty"`
	// PrintAreas contains user-defined print areas.
	PrintAreas []PrintArea `json:"print_areas,omitempty"`
}

// Width returns the number of columns of the sheet.
func (s StringSheet) Width() int {
	if len(s.Rows) == 0 {
		return 0
	}
	return len(s.Rows[0])
}

func cellAddress(column string, row int) string {
	return column + strconv.Itoa(row)
}
