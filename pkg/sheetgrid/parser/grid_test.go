package parser

import (
	"slices"
	"testing"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
)

func cell(column string, row int, value string) models.RawCell {
	return models.RawCell{Column: column, Row: row, Value: ptr(value)}
}

func TestDecodeSheetFillsGaps(t *testing.T) {
	sheet := models.Sheet{
		Name: "People",
		Rows: []models.RawRow{
			{Number: 1, Cells: []models.RawCell{cell("A", 1, "Name")}},
			{Number: 2, Cells: []models.RawCell{cell("A", 2, "Alice"), cell("B", 2, "30")}},
		},
	}

	result := DecodeSheet(sheet, nil, nil, nil)

	expected := [][]string{{"Name", ""}, {"Alice", "30"}}
	if len(result.Rows) != len(expected) {
		t.Fatalf("Expected %d rows, got %d", len(expected), len(result.Rows))
	}
	for i := range expected {
		if !slices.Equal(result.Rows[i], expected[i]) {
			t.Errorf("row %d = %q, expected %q", i, result.Rows[i], expected[i])
		}
	}
	if !slices.Equal(result.Columns, []string{"A", "B"}) {
		t.Errorf("Columns = %v", result.Columns)
	}
	if !slices.Equal(result.RowNumbers, []int{1, 2}) {
		t.Errorf("RowNumbers = %v", result.RowNumbers)
	}
	if result.Name != "People" || result.Width() != 2 {
		t.Errorf("Name/Width = %q/%d", result.Name, result.Width())
	}
}

func TestReconstructOrdersColumnsNumerically(t *testing.T) {
	rows := []models.RawRow{
		{Number: 1, Cells: []models.RawCell{cell("AA", 1, "aa"), cell("B", 1, "b")}},
		{Number: 3, Cells: []models.RawCell{cell("Z", 3, "z")}},
		{Number: 4},
	}

	grid := Reconstruct(rows)

	if len(grid) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(grid))
	}
	for i, row := range grid {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, expected 3", i, len(row))
		}
	}

	labels := make([]string, len(grid[0]))
	for i, c := range grid[0] {
		labels[i] = c.Column
	}
	if !slices.Equal(labels, []string{"B", "Z", "AA"}) {
		t.Errorf("column order = %v, expected [B Z AA]", labels)
	}
	if got := grid[1][1].Literal(); got != "z" {
		t.Errorf("Z3 = %q, expected %q", got, "z")
	}
	if got := grid[1][0]; got.Row != 3 || got.Literal() != "" {
		t.Errorf("placeholder = %+v, expected empty cell on row 3", got)
	}
}

func TestReconstructKeepsFirstDuplicate(t *testing.T) {
	rows := []models.RawRow{
		{Number: 1, Cells: []models.RawCell{cell("A", 1, "first"), cell("A", 1, "second")}},
	}

	grid := Reconstruct(rows)
	if got := grid[0][0].Literal(); got != "first" {
		t.Errorf("A1 = %q, expected %q", got, "first")
	}
}

func TestReconstructEmptySheet(t *testing.T) {
	if grid := Reconstruct(nil); len(grid) != 0 {
		t.Errorf("Expected empty grid, got %v", grid)
	}
	sheet := DecodeSheet(models.Sheet{Name: "Empty"}, nil, nil, nil)
	if len(sheet.Rows) != 0 || sheet.Width() != 0 {
		t.Errorf("Expected empty sheet, got %+v", sheet)
	}
}

func TestDetectTables(t *testing.T) {
	rows := [][]string{
		{"", "", ""},
		{"", "Name", "Age"},
		{"", "Alice", "30"},
	}

	result := DetectTables(rows, []int{1, 2, 3}, []string{"A", "B", "D"}, DefaultTableParams())
	if !slices.Equal(result, []string{"B2:D3"}) {
		t.Errorf("DetectTables = %v, expected [B2:D3]", result)
	}

	sparse := [][]string{{"x", ""}, {"", ""}}
	if result := DetectTables(sparse, nil, nil, DefaultTableParams()); result != nil {
		t.Errorf("DetectTables on sparse grid = %v, expected nil", result)
	}
}
