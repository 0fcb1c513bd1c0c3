package parser

import (
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
)

// Columns returns the distinct column labels used anywhere in rows, in
// spreadsheet column order.
func Columns(rows []models.RawRow) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, row := range rows {
		for _, cell := range row.Cells {
			label := ColumnLabel(cell.Column)
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			labels = append(labels, label)
		}
	}
	SortColumns(labels)
	return labels
}

// Reconstruct fills the gaps of a sparse sheet. Every returned row has one cell
// per column in Columns(rows); missing cells are empty placeholders.
func Reconstruct(rows []models.RawRow) [][]models.RawCell {
	return reconstruct(rows, Columns(rows))
}

func reconstruct(rows []models.RawRow, columns []string) [][]models.RawCell {
	if len(rows) == 0 {
		return nil
	}

	grid := make([][]models.RawCell, len(rows))
	for i, row := range rows {
		byAddress := make(map[string]models.RawCell, len(row.Cells))
		for _, cell := range row.Cells {
			addr := cell.Address()
			if _, dup := byAddress[addr]; !dup {
				byAddress[addr] = cell
			}
		}

		dense := make([]models.RawCell, len(columns))
		for j, label := range columns {
			placeholder := emptyCell(label, row.Number)
			if cell, ok := byAddress[placeholder.Address()]; ok {
				dense[j] = cell
			} else {
				dense[j] = placeholder
			}
		}
		grid[i] = dense
	}
	return grid
}

func emptyCell(column string, row int) models.RawCell {
	empty := ""
	return models.RawCell{Column: column, Row: row, Value: &empty}
}

// DecodeSheet reconstructs and decodes a whole sheet into a dense string grid.
func DecodeSheet(sheet models.Sheet, styles *StyleTable, sst *SharedStrings, hook DateFormatter) models.StringSheet {
	columns := Columns(sheet.Rows)
	grid := reconstruct(sheet.Rows, columns)

	out := models.StringSheet{
		Name:       sheet.Name,
		Columns:    columns,
		RowNumbers: make([]int, len(grid)),
		Rows:       make([][]string, len(grid)),
	}
	for i, cells := range grid {
		out.RowNumbers[i] = sheet.Rows[i].Number
		row := make([]string, len(cells))
		for j, cell := range cells {
			row[j] = DecodeCell(cell, styles, sst, hook)
		}
		out.Rows[i] = row
	}
	return out
}
