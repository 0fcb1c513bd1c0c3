package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// DetectTables detects table-like regions in a decoded grid.
// Returns cell ranges (e.g., "A1:D10") that likely represent tables. rowNumbers
// and columns map grid positions back to sheet coordinates; when nil the grid is
// assumed to start at A1.
func DetectTables(rows [][]string, rowNumbers []int, columns []string, params TableDetectionParams) []string {
	if len(rows) == 0 {
		return nil
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return nil
	}

	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmptyCells := countNonEmptyCells(rows, minRow, maxRow, minCol, maxCol)

	if nonEmptyCells < params.MinNonemptyCells {
		return nil
	}

	density := float64(nonEmptyCells) / float64(totalCells)
	if density < params.DensityMin {
		return nil
	}

	startCell, err := cellName(rowNumbers, columns, minRow, minCol)
	if err != nil {
		return nil
	}
	endCell, err := cellName(rowNumbers, columns, maxRow, maxCol)
	if err != nil {
		return nil
	}
	return []string{fmt.Sprintf("%s:%s", startCell, endCell)}
}

// cellName returns the sheet address of the grid position (rowIdx, colIdx).
func cellName(rowNumbers []int, columns []string, rowIdx, colIdx int) (string, error) {
	row := rowIdx + 1
	if rowIdx < len(rowNumbers) {
		row = rowNumbers[rowIdx]
	}
	col := colIdx + 1
	if colIdx < len(columns) {
		col = int(ColumnNumber(columns[colIdx]))
	}
	return excelize.CoordinatesToCellName(col, row)
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
