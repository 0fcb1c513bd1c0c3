package parser

import (
	"strings"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
	"github.com/xuri/excelize/v2"
)

const printAreaName = "_xlnm.Print_Area"

// ExtractPrintAreas returns the print areas of a workbook keyed by sheet name.
func ExtractPrintAreas(f *excelize.File) map[string][]models.PrintArea {
	result := make(map[string][]models.PrintArea)

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printAreaName) {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName == "" && dn.Scope != "Workbook" {
			sheetName = dn.Scope
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'Sheet Name'!$A$1:$D$10,'Sheet Name'!$F$1:$G$4 or SheetName!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []models.PrintArea) {
	var areas []models.PrintArea
	var sheetName string

	for _, part := range splitReferences(ref) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		rangeStr := part
		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			sheet := unquoteSheetName(part[:idx])
			rangeStr = part[idx+1:]
			if sheetName == "" {
				sheetName = sheet
			}
		}

		if area, ok := parseRangeToArea(rangeStr); ok {
			areas = append(areas, area)
		}
	}

	return sheetName, areas
}

// splitReferences splits on commas outside quoted sheet names.
func splitReferences(ref string) []string {
	var parts []string
	inQuote := false
	start := 0
	for i, r := range ref {
		switch r {
		case '\'':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				parts = append(parts, ref[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, ref[start:])
}

func unquoteSheetName(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

// parseRangeToArea parses a range like $A$1:$D$10 (or a single cell $B$2).
func parseRangeToArea(rangeStr string) (models.PrintArea, bool) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return models.PrintArea{}, false
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.PrintArea{}, false
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.PrintArea{}, false
	}

	return models.PrintArea{
		R1: min(startRow, endRow),
		C1: min(startCol, endCol),
		R2: max(startRow, endRow),
		C2: max(startCol, endCol),
	}, true
}

// PrintAreaView restricts a decoded sheet to one print area. Cells outside the
// sheet's stored rows and columns are empty.
func PrintAreaView(bookName string, sheet models.StringSheet, area models.PrintArea) models.PrintAreaView {
	rowIndex := make(map[int]int, len(sheet.RowNumbers))
	for i, n := range sheet.RowNumbers {
		rowIndex[n] = i
	}
	colIndex := make(map[int]int, len(sheet.Columns))
	for i, label := range sheet.Columns {
		colIndex[int(ColumnNumber(label))] = i
	}

	width := area.C2 - area.C1 + 1
	rows := make([][]string, 0, area.R2-area.R1+1)
	for r := area.R1; r <= area.R2; r++ {
		row := make([]string, width)
		if i, ok := rowIndex[r]; ok {
			for c := area.C1; c <= area.C2; c++ {
				if j, ok := colIndex[c]; ok {
					row[c-area.C1] = sheet.Rows[i][j]
				}
			}
		}
		rows = append(rows, row)
	}

	return models.PrintAreaView{
		BookName:        bookName,
		SheetName:       sheet.Name,
		Area:            area,
		Rows:            rows,
		TableCandidates: tablesWithin(sheet.TableCandidates, area),
	}
}

func tablesWithin(ranges []string, area models.PrintArea) []string {
	var out []string
	for _, r := range ranges {
		t, ok := parseRangeToArea(r)
		if !ok {
			continue
		}
		if t.R1 <= area.R2 && t.R2 >= area.R1 && t.C1 <= area.C2 && t.C2 >= area.C1 {
			out = append(out, r)
		}
	}
	return out
}
