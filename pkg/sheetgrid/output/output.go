// Package output serializes decoded workbooks.
package output

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
)

// ToJSON serializes a decoded workbook.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// SheetToJSON serializes a single decoded sheet.
func SheetToJSON(sheet *models.StringSheet, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

// PrintAreaViewToJSON serializes a print area view.
func PrintAreaViewToJSON(view *models.PrintAreaView, pretty bool) ([]byte, error) {
	return marshal(view, pretty)
}

// ProfilesToJSON serializes encoding detection profiles.
func ProfilesToJSON(profiles []models.EncodingProfile, pretty bool) ([]byte, error) {
	return marshal(profiles, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// WriteCSV writes rows as delimited text. A zero delimiter means a comma.
func WriteCSV(w io.Writer, rows [][]string, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
