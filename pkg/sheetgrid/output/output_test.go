package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
)

func TestToJSON(t *testing.T) {
	wb := &models.WorkbookData{
		BookName: "book.xlsx",
		Sheets: []models.StringSheet{
			{Name: "Sheet1", Rows: [][]string{{"Name", ""}, {"Alice", "30"}}},
		},
	}

	compact, err := ToJSON(wb, false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	expected := `{"book_name":"book.xlsx","sheets":[{"name":"Sheet1","rows":[["Name",""],["Alice","30"]]}]}`
	if string(compact) != expected {
		t.Errorf("ToJSON = %s, expected %s", compact, expected)
	}

	pretty, err := ToJSON(wb, true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"book_name\"") {
		t.Errorf("pretty output not indented: %s", pretty)
	}
}

func TestSheetAndViewToJSON(t *testing.T) {
	sheet := &models.StringSheet{
		Name:       "Data",
		Rows:       [][]string{{"a"}},
		PrintAreas: []models.PrintArea{{R1: 1, C1: 1, R2: 1, C2: 1}},
	}
	data, err := SheetToJSON(sheet, false)
	if err != nil {
		t.Fatalf("SheetToJSON failed: %v", err)
	}
	var decoded models.StringSheet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Name != "Data" || len(decoded.PrintAreas) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}

	view := &models.PrintAreaView{BookName: "b", SheetName: "Data", Area: sheet.PrintAreas[0]}
	data, err = PrintAreaViewToJSON(view, false)
	if err != nil {
		t.Fatalf("PrintAreaViewToJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"area":{"r1":1,"c1":1,"r2":1,"c2":1}`) {
		t.Errorf("PrintAreaViewToJSON = %s", data)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{{"a", "b,c"}, {`say "hi"`, ""}}

	if err := WriteCSV(&buf, rows, 0); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	expected := "a,\"b,c\"\n\"say \"\"hi\"\"\",\n"
	if buf.String() != expected {
		t.Errorf("WriteCSV = %q, expected %q", buf.String(), expected)
	}

	buf.Reset()
	if err := WriteCSV(&buf, [][]string{{"x", "y"}}, '\t'); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if buf.String() != "x\ty\n" {
		t.Errorf("WriteCSV with tab = %q", buf.String())
	}
}
