package parser

import (
	"testing"
	"time"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
)

func ptr[T any](v T) *T {
	return &v
}

func TestDecodeCell(t *testing.T) {
	sst := NewSharedStrings([]string{"zero", "one", "45000"})
	styles := NewStyleTable([]int{0, 14, 22, 15, 3}, nil, false)

	tests := []struct {
		name     string
		cell     models.RawCell
		expected string
	}{
		{"empty", models.RawCell{Column: "A", Row: 1}, ""},
		{"empty literal", models.RawCell{Value: ptr("")}, ""},
		{"number", models.RawCell{Value: ptr("42.5")}, "42.5"},
		{"shared string", models.RawCell{Value: ptr("1"), Type: models.CellTypeSharedString}, "one"},
		{"shared string out of range", models.RawCell{Value: ptr("7"), Type: models.CellTypeSharedString}, "7"},
		{"shared string not an index", models.RawCell{Value: ptr("x"), Type: models.CellTypeSharedString}, "x"},
		{"inline string", models.RawCell{InnerText: ptr("inline"), Type: models.CellTypeInlineString}, "inline"},
		{"formula string", models.RawCell{Value: ptr("result"), Type: models.CellTypeFormulaString}, "result"},
		{"boolean", models.RawCell{Value: ptr("1"), Type: models.CellTypeBoolean}, "1"},
		{"error", models.RawCell{Value: ptr("#DIV/0!"), Type: models.CellTypeError}, "#DIV/0!"},
		{"date pattern", models.RawCell{Value: ptr("45000"), StyleIndex: ptr(1)}, "15/03/2023"},
		{"date with time", models.RawCell{Value: ptr("45000.5"), StyleIndex: ptr(2)}, "2023/03/15 12:00:00"},
		{"date at midnight", models.RawCell{Value: ptr("45000"), StyleIndex: ptr(3)}, "03/15/2023"},
		{"date style on text", models.RawCell{Value: ptr("abc"), StyleIndex: ptr(1)}, "abc"},
		{"negative serial", models.RawCell{Value: ptr("-5"), StyleIndex: ptr(1)}, "25/12/1899"},
		{"negative serial with time", models.RawCell{Value: ptr("-1.25"), StyleIndex: ptr(3)}, "1899/12/29 06:00:00"},
		{"NaN serial", models.RawCell{Value: ptr("NaN"), StyleIndex: ptr(1)}, "NaN"},
		{"infinite serial", models.RawCell{Value: ptr("Inf"), StyleIndex: ptr(1)}, "Inf"},
		{"negative infinite serial", models.RawCell{Value: ptr("-Inf"), StyleIndex: ptr(1)}, "-Inf"},
		{"serial past year 9999", models.RawCell{Value: ptr("1e10"), StyleIndex: ptr(1)}, "1e10"},
		{"serial beyond float range of dates", models.RawCell{Value: ptr("99999999999999999999"), StyleIndex: ptr(1)}, "99999999999999999999"},
		{"last representable day", models.RawCell{Value: ptr("2958465"), StyleIndex: ptr(1)}, "31/12/9999"},
		{"first unrepresentable day", models.RawCell{Value: ptr("2958466"), StyleIndex: ptr(1)}, "2958466"},
		{"serial before year 100", models.RawCell{Value: ptr("-700000"), StyleIndex: ptr(1)}, "-700000"},
		{"number style", models.RawCell{Value: ptr("45000"), StyleIndex: ptr(4)}, "45000"},
		{"shared string with date style", models.RawCell{Value: ptr("2"), Type: models.CellTypeSharedString, StyleIndex: ptr(1)}, "15/03/2023"},
		{"shared text with date style", models.RawCell{Value: ptr("0"), Type: models.CellTypeSharedString, StyleIndex: ptr(1)}, "zero"},
		{"style out of range", models.RawCell{Value: ptr("45000"), StyleIndex: ptr(99)}, "45000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DecodeCell(tt.cell, styles, sst, nil)
			if result != tt.expected {
				t.Errorf("DecodeCell() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestDecodeCellNilTables(t *testing.T) {
	cell := models.RawCell{Value: ptr("3"), Type: models.CellTypeSharedString, StyleIndex: ptr(0)}
	if result := DecodeCell(cell, nil, nil, nil); result != "3" {
		t.Errorf("DecodeCell() = %q, expected %q", result, "3")
	}
}

func TestDecodeCellDate1904(t *testing.T) {
	styles := NewStyleTable([]int{14}, nil, true)
	cell := models.RawCell{Value: ptr("1"), StyleIndex: ptr(0)}

	if result := DecodeCell(cell, styles, nil, nil); result != "02/01/1904" {
		t.Errorf("DecodeCell() = %q, expected %q", result, "02/01/1904")
	}
}

func TestDecodeCellHook(t *testing.T) {
	styles := NewStyleTable([]int{14}, nil, false)
	cell := models.RawCell{Value: ptr("45000"), StyleIndex: ptr(0)}

	var got time.Time
	hook := func(value time.Time, fallback func() string) string {
		got = value
		return "hooked " + fallback()
	}

	result := DecodeCell(cell, styles, nil, hook)
	if result != "hooked 15/03/2023" {
		t.Errorf("DecodeCell() = %q, expected %q", result, "hooked 15/03/2023")
	}
	if !SameDay(got, time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("hook received %v", got)
	}
}

func TestDecodeCellRecoversFromHookPanic(t *testing.T) {
	styles := NewStyleTable([]int{14}, nil, false)
	cell := models.RawCell{Value: ptr("45000"), StyleIndex: ptr(0)}

	hook := func(time.Time, func() string) string {
		panic("boom")
	}

	if result := DecodeCell(cell, styles, nil, hook); result != "45000" {
		t.Errorf("DecodeCell() = %q, expected literal fallback %q", result, "45000")
	}
}
