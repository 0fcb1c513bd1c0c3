package parser

import (
	"testing"
	"time"
)

func TestResolveFormatBuiltins(t *testing.T) {
	tests := []struct {
		id      int
		isDate  bool
		canUse  bool
		pattern string
	}{
		{0, false, false, ""},
		{1, false, false, ""},
		{4, false, false, ""},
		{10, false, false, ""},
		{49, false, false, ""},
		{14, true, true, "dd/MM/yyyy"},
		{34, true, true, "yyyy-MM-dd"},
		{166, true, true, "dd MMMM yyyy"},
		{22, true, false, "M/d/yy h:mm"},
		{16, true, false, "d-MMM"},
		{21, true, false, "h:mm:ss"},
		{200, false, false, ""},
	}

	for _, tt := range tests {
		d := ResolveFormat(tt.id, nil)
		if d.IsDateFormat != tt.isDate || d.CanUseCustomPattern != tt.canUse || d.Pattern != tt.pattern {
			t.Errorf("ResolveFormat(%d) = %+v, expected {IsDateFormat:%v CanUseCustomPattern:%v Pattern:%q}",
				tt.id, d, tt.isDate, tt.canUse, tt.pattern)
		}
	}
}

func TestResolveFormatCustom(t *testing.T) {
	custom := map[int]string{
		164: "yyyy/mm/dd",
		165: "0.00",
		166: "@",
		167: `[$-409]mmm\ dd\,\ yyyy;@`,
		168: "yyyy-mm-dd",
		169: `#,##0 "units"`,
		170: `"Total"`,
	}

	tests := []struct {
		id     int
		isDate bool
		canUse bool
	}{
		{164, true, true},
		{165, false, false},
		{166, false, false},
		{167, true, true},
		{168, true, true},
		{169, false, false},
		{170, false, false},
	}

	for _, tt := range tests {
		d := ResolveFormat(tt.id, custom)
		if d.IsDateFormat != tt.isDate || d.CanUseCustomPattern != tt.canUse {
			t.Errorf("ResolveFormat(%d, %q) = %+v, expected IsDateFormat=%v CanUseCustomPattern=%v",
				tt.id, custom[tt.id], d, tt.isDate, tt.canUse)
		}
	}

	if d := ResolveFormat(164, custom); d.Pattern != "yyyy/MM/dd" {
		t.Errorf("translated pattern = %q, expected %q", d.Pattern, "yyyy/MM/dd")
	}
}

// Every pattern the resolver trusts must round-trip a date other than the
// reference instant.
func TestUsablePatternsRoundTrip(t *testing.T) {
	dates := []time.Time{
		referenceTime,
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		time.Date(1987, time.November, 30, 18, 30, 0, 0, time.UTC),
	}

	for id := range builtinDateFormats {
		d := ResolveFormat(id, nil)
		if !d.CanUseCustomPattern {
			continue
		}
		for _, date := range dates {
			text, err := FormatDate(date, d.Pattern)
			if err != nil {
				t.Errorf("id %d: FormatDate(%q) failed: %v", id, d.Pattern, err)
				continue
			}
			parsed, err := ParseDate(text, d.Pattern)
			if err != nil {
				t.Errorf("id %d: ParseDate(%q, %q) failed: %v", id, text, d.Pattern, err)
				continue
			}
			if !SameDay(parsed, date) {
				t.Errorf("id %d: %q round-tripped %v to %v", id, d.Pattern, date, parsed)
			}
		}
	}
}

func TestStyleTableLookup(t *testing.T) {
	styles := NewStyleTable([]int{0, 14, 14, 3}, nil, true)

	if styles.Len() != 4 {
		t.Errorf("Len() = %d, expected 4", styles.Len())
	}
	if !styles.Date1904 {
		t.Error("expected Date1904")
	}

	tests := []struct {
		index  int
		found  bool
		isDate bool
	}{
		{0, true, false},
		{1, true, true},
		{2, true, true},
		{3, true, false},
		{4, false, false},
		{-1, false, false},
	}
	for _, tt := range tests {
		d, ok := styles.Lookup(tt.index)
		if ok != tt.found || d.IsDateFormat != tt.isDate {
			t.Errorf("Lookup(%d) = (%+v, %v), expected found=%v isDate=%v", tt.index, d, ok, tt.found, tt.isDate)
		}
	}

	var empty *StyleTable
	if _, ok := empty.Lookup(0); ok {
		t.Error("nil StyleTable should resolve nothing")
	}
}
