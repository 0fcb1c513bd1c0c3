package parser

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	date := time.Date(2023, time.March, 5, 14, 7, 9, 120_000_000, time.UTC)

	tests := []struct {
		pattern  string
		expected string
	}{
		{"dd/MM/yyyy", "05/03/2023"},
		{"d-MMM-yy", "5-Mar-23"},
		{"dddd, MMMM d", "Sunday, March 5"},
		{"ddd dd", "Sun 05"},
		{"yyyy/MM/dd HH:mm:ss", "2023/03/05 14:07:09"},
		{"h:mm tt", "2:07 PM"},
		{"hh:mm t", "02:07 P"},
		{"HH:mm:ss.fff", "14:07:09.120"},
		{"ss.FFFF", "09.12"},
		{"'Day' d", "Day 5"},
		{`\d d`, "d 5"},
		{"%d", "5"},
		{"yyyyy", "02023"},
		{"g yyyy", "A.D. 2023"},
	}

	for _, tt := range tests {
		result, err := FormatDate(date, tt.pattern)
		if err != nil {
			t.Errorf("FormatDate(%q) returned error: %v", tt.pattern, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("FormatDate(%q) = %q, expected %q", tt.pattern, result, tt.expected)
		}
	}
}

func TestFormatDateErrors(t *testing.T) {
	patterns := []string{
		"",
		"d",
		"'open",
		`dd\`,
		"%",
		"%%d",
		"ss.ffffffff",
		"HH:mm zzz",
	}

	for _, pattern := range patterns {
		if _, err := FormatDate(time.Now(), pattern); err == nil {
			t.Errorf("FormatDate(%q) expected error", pattern)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value    string
		pattern  string
		expected time.Time
	}{
		{"05/03/2023", "dd/MM/yyyy", time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"5-Mar-23", "d-MMM-yy", time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"5-Mar-50", "d-MMM-yy", time.Date(1950, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"5-Mar-49", "d-MMM-yy", time.Date(2049, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"March 5, 2023", "MMMM d, yyyy", time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"3/5/2023 2:07 PM", "M/d/yyyy h:mm tt", time.Date(2023, 3, 5, 14, 7, 0, 0, time.UTC)},
		{"3/5/2023 12:07 AM", "M/d/yyyy h:mm tt", time.Date(2023, 3, 5, 0, 7, 0, 0, time.UTC)},
		{"Sunday 05/03/2023", "dddd dd/MM/yyyy", time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2023-03-05 14:07:09.12", "yyyy-MM-dd HH:mm:ss.FF", time.Date(2023, 3, 5, 14, 7, 9, 120_000_000, time.UTC)},
		{"0001-02-03", "yyyy-MM-dd", time.Date(1, 2, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		result, err := ParseDate(tt.value, tt.pattern)
		if err != nil {
			t.Errorf("ParseDate(%q, %q) returned error: %v", tt.value, tt.pattern, err)
			continue
		}
		if !result.Equal(tt.expected) {
			t.Errorf("ParseDate(%q, %q) = %v, expected %v", tt.value, tt.pattern, result, tt.expected)
		}
	}
}

func TestParseDateErrors(t *testing.T) {
	tests := []struct {
		value   string
		pattern string
	}{
		{"2023-13-01", "yyyy-MM-dd"},
		{"2023-02-30", "yyyy-MM-dd"},
		{"Monday 05/03/2023", "dddd dd/MM/yyyy"},
		{"05/03/2023x", "dd/MM/yyyy"},
		{"05-03-2023", "dd/MM/yyyy"},
		{"5 6", "d d"},
		{"Foo 2023", "MMM yyyy"},
	}

	for _, tt := range tests {
		if _, err := ParseDate(tt.value, tt.pattern); err == nil {
			t.Errorf("ParseDate(%q, %q) expected error", tt.value, tt.pattern)
		}
	}
}

func TestParseDateDefaults(t *testing.T) {
	original := now
	now = func() time.Time { return time.Date(2024, time.July, 9, 10, 0, 0, 0, time.UTC) }
	defer func() { now = original }()

	result, err := ParseDate("04:05", "HH:mm")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if expected := time.Date(2024, 7, 9, 4, 5, 0, 0, time.UTC); !result.Equal(expected) {
		t.Errorf("time-only parse = %v, expected %v", result, expected)
	}

	result, err = ParseDate("Feb", "MMM")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if expected := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC); !result.Equal(expected) {
		t.Errorf("month-only parse = %v, expected %v", result, expected)
	}
}
