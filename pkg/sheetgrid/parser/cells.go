package parser

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
	"github.com/xuri/excelize/v2"
)

const (
	// shortDatePattern is the invariant-culture short date.
	shortDatePattern = "MM/dd/yyyy"
	// dateTimePattern renders dates carrying a time of day.
	dateTimePattern = "yyyy/MM/dd HH:mm:ss"

	millisPerDay = 86400000
	// minSerial and maxSerial bound the serial dates that map to years 100
	// through 9999.
	minSerial = -657435
	maxSerial = 2958466
)

var (
	epoch1900 = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// DateFormatter lets a caller override date rendering. It receives the decoded
// date and a fallback that renders it the default way.
type DateFormatter func(value time.Time, fallback func() string) string

// DecodeCell turns a raw cell into its display string. It never fails: any
// problem while decoding falls back to the cell's stored literal.
// styles, sst and hook may all be nil.
func DecodeCell(cell models.RawCell, styles *StyleTable, sst *SharedStrings, hook DateFormatter) (text string) {
	if !cell.HasContent() {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			text = cell.Literal()
		}
	}()

	text = cellText(cell, sst)
	if s, ok := decodeDate(text, cell.StyleIndex, styles, hook); ok {
		return s
	}
	return text
}

// cellText resolves the stored value according to the cell type.
func cellText(cell models.RawCell, sst *SharedStrings) string {
	switch cell.Type {
	case models.CellTypeSharedString:
		if index, err := strconv.Atoi(strings.TrimSpace(cell.Literal())); err == nil {
			if s, ok := sst.Resolve(index); ok {
				return s
			}
		}
	case models.CellTypeInlineString:
		if cell.InnerText != nil {
			return *cell.InnerText
		}
	}
	return cell.Literal()
}

// decodeDate renders text as a date when the style resolves to a date format
// and text is a serial date number.
func decodeDate(text string, styleIndex *int, styles *StyleTable, hook DateFormatter) (string, bool) {
	if styleIndex == nil {
		return "", false
	}
	decision, ok := styles.Lookup(*styleIndex)
	if !ok || !decision.IsDateFormat {
		return "", false
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return "", false
	}
	date, ok := serialToTime(serial, styles.Date1904)
	if !ok {
		return text, true
	}

	fallback := func() string {
		return renderDate(date, decision)
	}
	if hook != nil {
		return hook(date, fallback), true
	}
	return fallback(), true
}

// serialToTime converts a serial date. Serials before the epoch count whole
// days backwards while their fraction still moves forward through the day, so
// -1.25 is 06:00 two days before the epoch.
func serialToTime(serial float64, date1904 bool) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial <= minSerial || serial >= maxSerial {
		return time.Time{}, false
	}
	if serial >= 0 {
		date, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil || date.Year() > 9999 {
			return time.Time{}, false
		}
		return date.Round(time.Millisecond), true
	}

	millis := int64(serial*millisPerDay - 0.5)
	millis -= (millis % millisPerDay) * 2
	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	}
	date := epoch.Add(time.Duration(millis) * time.Millisecond)
	if date.Year() < 100 {
		return time.Time{}, false
	}
	return date, true
}

func renderDate(date time.Time, decision models.FormatDecision) string {
	if decision.CanUseCustomPattern {
		if s, err := FormatDate(date, decision.Pattern); err == nil {
			return s
		}
	}
	pattern := dateTimePattern
	if date.Hour() == 0 && date.Minute() == 0 && date.Second() == 0 {
		pattern = shortDatePattern
	}
	s, _ := FormatDate(date, pattern)
	return s
}
