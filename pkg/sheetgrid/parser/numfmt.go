package parser

import (
	"strings"
	"time"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
	"github.com/xuri/nfp"
)

// referenceTime is the fixed instant every candidate date pattern must round-trip.
var referenceTime = time.Date(1, time.February, 3, 4, 5, 6, 0, time.UTC)

// builtinNumberFormats lists built-in number format ids that are never dates:
// plain numbers, percentages, scientific, fractions and accounting.
var builtinNumberFormats = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	48: "##0.0E+0",
	49: "@",
}

// builtinDateFormats maps built-in date format ids to date patterns.
// See https://learn.microsoft.com/en-us/previous-versions/office/developer/office-2010/ee857658(v=office.14)
var builtinDateFormats = map[int]string{
	14:  "dd/MM/yyyy",
	15:  "d-MMM-yy",
	16:  "d-MMM",
	17:  "MMM-yy",
	18:  "h:mm AM/PM",
	19:  "h:mm:ss AM/PM",
	20:  "h:mm",
	21:  "h:mm:ss",
	22:  "M/d/yy h:mm",
	30:  "M/d/yy",
	34:  "yyyy-MM-dd",
	45:  "mm:ss",
	46:  "[h]:mm:ss",
	47:  "mmss.0",
	51:  "MM-dd",
	52:  "yyyy-MM-dd",
	53:  "yyyy-MM-dd",
	55:  "yyyy-MM-dd",
	56:  "yyyy-MM-dd",
	58:  "MM-dd",
	165: "M/d/yy",
	166: "dd MMMM yyyy",
	167: "dd/MM/yyyy",
	168: "dd/MM/yy",
	169: "d.M.yy",
	170: "yyyy-MM-dd",
	171: "dd MMMM yyyy",
	172: "d MMMM yyyy",
	173: "M/d",
	174: "M/d/yy",
	175: "MM/dd/yy",
	176: "d-MMM",
	177: "d-MMM-yy",
	178: "dd-MMM-yy",
	179: "MMM-yy",
	180: "MMMM-yy",
	181: "MMMM d, yyyy",
	182: "M/d/yy hh:mm t",
	183: "M/d/y HH:mm",
	184: "MMM",
	185: "MMM-dd",
	186: "M/d/yyyy",
	187: "d-MMM-yyyy",
}

// formatCodeTranslations rewrites format codes known to be written by common
// producers into date patterns.
var formatCodeTranslations = map[string]string{
	`yyyy/mm/dd`:               "yyyy/MM/dd",
	`[$-409]mmm\ dd\,\ yyyy;@`: "MM/dd/yyyy",
	`[$-0409]MMM dd, yyyy;@`:   "MM/dd/yyyy",
	`[$-10409]m/d/yyyy`:        "MM/dd/yyyy",
	`[$-10409]mm/dd/yyyy`:      "MM/dd/yyyy",
	`[$-10409]h:mm:ss\ AM/PM`:  "h:mm:ss tt",
}

// ResolveFormat decides how numeric literals styled with numFmtID are rendered.
// customFormats holds the workbook's own format codes keyed by id.
func ResolveFormat(numFmtID int, customFormats map[int]string) models.FormatDecision {
	pattern, ok := candidatePattern(numFmtID, customFormats)
	if !ok {
		return models.FormatDecision{}
	}
	return checkPattern(pattern)
}

func candidatePattern(numFmtID int, customFormats map[int]string) (string, bool) {
	if _, ok := builtinNumberFormats[numFmtID]; ok {
		return "", false
	}
	if code, ok := customFormats[numFmtID]; ok {
		if pattern, ok := formatCodeTranslations[code]; ok {
			return pattern, true
		}
		if strings.ContainsAny(code, "#0") {
			return "", false
		}
		return translateFormatCode(code)
	}
	pattern, ok := builtinDateFormats[numFmtID]
	return pattern, ok
}

// checkPattern formats referenceTime with pattern and parses it back.
func checkPattern(pattern string) models.FormatDecision {
	text, err := FormatDate(referenceTime, pattern)
	if err != nil {
		return models.FormatDecision{}
	}
	decision := models.FormatDecision{IsDateFormat: true, Pattern: pattern}
	parsed, err := ParseDate(text, pattern)
	if err != nil || !SameDay(parsed, referenceTime) {
		return decision
	}
	decision.CanUseCustomPattern = true
	return decision
}

// translateFormatCode rewrites the first section of a custom format code into a
// date pattern. It reports false when the code has no date or time tokens. Codes
// with tokens that have no pattern equivalent are returned unchanged.
func translateFormatCode(code string) (string, bool) {
	p := nfp.NumberFormatParser()
	sections := p.Parse(code)
	if len(sections) == 0 {
		return "", false
	}
	items := sections[0].Items

	hasDate, twelveHour := false, false
	for _, tok := range items {
		switch tok.TType {
		case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
			hasDate = true
			if isDesignator(tok.TValue) {
				twelveHour = true
			}
		}
	}
	if !hasDate {
		return "", false
	}

	var b strings.Builder
	for i, tok := range items {
		switch tok.TType {
		case nfp.TokenTypeDateTimes:
			spec, ok := dateSpecifier(items, i, twelveHour)
			if !ok {
				return code, true
			}
			b.WriteString(spec)
		case nfp.TokenTypeLiteral, nfp.TokenTypeThousandsSeparator, nfp.TokenTypeDecimalPoint:
			b.WriteString(quoteLiteral(tok.TValue))
		case nfp.TokenTypeCurrencyLanguage, nfp.TokenTypeColor:
		default:
			return code, true
		}
	}
	if b.Len() == 0 {
		return code, true
	}
	return b.String(), true
}

func isDesignator(v string) bool {
	switch strings.ToUpper(v) {
	case "AM/PM", "A/P":
		return true
	}
	return false
}

// dateSpecifier maps the date token at items[i] to pattern syntax. Excel's m and
// mm mean minutes right after an hour or right before a second.
func dateSpecifier(items []nfp.Token, i int, twelveHour bool) (string, bool) {
	v := strings.ToLower(items[i].TValue)
	switch {
	case v == "am/pm":
		return "tt", true
	case v == "a/p":
		return "t", true
	case strings.Trim(v, "y") == "":
		if len(v) <= 2 {
			return "yy", true
		}
		return "yyyy", true
	case strings.Trim(v, "d") == "":
		return strings.Repeat("d", min(len(v), 4)), true
	case strings.Trim(v, "h") == "":
		h := "H"
		if twelveHour {
			h = "h"
		}
		return strings.Repeat(h, min(len(v), 2)), true
	case strings.Trim(v, "s") == "":
		return strings.Repeat("s", min(len(v), 2)), true
	case strings.Trim(v, "m") == "":
		switch {
		case len(v) > 4:
			return "", false
		case len(v) <= 2 && minuteContext(items, i):
			return strings.Repeat("m", len(v)), true
		default:
			return strings.Repeat("M", len(v)), true
		}
	}
	return "", false
}

func minuteContext(items []nfp.Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if items[j].TType != nfp.TokenTypeDateTimes {
			continue
		}
		if strings.HasPrefix(strings.ToLower(items[j].TValue), "h") {
			return true
		}
		break
	}
	for j := i + 1; j < len(items); j++ {
		if items[j].TType != nfp.TokenTypeDateTimes {
			continue
		}
		return strings.HasPrefix(strings.ToLower(items[j].TValue), "s")
	}
	return false
}

func quoteLiteral(s string) string {
	if s == "" {
		return ""
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// StyleTable holds the resolved format decision of every cell format of a workbook.
// It is built once and read-only afterwards.
type StyleTable struct {
	decisions []models.FormatDecision
	// Date1904 selects the 1904 date system for serial date conversion.
	Date1904 bool
}

// NewStyleTable resolves numFmtIDs, the number format id of each cell format in
// style index order.
func NewStyleTable(numFmtIDs []int, customFormats map[int]string, date1904 bool) *StyleTable {
	resolved := make(map[int]models.FormatDecision)
	decisions := make([]models.FormatDecision, len(numFmtIDs))
	for i, id := range numFmtIDs {
		decision, ok := resolved[id]
		if !ok {
			decision = ResolveFormat(id, customFormats)
			resolved[id] = decision
		}
		decisions[i] = decision
	}
	return &StyleTable{decisions: decisions, Date1904: date1904}
}

// Lookup returns the decision for a style index; false when the index is out of range.
func (t *StyleTable) Lookup(index int) (models.FormatDecision, bool) {
	if t == nil || index < 0 || index >= len(t.decisions) {
		return models.FormatDecision{}, false
	}
	return t.decisions[index], true
}

// Len returns the number of cell formats.
func (t *StyleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.decisions)
}
