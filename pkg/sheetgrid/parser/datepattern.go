package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Date patterns use the token syntax of the built-in format tables:
// d dd ddd dddd, M MM MMM MMMM, y yy yyy.., h hh H HH, m mm, s ss, f.. F..,
// t tt, g, quoted literals, backslash escapes and %x single specifiers.
// Names and designators are rendered in the invariant (English) culture.

var (
	errEmptyPattern         = errors.New("empty date pattern")
	errStandardPattern      = errors.New("single-character standard patterns are not supported")
	errUnterminatedQuote    = errors.New("unterminated quoted literal")
	errTrailingEscape       = errors.New("pattern ends with an escape character")
	errInvalidPercent       = errors.New("invalid use of %")
	errFractionTooLong      = errors.New("fraction specifier longer than 7 digits")
	errUnsupportedSpecifier = errors.New("unsupported date specifier")
)

// now supplies the default date for patterns that omit date components.
var now = time.Now

// twoDigitYearMax is the last year a two-digit year maps to.
const twoDigitYearMax = 2049

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokDay
	tokMonth
	tokYear
	tokHour12
	tokHour24
	tokMinute
	tokSecond
	tokFraction
	tokFractionTrim
	tokDesignator
	tokEra
	tokZone
)

type patternToken struct {
	kind tokenKind
	n    int
	text string
}

var specifierKinds = map[rune]tokenKind{
	'd': tokDay,
	'M': tokMonth,
	'y': tokYear,
	'h': tokHour12,
	'H': tokHour24,
	'm': tokMinute,
	's': tokSecond,
	'f': tokFraction,
	'F': tokFractionTrim,
	't': tokDesignator,
	'g': tokEra,
	'z': tokZone,
	'K': tokZone,
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var dayNames = [...]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

const eraName = "A.D."

func tokenizePattern(pattern string) ([]patternToken, error) {
	if pattern == "" {
		return nil, errEmptyPattern
	}
	if utf8.RuneCountInString(pattern) == 1 {
		return nil, errStandardPattern
	}

	runes := []rune(pattern)
	var tokens []patternToken
	literal := func(s string) {
		if n := len(tokens); n > 0 && tokens[n-1].kind == tokLiteral {
			tokens[n-1].text += s
			return
		}
		tokens = append(tokens, patternToken{kind: tokLiteral, text: s})
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch r {
		case '\'', '"':
			var b strings.Builder
			j := i + 1
			closed := false
			for j < len(runes) {
				if runes[j] == '\\' {
					if j+1 >= len(runes) {
						return nil, errTrailingEscape
					}
					b.WriteRune(runes[j+1])
					j += 2
					continue
				}
				if runes[j] == r {
					closed = true
					j++
					break
				}
				b.WriteRune(runes[j])
				j++
			}
			if !closed {
				return nil, errUnterminatedQuote
			}
			literal(b.String())
			i = j
		case '\\':
			if i+1 >= len(runes) {
				return nil, errTrailingEscape
			}
			literal(string(runes[i+1]))
			i += 2
		case '%':
			if i+1 >= len(runes) || runes[i+1] == '%' {
				return nil, errInvalidPercent
			}
			next := runes[i+1]
			if kind, ok := specifierKinds[next]; ok {
				tok, err := specifierToken(kind, 1)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, tok)
			} else {
				literal(string(next))
			}
			i += 2
		default:
			kind, ok := specifierKinds[r]
			if !ok {
				literal(string(r))
				i++
				continue
			}
			n := 1
			for i+n < len(runes) && runes[i+n] == r {
				n++
			}
			tok, err := specifierToken(kind, n)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += n
		}
	}
	return tokens, nil
}

func specifierToken(kind tokenKind, n int) (patternToken, error) {
	switch kind {
	case tokZone:
		return patternToken{}, errUnsupportedSpecifier
	case tokFraction, tokFractionTrim:
		if n > 7 {
			return patternToken{}, errFractionTooLong
		}
	case tokDay, tokMonth:
		n = min(n, 4)
	case tokHour12, tokHour24, tokMinute, tokSecond, tokDesignator:
		n = min(n, 2)
	}
	return patternToken{kind: kind, n: n}, nil
}

// FormatDate renders t with pattern. It fails when the pattern cannot be
// rendered at all.
func FormatDate(t time.Time, pattern string) (string, error) {
	tokens, err := tokenizePattern(pattern)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, tok := range tokens {
		switch tok.kind {
		case tokLiteral:
			b.WriteString(tok.text)
		case tokDay:
			switch tok.n {
			case 1, 2:
				writeNumber(&b, t.Day(), tok.n)
			case 3:
				b.WriteString(dayNames[t.Weekday()][:3])
			default:
				b.WriteString(dayNames[t.Weekday()])
			}
		case tokMonth:
			switch tok.n {
			case 1, 2:
				writeNumber(&b, int(t.Month()), tok.n)
			case 3:
				b.WriteString(monthNames[t.Month()-1][:3])
			default:
				b.WriteString(monthNames[t.Month()-1])
			}
		case tokYear:
			if tok.n <= 2 {
				writeNumber(&b, t.Year()%100, tok.n)
			} else {
				writeNumber(&b, t.Year(), tok.n)
			}
		case tokHour12:
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			writeNumber(&b, h, tok.n)
		case tokHour24:
			writeNumber(&b, t.Hour(), tok.n)
		case tokMinute:
			writeNumber(&b, t.Minute(), tok.n)
		case tokSecond:
			writeNumber(&b, t.Second(), tok.n)
		case tokFraction:
			b.WriteString(fractionDigits(t)[:tok.n])
		case tokFractionTrim:
			b.WriteString(strings.TrimRight(fractionDigits(t)[:tok.n], "0"))
		case tokDesignator:
			designator := "AM"
			if t.Hour() >= 12 {
				designator = "PM"
			}
			b.WriteString(designator[:tok.n])
		case tokEra:
			b.WriteString(eraName)
		}
	}
	return b.String(), nil
}

func writeNumber(b *strings.Builder, v, width int) {
	fmt.Fprintf(b, "%0*d", width, v)
}

// fractionDigits returns the sub-second part as 7 digits of 100ns ticks.
func fractionDigits(t time.Time) string {
	return fmt.Sprintf("%07d", t.Nanosecond()/100)
}

type dateFields struct {
	year, month, day       int
	hour, minute, second   int
	nanos                  int
	weekday                int
	pm                     bool
	seen                   map[tokenKind]bool
	hasHour12, hasHour24   bool
	hasDesignator, hasWeek bool
}

func (f *dateFields) set(kind tokenKind, slot *int, v int) error {
	if f.seen[kind] && *slot != v {
		return fmt.Errorf("conflicting values for a repeated specifier: %d and %d", *slot, v)
	}
	f.seen[kind] = true
	*slot = v
	return nil
}

type dateScanner struct {
	s   string
	pos int
}

func (sc *dateScanner) digits(minWidth, maxWidth int) (int, error) {
	start := sc.pos
	for sc.pos < len(sc.s) && sc.pos-start < maxWidth && sc.s[sc.pos] >= '0' && sc.s[sc.pos] <= '9' {
		sc.pos++
	}
	if sc.pos-start < minWidth {
		return 0, fmt.Errorf("expected %d digits at offset %d", minWidth, start)
	}
	if sc.pos == start {
		return 0, nil
	}
	return strconv.Atoi(sc.s[start:sc.pos])
}

func (sc *dateScanner) literal(text string) error {
	if !strings.HasPrefix(sc.s[sc.pos:], text) {
		return fmt.Errorf("expected %q at offset %d", text, sc.pos)
	}
	sc.pos += len(text)
	return nil
}

// oneOf matches the longest name in names case-insensitively and returns its index.
func (sc *dateScanner) oneOf(names []string) (int, error) {
	best, bestLen := -1, 0
	rest := sc.s[sc.pos:]
	for i, name := range names {
		if len(name) > bestLen && len(rest) >= len(name) && strings.EqualFold(rest[:len(name)], name) {
			best, bestLen = i, len(name)
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("unrecognized name at offset %d", sc.pos)
	}
	sc.pos += bestLen
	return best, nil
}

func abbreviations(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n[:3]
	}
	return out
}

// ParseDate parses value with pattern exactly, in the invariant culture.
// Patterns without date components take today's date; a missing year takes
// the current year and a missing month or day defaults to 1.
func ParseDate(value, pattern string) (time.Time, error) {
	tokens, err := tokenizePattern(pattern)
	if err != nil {
		return time.Time{}, err
	}

	f := &dateFields{seen: make(map[tokenKind]bool)}
	sc := &dateScanner{s: value}
	for _, tok := range tokens {
		if err := parseToken(sc, f, tok); err != nil {
			return time.Time{}, err
		}
	}
	if sc.pos != len(sc.s) {
		return time.Time{}, fmt.Errorf("unexpected trailing text %q", sc.s[sc.pos:])
	}
	return f.compose()
}

func parseToken(sc *dateScanner, f *dateFields, tok patternToken) error {
	switch tok.kind {
	case tokLiteral:
		return sc.literal(tok.text)
	case tokDay:
		if tok.n >= 3 {
			names := dayNames[:]
			if tok.n == 3 {
				names = abbreviations(names)
			}
			wd, err := sc.oneOf(names)
			if err != nil {
				return err
			}
			f.hasWeek = true
			f.weekday = wd
			return nil
		}
		v, err := sc.digits(tok.n, 2)
		if err != nil {
			return err
		}
		return f.set(tokDay, &f.day, v)
	case tokMonth:
		var v int
		var err error
		switch tok.n {
		case 1, 2:
			v, err = sc.digits(tok.n, 2)
		case 3:
			v, err = sc.oneOf(abbreviations(monthNames[:]))
			v++
		default:
			v, err = sc.oneOf(monthNames[:])
			v++
		}
		if err != nil {
			return err
		}
		return f.set(tokMonth, &f.month, v)
	case tokYear:
		if tok.n <= 2 {
			v, err := sc.digits(tok.n, 2)
			if err != nil {
				return err
			}
			return f.set(tokYear, &f.year, expandTwoDigitYear(v))
		}
		v, err := sc.digits(tok.n, max(tok.n, 4))
		if err != nil {
			return err
		}
		return f.set(tokYear, &f.year, v)
	case tokHour12, tokHour24:
		v, err := sc.digits(tok.n, 2)
		if err != nil {
			return err
		}
		if tok.kind == tokHour12 {
			f.hasHour12 = true
		} else {
			f.hasHour24 = true
		}
		return f.set(tok.kind, &f.hour, v)
	case tokMinute:
		v, err := sc.digits(tok.n, 2)
		if err != nil {
			return err
		}
		return f.set(tokMinute, &f.minute, v)
	case tokSecond:
		v, err := sc.digits(tok.n, 2)
		if err != nil {
			return err
		}
		return f.set(tokSecond, &f.second, v)
	case tokFraction, tokFractionTrim:
		start := sc.pos
		minWidth := tok.n
		if tok.kind == tokFractionTrim {
			minWidth = 0
		}
		v, err := sc.digits(minWidth, tok.n)
		if err != nil {
			return err
		}
		width := sc.pos - start
		for i := width; i < 9; i++ {
			v *= 10
		}
		return f.set(tokFraction, &f.nanos, v)
	case tokDesignator:
		names := []string{"AM", "PM"}
		if tok.n == 1 {
			names = []string{"A", "P"}
		}
		idx, err := sc.oneOf(names)
		if err != nil {
			return err
		}
		f.hasDesignator = true
		f.pm = idx == 1
		return nil
	case tokEra:
		_, err := sc.oneOf([]string{eraName, "AD"})
		return err
	}
	return errUnsupportedSpecifier
}

func expandTwoDigitYear(v int) int {
	century := twoDigitYearMax / 100 * 100
	year := century + v
	if year > twoDigitYearMax {
		year -= 100
	}
	return year
}

func (f *dateFields) compose() (time.Time, error) {
	year, month, day := f.year, f.month, f.day
	hasYear, hasMonth, hasDay := f.seen[tokYear], f.seen[tokMonth], f.seen[tokDay]
	today := now()
	if !hasYear && !hasMonth && !hasDay {
		year, month, day = today.Year(), int(today.Month()), today.Day()
	} else {
		if !hasYear {
			year = today.Year()
		}
		if !hasMonth {
			month = 1
		}
		if !hasDay {
			day = 1
		}
	}

	hour := f.hour
	if f.hasHour12 && f.hasDesignator {
		if hour < 1 || hour > 12 {
			return time.Time{}, fmt.Errorf("hour %d out of range for a 12-hour clock", hour)
		}
		if f.pm && hour < 12 {
			hour += 12
		} else if !f.pm && hour == 12 {
			hour = 0
		}
	}

	switch {
	case year < 1 || year > 9999:
		return time.Time{}, fmt.Errorf("year %d out of range", year)
	case month < 1 || month > 12:
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	case day < 1 || day > daysIn(year, time.Month(month)):
		return time.Time{}, fmt.Errorf("day %d out of range", day)
	case hour > 23 || f.minute > 59 || f.second > 59:
		return time.Time{}, fmt.Errorf("time %02d:%02d:%02d out of range", hour, f.minute, f.second)
	}

	t := time.Date(year, time.Month(month), day, hour, f.minute, f.second, f.nanos, time.UTC)
	if f.hasWeek && int(t.Weekday()) != f.weekday {
		return time.Time{}, fmt.Errorf("day of week %s does not match %s", dayNames[f.weekday], t.Format(time.DateOnly))
	}
	return t, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
