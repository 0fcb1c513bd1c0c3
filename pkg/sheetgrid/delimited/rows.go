// Package delimited decodes delimited text of unknown encoding into rows.
package delimited

import (
	"encoding/csv"
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// DefaultDelimiter is used when no delimiter is given.
const DefaultDelimiter = ','

// Rows lazily splits text into records. Quoted fields may contain delimiters,
// escaped quotes and line breaks, and records may differ in width. A record
// that cannot be tokenized is dropped and parsing resumes on the line after its
// first line. Blank lines yield nothing. Every range over the sequence starts
// again from the top of text.
func Rows(text string, delimiter rune) iter.Seq[[]string] {
	delimiter = normalizeDelimiter(delimiter)
	return func(yield func([]string) bool) {
		rest := text
		for rest != "" {
			resume, ok := readRecords(rest, delimiter, yield)
			if !ok {
				return
			}
			rest = rest[resume:]
		}
	}
}

// readRecords yields records from text until the input ends, the consumer
// stops or a record fails. On failure it returns the offset to resume from and
// true; otherwise it returns false.
func readRecords(text string, delimiter rune, yield func([]string) bool) (int, bool) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delimiter
	r.FieldsPerRecord = -1

	for {
		start := r.InputOffset()
		record, err := r.Read()
		if err == io.EOF {
			return 0, false
		}
		if err != nil {
			return nextLine(text, int(start)), true
		}
		if !yield(record) {
			return 0, false
		}
	}
}

// nextLine returns the offset just past the first non-blank line at or after start.
func nextLine(text string, start int) int {
	i := start
	for i < len(text) && (text[i] == '\n' || text[i] == '\r') {
		i++
	}
	if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(text)
}

func normalizeDelimiter(d rune) rune {
	if d == 0 || d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError || !utf8.ValidRune(d) {
		return DefaultDelimiter
	}
	return d
}

// Collect materializes a row sequence.
func Collect(rows iter.Seq[[]string]) [][]string {
	var out [][]string
	for row := range rows {
		out = append(out, row)
	}
	return out
}
