package delimited

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

const byteOrderMark = "\ufeff"

// DecodeOptions configures Decode.
type DecodeOptions struct {
	// Delimiter separates fields; 0 means a comma.
	Delimiter rune
	// Encoding names the text encoding; empty means detect it.
	Encoding string
	// Candidates limits detection; nil means DefaultCandidates.
	Candidates []Candidate
	// Logger receives detection details.
	Logger *slog.Logger
}

// Result is decoded delimited text.
type Result struct {
	// Encoding is the name of the encoding used.
	Encoding string
	// Detection is set when the encoding was detected rather than given.
	Detection *Detection
	// Rows yields the records lazily.
	Rows iter.Seq[[]string]
}

// Decode converts data to text with the given or detected encoding, drops a
// leading byte order mark, and returns its rows.
func Decode(data []byte, opts DecodeOptions) (Result, error) {
	var (
		candidate Candidate
		detection *Detection
	)
	if opts.Encoding != "" {
		c, err := LookupEncoding(opts.Encoding)
		if err != nil {
			return Result{}, err
		}
		candidate = c
	} else {
		d := DetectEncoding(data, DetectOptions{
			Delimiter:  opts.Delimiter,
			Candidates: opts.Candidates,
			Logger:     opts.Logger,
		})
		candidate = d.Candidate
		detection = &d
	}

	decoded, err := candidate.Encoding.NewDecoder().Bytes(data)
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", candidate.Name, err)
	}
	text := strings.TrimPrefix(string(decoded), byteOrderMark)

	return Result{
		Encoding:  candidate.Name,
		Detection: detection,
		Rows:      Rows(text, opts.Delimiter),
	}, nil
}
