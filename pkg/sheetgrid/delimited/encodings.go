package delimited

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnknownEncoding indicates an encoding name that no index recognizes.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Candidate is a named text encoding tried by the detector.
type Candidate struct {
	Name     string
	Encoding encoding.Encoding
}

// UTF8 is the encoding used when detection finds no candidate.
var UTF8 = Candidate{Name: "UTF-8", Encoding: unicode.UTF8}

// DefaultCandidates returns every encoding known to the platform, Unicode
// encodings first.
func DefaultCandidates() []Candidate {
	groups := [][]encoding.Encoding{
		unicode.All,
		charmap.All,
		japanese.All,
		korean.All,
		simplifiedchinese.All,
		traditionalchinese.All,
	}

	var out []Candidate
	seen := make(map[string]bool)
	for _, group := range groups {
		for _, enc := range group {
			name := encodingName(enc)
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, Candidate{Name: name, Encoding: enc})
		}
	}
	return out
}

// LookupEncoding resolves an IANA or WHATWG encoding name such as
// "shift_jis", "utf-16le" or "windows-1252".
func LookupEncoding(name string) (Candidate, error) {
	label := strings.TrimSpace(name)
	if label == "" {
		return Candidate{}, fmt.Errorf("%w: empty name", ErrUnknownEncoding)
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return Candidate{Name: encodingName(enc), Encoding: enc}, nil
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return Candidate{Name: encodingName(enc), Encoding: enc}, nil
	}
	return Candidate{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

func encodingName(enc encoding.Encoding) string {
	if name, err := ianaindex.IANA.Name(enc); err == nil && name != "" {
		return name
	}
	if s, ok := enc.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", enc)
}
