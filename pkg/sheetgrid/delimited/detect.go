package delimited

import (
	"bytes"
	"log/slog"
	"math"
	"strings"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
)

// Rejection reasons. rejectInvalid marks decodes that substituted U+FFFD for
// bytes the encoding cannot represent.
const (
	rejectDecode  = "decode error"
	rejectNUL     = "contains NUL"
	rejectInvalid = "invalid byte sequences"
	rejectEmpty   = "no rows"
)

const replacementChar = "\uFFFD"

// DetectOptions configures encoding detection.
type DetectOptions struct {
	// Delimiter separates fields; 0 means a comma.
	Delimiter rune
	// Candidates are tried in order; nil means DefaultCandidates.
	Candidates []Candidate
	// Logger receives per-candidate profiles at debug level.
	Logger *slog.Logger
}

// Detection is the outcome of DetectEncoding.
type Detection struct {
	// Candidate is the chosen encoding.
	Candidate Candidate
	// Profiles holds one profile per candidate tried, in candidate order.
	Profiles []models.EncodingProfile
	// Fallback is set when no candidate survived and UTF-8 was assumed.
	Fallback bool
}

// DetectEncoding guesses the encoding of delimited text by decoding data with
// every candidate and keeping the one whose rows look most like a table:
// many rows of a consistent width. Ties keep the earlier candidate.
func DetectEncoding(data []byte, opts DetectOptions) Detection {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	candidates := opts.Candidates
	if candidates == nil {
		candidates = DefaultCandidates()
	}

	result := Detection{Candidate: UTF8, Fallback: true}
	best := math.Inf(-1)
	for _, c := range candidates {
		p := Profile(data, c, opts.Delimiter)
		result.Profiles = append(result.Profiles, p)
		logger.Debug("encoding candidate",
			"encoding", p.Name,
			"rows", p.RowCount,
			"mean_width", p.MeanWidth,
			"stddev_width", p.StdDevWidth,
			"score", p.Score,
			"rejected", p.Rejected,
		)
		if p.Rejected != "" {
			continue
		}
		if p.Score > best {
			best = p.Score
			result.Candidate = c
			result.Fallback = false
		}
	}

	logger.Debug("encoding detected", "encoding", result.Candidate.Name, "fallback", result.Fallback)
	return result
}

// Profile decodes data with one candidate and measures the row shape.
func Profile(data []byte, c Candidate, delimiter rune) models.EncodingProfile {
	p := models.EncodingProfile{Name: c.Name}

	decoded, err := c.Encoding.NewDecoder().Bytes(data)
	if err != nil {
		p.Rejected = rejectDecode
		return p
	}
	text := string(decoded)
	if strings.ContainsRune(text, 0) {
		p.Rejected = rejectNUL
		return p
	}
	if strings.Count(text, replacementChar) > bytes.Count(data, []byte(replacementChar)) {
		p.Rejected = rejectInvalid
		return p
	}

	var widths []int
	for row := range Rows(text, delimiter) {
		widths = append(widths, len(row))
		p.TotalFields += len(row)
	}
	p.RowCount = len(widths)
	if p.RowCount == 0 || p.TotalFields == 0 {
		p.Rejected = rejectEmpty
		return p
	}

	n := float64(p.RowCount)
	p.MeanWidth = float64(p.TotalFields) / n
	var sq float64
	for _, w := range widths {
		d := float64(w) - p.MeanWidth
		sq += d * d
	}
	p.StdDevWidth = math.Sqrt(sq / n)
	p.Score = squareness(n, p.MeanWidth, p.StdDevWidth)
	return p
}

// squareness favours many rows of many fields and penalizes uneven widths.
func squareness(rows, meanWidth, stdDev float64) float64 {
	return math.Hypot(math.Log(rows), math.Log(meanWidth)) - stdDev/math.Sqrt(rows)
}
