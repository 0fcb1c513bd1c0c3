// Package sheetgrid decodes spreadsheet packages and delimited text into dense
// grids of strings.
package sheetgrid

import (
	"log/slog"

	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/delimited"
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/parser"
)

// Mode represents how much metadata is decoded alongside the grids.
type Mode string

const (
	// ModeLight decodes grids only.
	ModeLight Mode = "light"
	// ModeStandard decodes grids, table candidates and print areas.
	ModeStandard Mode = "standard"
	// ModeVerbose additionally decodes custom document properties and keeps encoding profiles.
	ModeVerbose Mode = "verbose"
)

// Options configures decoding behavior.
type Options struct {
	// Mode specifies the decoding mode (light, standard, verbose).
	Mode Mode
	// Delimiter separates fields of delimited text; 0 means a comma.
	Delimiter rune
	// Encoding names the encoding of delimited text; empty means detect it.
	Encoding string
	// Candidates limits encoding detection; nil tries every known encoding.
	Candidates []delimited.Candidate
	// DateFormatter overrides how date cells are rendered.
	DateFormatter parser.DateFormatter
	// IncludePrintAreas specifies whether to include print areas.
	// If nil, defaults to false for light mode, true otherwise.
	IncludePrintAreas *bool
	// MaxInputBytes rejects larger inputs when positive.
	MaxInputBytes int64
	// Logger receives warnings about unreadable parts; nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultOptions returns default decoding options.
func DefaultOptions() Options {
	return Options{
		Mode: ModeStandard,
	}
}

// ShouldIncludeTables returns whether to detect table candidates.
func (o Options) ShouldIncludeTables() bool {
	return o.Mode != ModeLight
}

// ShouldIncludePrintAreas returns whether to include print areas.
func (o Options) ShouldIncludePrintAreas() bool {
	if o.IncludePrintAreas != nil {
		return *o.IncludePrintAreas
	}
	return o.Mode != ModeLight
}

// ShouldIncludeProperties returns whether to include custom document properties.
func (o Options) ShouldIncludeProperties() bool {
	return o.Mode == ModeVerbose
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
