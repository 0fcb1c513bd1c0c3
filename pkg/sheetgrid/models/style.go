package models

// FormatDecision is the resolved date treatment of one cell format.
type FormatDecision struct {
	// IsDateFormat reports whether numeric literals should be rendered as dates.
	IsDateFormat bool
	// CanUseCustomPattern reports whether Pattern survived the round-trip check.
	CanUseCustomPattern bool
	// Pattern is the candidate date pattern, empty when none was found.
	Pattern string
}
