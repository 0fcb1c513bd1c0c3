package models

// WorkbookData represents workbook-level container with per-sheet data.
type WorkbookData struct {
	// BookName is the source file name (no path).
	BookName string `json:"book_name"`
	// Encoding is the text encoding used for delimited sources.
	Encoding string `json:"encoding,omitempty"`
	// Properties holds custom document properties.
	Properties map[string]string `json:"properties,omitempty"`
	// Sheets holds the decoded sheets in workbook order.
	Sheets []StringSheet `json:"sheets"`
}

// Sheet returns the sheet with the given name.
func (w *WorkbookData) Sheet(name string) (StringSheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return StringSheet{}, false
}
