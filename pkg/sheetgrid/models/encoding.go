package models

// EncodingProfile summarizes how one candidate encoding segments a delimited source.
type EncodingProfile struct {
	// Name is the encoding name.
	Name string `json:"name"`
	// RowCount is the number of parsed rows.
	RowCount int `json:"row_count"`
	// MeanWidth is the mean number of fields per row.
	MeanWidth float64 `json:"mean_width"`
	// StdDevWidth is the population standard deviation of fields per row.
	StdDevWidth float64 `json:"std_dev_width"`
	// TotalFields is the number of fields over all rows.
	TotalFields int `json:"total_fields"`
	// Score is the squareness score; only meaningful when Rejected is empty.
	Score float64 `json:"score"`
	// Rejected names why the candidate was discarded.
	Rejected string `json:"rejected,omitempty"`
}
