package apimodels

type AnalyzeResponse struct {
	// Human-friendly answer to the question
	Answer string `json:"answer"`

	// Confidence level: low, medium, high
	Confidence string `json:"confidence"`

	// ShopifyQL query that was executed, if any
	QueryUsed string `json:"query_used,omitempty"`

	// Data source the answer was built from (orders, products, inventory, customers, sales)
	DataSource string `json:"data_source,omitempty"`

	// Summary statistics computed from the result set
	RawSummary map[string]interface{} `json:"raw_summary,omitempty"`

	// Remediation hints when no usable data came back
	Suggestions []string `json:"suggestions,omitempty"`

	// Upstream error messages, surfaced verbatim
	Errors []string `json:"errors,omitempty"`
}

type DemoAnalyzeResponse struct {
	Answer     string  `json:"answer"`
	Confidence string  `json:"confidence"`
	QueryUsed  string  `json:"query_used,omitempty"`
	DataSource string  `json:"data_source,omitempty"`
	Intent     *Intent `json:"intent,omitempty"`
}

// QuestionResponse is the gateway-facing answer payload.
type QuestionResponse struct {
	Answer     string           `json:"answer"`
	Confidence string           `json:"confidence"`
	QueryUsed  string           `json:"query_used,omitempty"`
	DataSource string           `json:"data_source,omitempty"`
	Metadata   QuestionMetadata `json:"metadata"`
}

type QuestionMetadata struct {
	ProcessingTimeMS float64 `json:"processing_time_ms"`
	Timestamp        string  `json:"timestamp"`
}

type ErrorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}
