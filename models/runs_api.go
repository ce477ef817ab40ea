package models

// Request represents a Runs API request.
type Request struct {
	Verb        string                 `json:"verb"`
	RunID       string                 `json:"run_id,omitempty"`
	CompareID   string                 `json:"compare_id,omitempty"` // For DIFF
	Session     int64                  `json:"session,omitempty"`
	Filter      string                 `json:"filter,omitempty"` // Token name prefix
	Format      string                 `json:"format,omitempty"` // json, yaml, css, scss
	Constraints map[string]interface{} `json:"constraints,omitempty"`
}

// Response represents a Runs API response.
type Response struct {
	Verb  string      `json:"verb" yaml:"verb"`
	Data  interface{} `json:"data" yaml:"data"`
	Error *ErrorInfo  `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorInfo provides structured error information.
type ErrorInfo struct {
	Type             string   `json:"error_type" yaml:"error_type"`
	Message          string   `json:"message" yaml:"message"`
	SuggestedActions []string `json:"suggested_actions,omitempty" yaml:"suggested_actions,omitempty"`
}

// NewNotImplementedResponse creates a response for reserved verbs.
func NewNotImplementedResponse(verb string) Response {
	return Response{
		Verb: verb,
		Error: &ErrorInfo{
			Type:             "not_implemented",
			Message:          verb + " verb not implemented yet",
			SuggestedActions: []string{"Run 'themescrape quickstart' for the list of working verbs"},
		},
	}
}

// NewUnknownVerbResponse creates a response for unknown verbs.
func NewUnknownVerbResponse(verb string, suggestion string) Response {
	msg := "Verb '" + verb + "' not recognized"
	if suggestion != "" {
		msg += ". Did you mean '" + suggestion + "'?"
	}

	return Response{
		Verb: verb,
		Error: &ErrorInfo{
			Type:    "unknown_verb",
			Message: msg,
			SuggestedActions: []string{
				"Valid verbs: list, show, diff, export, trend",
			},
		},
	}
}

// NewErrorResponse wraps a failure in the response envelope.
func NewErrorResponse(verb, errType, msg string) Response {
	return Response{
		Verb: verb,
		Error: &ErrorInfo{
			Type:    errType,
			Message: msg,
		},
	}
}
