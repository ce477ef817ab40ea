package scrape

import (
	"github.com/themescrape/themescrape/models"
)

type Job struct {
	URL  string
	Mode models.SampleMode
}

// Result holds the outcome of a processed job. Set is the page's
// combined observations; ColorCounts feeds the cross-source
// aggregation phase.
type Result struct {
	URL         string
	SourceID    int64
	FilePath    string
	StatusCode  int
	Set         *models.ObservationSet
	Meta        *models.SourceMetadata
	ColorCounts map[string]int
	Error       error
	ErrorType   string
	SizeBytes   int64
}

// ResultOutput is the structured output for a single URL.
type ResultOutput struct {
	URL       string `json:"url"`
	FilePath  string `json:"file_path,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

// ResultSummary holds detailed summary data for a single processed URL.
type ResultSummary struct {
	URL         string   `json:"url"`
	FilePath    string   `json:"file_path,omitempty"`
	Status      string   `json:"status"`
	StatusCode  int      `json:"status_code,omitempty"`
	Error       string   `json:"error,omitempty"`
	ErrorType   string   `json:"error_type,omitempty"`
	Theme       string   `json:"theme,omitempty"`
	Language    string   `json:"language,omitempty"`
	Frameworks  []string `json:"frameworks,omitempty"`
	Colors      int      `json:"colors,omitempty"`
	Dimensions  int      `json:"dimensions,omitempty"`
	SizeBytes   int64    `json:"size_bytes,omitempty"`
	TopSwatches []string `json:"top_swatches,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string      `json:"status"`
	Results interface{} `json:"results"`
	Stats   Stats       `json:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalSources     int      `json:"total_sources"`
	Successful       int      `json:"successful"`
	Failed           int      `json:"failed"`
	TotalTimeSeconds float64  `json:"total_time_seconds"`
	DistinctColors   int      `json:"distinct_colors,omitempty"`
	TopSwatches      []string `json:"top_swatches,omitempty"`
}

// SourceEntry is one source's outcome in a session's summary.yaml.
type SourceEntry struct {
	URL        string `yaml:"url"`
	SourceID   int64  `yaml:"source_id,omitempty"`
	FilePath   string `yaml:"file_path,omitempty"`
	Status     string `yaml:"status"` // success, failed
	StatusCode int    `yaml:"status_code,omitempty"`
	Error      string `yaml:"error,omitempty"`
	ErrorType  string `yaml:"error_type,omitempty"`

	// Page metadata
	Title              string   `yaml:"title,omitempty"`
	SiteName           string   `yaml:"site_name,omitempty"`
	Theme              string   `yaml:"theme,omitempty"`
	Language           string   `yaml:"language,omitempty"`
	LanguageConfidence float64  `yaml:"language_confidence,omitempty"`
	Frameworks         []string `yaml:"frameworks,omitempty"`

	// Sampling metrics
	Colors      int      `yaml:"colors,omitempty"`
	Dimensions  int      `yaml:"dimensions,omitempty"`
	SizeBytes   int64    `yaml:"size_bytes,omitempty"`
	ContentHash string   `yaml:"content_hash,omitempty"`
	TopSwatches []string `yaml:"top_swatches,omitempty"`
}

// SessionSummary wraps the per-source entries for summary.yaml.
type SessionSummary struct {
	SessionID int64         `yaml:"session_id"`
	Sources   []SourceEntry `yaml:"sources"`
}

// FailedSource represents a URL that failed during processing.
type FailedSource struct {
	URL          string `yaml:"url"`
	StatusCode   int    `yaml:"status_code"` // 0 for network errors
	ErrorType    string `yaml:"error_type"`  // http_error, network_error, parse_error, timeout
	ErrorMessage string `yaml:"error_message"`
}

// FailedSources wraps the list of failed URLs for YAML output.
type FailedSources struct {
	FailedSources []FailedSource `yaml:"failed_sources"`
}
