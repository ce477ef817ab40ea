// Package manifest builds the run manifest: a lightweight JSON
// overview of a scrape-and-resolve run that can be read without
// opening the per-source artifacts.
package manifest

import "github.com/themescrape/themescrape/pkg/analytics"

// RunManifest is the structure of the manifest JSON file. It carries
// per-source status, aggregate color analytics and, once a run has
// resolved, token quality numbers.
type RunManifest struct {
	GeneratedAt  string `json:"generated_at"`
	SessionID    string `json:"session_id,omitempty"`
	RunID        string `json:"run_id,omitempty"`
	TotalSources int    `json:"total_sources"`
	Successful   int    `json:"successful"`
	Failed       int    `json:"failed"`

	Analytics analytics.Summary `json:"analytics"`

	TokenCount    int      `json:"token_count,omitempty"`
	AvgConfidence float64  `json:"avg_confidence,omitempty"`
	LowConfidence []string `json:"low_confidence,omitempty"`
	Warnings      int      `json:"warnings,omitempty"`
	Errors        int      `json:"errors,omitempty"`

	Sources []SourceSummary `json:"sources"`
}

// SourceSummary is the per-source entry: status, where its artifacts
// live, and what the samplers found there.
type SourceSummary struct {
	URL          string   `json:"url"`
	FilePath     string   `json:"file_path,omitempty"`
	Status       string   `json:"status"` // "success" or "error"
	ErrorType    string   `json:"error_type,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	SizeBytes    int64    `json:"size_bytes,omitempty"`
	Theme        string   `json:"theme,omitempty"`
	Language     string   `json:"language,omitempty"`
	Frameworks   []string `json:"frameworks,omitempty"`
	Colors       int      `json:"colors,omitempty"`
	Dimensions   int      `json:"dimensions,omitempty"`
	TopSwatches  []string `json:"top_swatches,omitempty"`
}
