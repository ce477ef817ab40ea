package scrape

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/themescrape/themescrape/pkg/analytics"
	"github.com/themescrape/themescrape/pkg/db"
	"github.com/themescrape/themescrape/pkg/session"
	"gopkg.in/yaml.v3"
)

func BuildSummary(r Result) ResultSummary {
	summary := ResultSummary{
		URL:        r.URL,
		FilePath:   r.FilePath,
		StatusCode: r.StatusCode,
		SizeBytes:  r.SizeBytes,
	}
	if r.Error != nil {
		summary.Status = "failed"
		summary.Error = r.Error.Error()
		summary.ErrorType = r.ErrorType
		return summary
	}

	summary.Status = "success"
	if r.Meta != nil {
		summary.Theme = string(r.Meta.Theme)
		summary.Language = r.Meta.Language
		summary.Frameworks = r.Meta.Frameworks
	}
	if r.Set != nil {
		summary.Colors = r.Set.Colors()
		summary.Dimensions = r.Set.Dimensions()
	}
	if r.ColorCounts != nil {
		summary.TopSwatches = analytics.TopSwatches(r.ColorCounts, 5)
	}
	return summary
}

// buildSourceEntry creates one session summary entry (all sources,
// failed ones included).
func buildSourceEntry(r Result) SourceEntry {
	entry := SourceEntry{
		URL:      r.URL,
		SourceID: r.SourceID,
		FilePath: r.FilePath,
	}

	if r.Error != nil {
		entry.Status = "failed"
		entry.StatusCode = r.StatusCode
		entry.Error = r.Error.Error()
		entry.ErrorType = r.ErrorType
		return entry
	}

	entry.Status = "success"
	entry.StatusCode = r.StatusCode

	if r.Meta != nil {
		entry.Title = r.Meta.Title
		entry.SiteName = r.Meta.SiteName
		entry.Theme = string(r.Meta.Theme)
		entry.Language = r.Meta.Language
		entry.LanguageConfidence = r.Meta.LanguageConfidence
		entry.Frameworks = r.Meta.Frameworks
		entry.ContentHash = r.Meta.ContentHash
	}
	if r.Set != nil {
		entry.Colors = r.Set.Colors()
		entry.Dimensions = r.Set.Dimensions()
	}
	entry.SizeBytes = r.SizeBytes
	if r.ColorCounts != nil {
		entry.TopSwatches = analytics.TopSwatches(r.ColorCounts, 5)
	}

	return entry
}

// WriteSummaryToSession writes the per-source summary to a session directory.
func WriteSummaryToSession(results []Result, sessionID int64, sessionDir string, database *db.DB) error {
	sources := make([]SourceEntry, 0, len(results))

	for _, r := range results {
		entry := buildSourceEntry(r)
		// Workers may have run without a database handle
		if entry.SourceID == 0 && database != nil {
			if id, err := database.GetSourceID(r.URL); err == nil {
				entry.SourceID = id
			}
		}
		sources = append(sources, entry)
	}

	outputPath := filepath.Join(sessionDir, session.SummaryFile)

	yamlBytes, err := yaml.Marshal(SessionSummary{SessionID: sessionID, Sources: sources})
	if err != nil {
		return fmt.Errorf("failed to marshal summary to YAML: %w", err)
	}

	if err := os.WriteFile(outputPath, yamlBytes, 0600); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}

	return nil
}

// collectFailedSources extracts failed URLs from results and creates FailedSource objects.
func collectFailedSources(results []Result) []FailedSource {
	var failed []FailedSource

	for _, r := range results {
		if r.Error != nil {
			fs := FailedSource{
				URL:          r.URL,
				StatusCode:   r.StatusCode,
				ErrorType:    r.ErrorType,
				ErrorMessage: r.Error.Error(),
			}

			// Classify error type if not set
			if fs.ErrorType == "" {
				fs.ErrorType = classifyError(r.Error.Error(), fs.StatusCode)
			}

			failed = append(failed, fs)
		}
	}

	return failed
}

// classifyError maps an error message and status code onto a coarse
// error type for reporting.
func classifyError(errMsg string, statusCode int) string {
	msg := strings.ToLower(errMsg)
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return "timeout"
	case strings.Contains(msg, "parse") || strings.Contains(msg, "unmarshal"):
		return "parse_error"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "network") || strings.Contains(msg, "no such host"):
		return "network_error"
	case statusCode >= 400:
		return "http_error"
	default:
		return "unknown_error"
	}
}

// WriteFailedToSession writes failed sources to failed.yaml in the session directory.
func WriteFailedToSession(failed []FailedSource, sessionDir string) error {
	if len(failed) == 0 {
		return nil // No failures, skip writing file
	}

	outputPath := filepath.Join(sessionDir, session.FailedFile)

	yamlBytes, err := yaml.Marshal(&FailedSources{FailedSources: failed})
	if err != nil {
		return fmt.Errorf("failed to marshal failed sources to YAML: %w", err)
	}

	if err := os.WriteFile(outputPath, yamlBytes, 0600); err != nil {
		return fmt.Errorf("failed to write failed sources file: %w", err)
	}

	return nil
}
