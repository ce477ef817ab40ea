package manifest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/analytics"
	"github.com/themescrape/themescrape/pkg/storage"
)

// ScrapeResult is what one worker produced for one source. It is
// passed in from the scrape command to avoid a dependency cycle.
type ScrapeResult struct {
	URL       string
	FilePath  string
	Set       *models.ObservationSet
	Error     error
	ErrorType string
	SizeBytes int64
}

// How many swatches a per-source entry lists.
const sourceSwatchCount = 5

// Tokens at or below this confidence get called out in the manifest.
// Anything under the single-source floor is a fallback or a conflict.
const lowConfidenceThreshold = 0.4

// Generate assembles the manifest from scrape results. Token fields
// stay empty until AddTokens is called with a resolved set.
func Generate(results []ScrapeResult, sessionID string) RunManifest {
	m := RunManifest{
		GeneratedAt:  time.Now().Format(time.RFC3339),
		SessionID:    sessionID,
		TotalSources: len(results),
	}

	var sets []models.ObservationSet
	for _, result := range results {
		summary := SourceSummary{URL: result.URL}

		if result.Error != nil {
			m.Failed++
			summary.Status = "error"
			summary.ErrorType = result.ErrorType
			summary.ErrorMessage = result.Error.Error()
			m.Sources = append(m.Sources, summary)
			continue
		}

		m.Successful++
		summary.Status = "success"
		summary.FilePath = result.FilePath
		summary.SizeBytes = result.SizeBytes

		if set := result.Set; set != nil {
			sets = append(sets, *set)
			summary.Theme = string(set.Meta.Theme)
			summary.Language = set.Meta.Language
			summary.Frameworks = set.Meta.Frameworks
			summary.Colors = set.Colors()
			summary.Dimensions = set.Dimensions()
			summary.TopSwatches = analytics.TopSwatches(analytics.Map(*set), sourceSwatchCount)
		}
		m.Sources = append(m.Sources, summary)
	}

	m.Analytics = analytics.Summarize(sets)
	return m
}

// AddTokens fills the token quality fields from a resolved run.
func (m *RunManifest) AddTokens(runID string, set models.TokenSet, diags []models.Diagnostic) {
	m.RunID = runID
	m.TokenCount = set.Len()
	m.AvgConfidence = set.AverageConfidence()
	m.LowConfidence = set.LowConfidence(lowConfidenceThreshold)
	for _, d := range diags {
		switch d.Severity {
		case models.SeverityError:
			m.Errors++
		default:
			m.Warnings++
		}
	}
}

// Write marshals the manifest and saves it through the storage layer.
func Write(m RunManifest, path string, s *storage.Storage) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling manifest: %w", err)
	}
	if err := s.SaveFile(path, data); err != nil {
		return fmt.Errorf("error saving manifest: %w", err)
	}
	return nil
}
