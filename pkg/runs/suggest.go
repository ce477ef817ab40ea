package runs

import (
	"fmt"
	"strings"

	"github.com/themescrape/themescrape/models"
	dbpkg "github.com/themescrape/themescrape/pkg/db"
)

// RunStats holds the numbers suggestions are built from.
type RunStats struct {
	TokenCount    int
	AvgConfidence float64
	LowConfidence []string
	Warnings      int
	Errors        int
	Unresolved    int
	PriorRunID    string // Older run over the same session, if any
}

// lowConfidenceThreshold marks tokens worth a human look.
const lowConfidenceThreshold = 0.4

// SuggestFromRun generates next-step suggestions based on a run's
// contents. An empty run ID means the latest run.
func SuggestFromRun(runID string) (string, error) {
	db, err := openDB()
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	resolved, err := resolveRunID(db, runID)
	if err != nil {
		return "", err
	}
	rec, err := db.GetRun(resolved)
	if err != nil {
		return "", err
	}

	stats, err := getRunStats(db, rec)
	if err != nil {
		return "", fmt.Errorf("failed to get run stats: %w", err)
	}

	return formatSuggestions(rec.RunID, stats), nil
}

// getRunStats collects token quality numbers for a run.
func getRunStats(db *dbpkg.DB, rec *dbpkg.RunRecord) (*RunStats, error) {
	set, err := db.LoadTokens(rec.RunID)
	if err != nil {
		return nil, err
	}
	diags, err := db.LoadDiagnostics(rec.RunID)
	if err != nil {
		return nil, err
	}

	stats := &RunStats{
		TokenCount:    set.Len(),
		AvgConfidence: set.AverageConfidence(),
		LowConfidence: set.LowConfidence(lowConfidenceThreshold),
		Warnings:      rec.WarningCount,
		Errors:        rec.ErrorCount,
	}
	for _, d := range diags {
		if d.Code == models.DiagUnresolvedRole {
			stats.Unresolved++
		}
	}

	// An older run over the same session makes a natural diff target
	if rec.SessionID.Valid {
		siblings, err := db.SessionRuns(rec.SessionID.Int64)
		if err == nil {
			for _, s := range siblings {
				if s.RunID != rec.RunID && s.CreatedAt.Before(rec.CreatedAt) {
					stats.PriorRunID = s.RunID
					break
				}
			}
		}
	}

	return stats, nil
}

// formatSuggestions generates human-readable suggestions.
func formatSuggestions(runID string, stats *RunStats) string {
	var sb strings.Builder
	short := dbpkg.ShortRunID(runID)

	sb.WriteString(fmt.Sprintf("\n📊 Run %s Analysis:\n", short))
	sb.WriteString(fmt.Sprintf("  %d tokens resolved, avg confidence %.2f\n", stats.TokenCount, stats.AvgConfidence))
	if len(stats.LowConfidence) > 0 {
		sb.WriteString(fmt.Sprintf("  %d tokens below %.1f confidence\n", len(stats.LowConfidence), lowConfidenceThreshold))
	}
	if stats.Unresolved > 0 {
		sb.WriteString(fmt.Sprintf("  %d roles fell back to defaults\n", stats.Unresolved))
	}
	if stats.Warnings > 0 || stats.Errors > 0 {
		sb.WriteString(fmt.Sprintf("  %d warnings, %d errors\n", stats.Warnings, stats.Errors))
	}

	sb.WriteString("\n💡 Suggested next steps:\n")
	for _, suggestion := range generateSuggestions(short, stats) {
		sb.WriteString(fmt.Sprintf("  %s\n", suggestion))
	}

	sb.WriteString("\nAdvanced: themescrape runs --help\n")

	return sb.String()
}

// generateSuggestions creates command suggestions based on stats.
func generateSuggestions(short string, stats *RunStats) []string {
	var suggestions []string

	suggestions = append(suggestions,
		fmt.Sprintf("themescrape preview --run %s  # Swatches in the terminal", short))

	if len(stats.LowConfidence) > 0 {
		// Point at the first shaky token's family
		prefix := familyPrefix(stats.LowConfidence[0])
		suggestions = append(suggestions,
			fmt.Sprintf("themescrape runs show --run %s --filter %s  # Inspect low-confidence tokens", short, prefix))
	}

	if stats.PriorRunID != "" {
		suggestions = append(suggestions,
			fmt.Sprintf("themescrape runs diff %s %s  # Compare with the previous run", dbpkg.ShortRunID(stats.PriorRunID), short))
	}

	suggestions = append(suggestions,
		fmt.Sprintf("themescrape export --run %s --format css", short),
		fmt.Sprintf("themescrape docs --run %s  # Generate the style guide", short))

	if stats.Unresolved > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("themescrape runs show --run %s --filter color-  # Review role fallbacks", short))
	}

	if len(suggestions) > 6 {
		suggestions = suggestions[:6]
	}
	return suggestions
}

// familyPrefix trims a token name to its family, e.g.
// "color-primary-hover" suggests filtering on "color-".
func familyPrefix(name string) string {
	if idx := strings.Index(name, "-"); idx >= 0 {
		return name[:idx+1]
	}
	return name
}
