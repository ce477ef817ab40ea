package resolve

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/artifacts"
	"github.com/themescrape/themescrape/pkg/db"
	"github.com/themescrape/themescrape/pkg/docgen"
	"github.com/themescrape/themescrape/pkg/engine"
	"github.com/themescrape/themescrape/pkg/export"
	"github.com/themescrape/themescrape/pkg/manifest"
	"github.com/themescrape/themescrape/pkg/storage"
	"gopkg.in/yaml.v3"
)

// RunOutput is what a resolution run reports back: identifiers, token
// quality numbers, and where the artifacts landed.
type RunOutput struct {
	RunID         string   `json:"run_id" yaml:"run_id"`
	SessionID     int64    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Sources       int      `json:"sources" yaml:"sources"`
	Missing       []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	Tokens        int      `json:"tokens" yaml:"tokens"`
	AvgConfidence float64  `json:"avg_confidence" yaml:"avg_confidence"`
	Warnings      int      `json:"warnings" yaml:"warnings"`
	Errors        int      `json:"errors" yaml:"errors"`
	OutputDir     string   `json:"output_dir" yaml:"output_dir"`
}

// ForSession resolves the cached observations of one scrape session
// into a persisted token run. Sources with no cached observations are
// skipped with a warning; the run proceeds on whatever is available.
func ForSession(logger *slog.Logger, database *db.DB, manager *artifacts.Manager, config *models.Config, sessionID int64) (*RunOutput, error) {
	sources, err := database.GetSessionSourcesWithSanitization(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("session %d has no sources", sessionID)
	}

	urls := make([]string, len(sources))
	for i, s := range sources {
		urls[i] = s.URL
	}

	bundles, missing, err := manager.ListObservations(urls)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}
	for _, u := range missing {
		logger.Warn("No cached observations for source, skipping", "url", u)
	}
	if len(bundles) == 0 {
		return nil, fmt.Errorf("session %d has no cached observations, scrape it first", sessionID)
	}

	out, err := persistRun(logger, database, manager, config, bundles, sessionID)
	if err != nil {
		return nil, err
	}
	out.Missing = missing
	return out, nil
}

// ForFiles resolves observation sets loaded straight from YAML files,
// bypassing the session system.
func ForFiles(logger *slog.Logger, database *db.DB, manager *artifacts.Manager, config *models.Config, paths []string) (*RunOutput, error) {
	bundles := make([]models.SourceObservations, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read observations file %s: %w", path, err)
		}
		bundle, err := decodeObservations(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse observations file %s: %w", path, err)
		}
		if bundle.Computed.SourceID == "" {
			bundle.Computed.SourceID = path
		}
		bundles = append(bundles, bundle)
	}

	return persistRun(logger, database, manager, config, bundles, 0)
}

// decodeObservations accepts either a scrape bundle (computed + exact)
// or a bare observation set, so hand-authored files work too.
func decodeObservations(data []byte) (models.SourceObservations, error) {
	var bundle models.SourceObservations
	if err := yaml.Unmarshal(data, &bundle); err == nil &&
		(len(bundle.Computed.Observations) > 0 || bundle.Exact != nil) {
		return bundle, nil
	}

	var set models.ObservationSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return models.SourceObservations{}, err
	}
	if len(set.Observations) == 0 {
		return models.SourceObservations{}, fmt.Errorf("no observations found")
	}
	return models.SourceObservations{Computed: set}, nil
}

// persistRun runs the engine over the bundles and persists everything
// a run leaves behind: the database row with tokens and diagnostics,
// tokens.json / tokens.css / styleguide.html / manifest.json /
// summary.yaml in the run directory.
func persistRun(logger *slog.Logger, database *db.DB, manager *artifacts.Manager, config *models.Config, bundles []models.SourceObservations, sessionID int64) (*RunOutput, error) {
	var engineSets []models.ObservationSet
	scrapeResults := make([]manifest.ScrapeResult, 0, len(bundles))
	for _, bundle := range bundles {
		engineSets = append(engineSets, bundle.Sets()...)

		combined := bundle.Combined()
		sr := manifest.ScrapeResult{URL: combined.SourceID, Set: &combined}
		if dir, dirErr := manager.SourceDir(combined.SourceID); dirErr == nil {
			sr.FilePath = filepath.Join(dir, artifacts.ObservationsFile)
		}
		scrapeResults = append(scrapeResults, sr)
	}

	res := engine.ResolveFull(engineSets, config.Options())

	runID := uuid.New().String()
	res.Tokens.RunID = runID
	logger.Info("Resolution complete", "run_id", runID, "sources", res.Sources, "tokens", res.Tokens.Len(), "diagnostics", len(res.Diagnostics))

	outputDir, err := manager.EnsureRunDir(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	jsonData, err := export.Render(res.Tokens, export.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to render tokens JSON: %w", err)
	}
	if _, err := manager.WriteRunArtifact(runID, artifacts.TokensJSONFile, jsonData); err != nil {
		return nil, fmt.Errorf("failed to write tokens JSON: %w", err)
	}

	cssData, err := export.Render(res.Tokens, export.FormatCSS)
	if err != nil {
		return nil, fmt.Errorf("failed to render tokens CSS: %w", err)
	}
	if _, err := manager.WriteRunArtifact(runID, artifacts.TokensCSSFile, cssData); err != nil {
		return nil, fmt.Errorf("failed to write tokens CSS: %w", err)
	}

	// The style guide and manifest are companions to the run, not the
	// run itself; failures there are logged but do not lose the tokens.
	guide, err := docgen.Render(docgen.Data{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Sources:     sourceURLs(scrapeResults),
		Tokens:      res.Tokens,
		Diagnostics: res.Diagnostics,
	})
	if err != nil {
		logger.Warn("Failed to render style guide", "error", err)
	} else if _, werr := manager.WriteRunArtifact(runID, artifacts.StyleguideFile, guide); werr != nil {
		logger.Warn("Failed to write style guide", "error", werr)
	}

	warnings, errorCount := countDiagnostics(res.Diagnostics)
	rec := db.RunRecord{
		RunID:         runID,
		SessionID:     db.NewNullInt64(sessionID),
		SourceCount:   res.Sources,
		TokenCount:    res.Tokens.Len(),
		AvgConfidence: res.Tokens.AverageConfidence(),
		WarningCount:  warnings,
		ErrorCount:    errorCount,
		OutputDir:     outputDir,
	}
	if err := database.SaveRun(rec, res.Tokens, res.Diagnostics); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	sessionLabel := ""
	if sessionID > 0 {
		sessionLabel = strconv.FormatInt(sessionID, 10)
	}
	m := manifest.Generate(scrapeResults, sessionLabel)
	m.AddTokens(runID, res.Tokens, res.Diagnostics)
	store := &storage.Storage{}
	if err := manifest.Write(m, filepath.Join(outputDir, artifacts.ManifestFile), store); err != nil {
		logger.Warn("Failed to write run manifest", "error", err)
	}

	out := &RunOutput{
		RunID:         runID,
		SessionID:     sessionID,
		Sources:       res.Sources,
		Tokens:        res.Tokens.Len(),
		AvgConfidence: res.Tokens.AverageConfidence(),
		Warnings:      warnings,
		Errors:        errorCount,
		OutputDir:     outputDir,
	}
	if data, marshalErr := yaml.Marshal(out); marshalErr == nil {
		if _, werr := manager.WriteRunArtifact(runID, artifacts.RunSummaryFile, data); werr != nil {
			logger.Warn("Failed to write run summary", "error", werr)
		}
	}

	return out, nil
}

func sourceURLs(results []manifest.ScrapeResult) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.URL)
	}
	return urls
}

func countDiagnostics(diags []models.Diagnostic) (warnings, errors int) {
	for _, d := range diags {
		if d.Severity == models.SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	return warnings, errors
}
