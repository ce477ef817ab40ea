package runs

import (
	"fmt"
	"strings"

	"github.com/themescrape/themescrape/models"
	dbpkg "github.com/themescrape/themescrape/pkg/db"
)

// TokenEntry is one token in a show or diff payload.
type TokenEntry struct {
	Name       string  `json:"name" yaml:"name"`
	Value      string  `json:"value" yaml:"value"`
	Kind       string  `json:"kind" yaml:"kind"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// DiagnosticEntry is one diagnostic in a show payload.
type DiagnosticEntry struct {
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
}

// ShowResponse is the data returned by the SHOW verb.
type ShowResponse struct {
	Run         RunView           `json:"run" yaml:"run"`
	Filter      string            `json:"filter,omitempty" yaml:"filter,omitempty"`
	Tokens      []TokenEntry      `json:"tokens" yaml:"tokens"`
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ExecuteShow returns one run's tokens and diagnostics. An empty run
// ID means the latest run; a filter keeps only tokens whose name
// starts with it.
func ExecuteShow(db *dbpkg.DB, req models.Request) (models.Response, error) {
	runID, err := resolveRunID(db, req.RunID)
	if err != nil {
		return models.Response{}, err
	}

	rec, err := db.GetRun(runID)
	if err != nil {
		return models.Response{}, err
	}

	set, err := db.LoadTokens(rec.RunID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to load tokens: %w", err)
	}
	diags, err := db.LoadDiagnostics(rec.RunID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to load diagnostics: %w", err)
	}

	entries := make([]TokenEntry, 0, set.Len())
	for _, name := range set.Names() {
		if req.Filter != "" && !strings.HasPrefix(name, req.Filter) {
			continue
		}
		t, _ := set.Get(name)
		entries = append(entries, TokenEntry{
			Name:       name,
			Value:      t.Value,
			Kind:       string(t.Kind),
			Confidence: t.Confidence,
		})
	}

	diagEntries := make([]DiagnosticEntry, 0, len(diags))
	for _, d := range diags {
		diagEntries = append(diagEntries, DiagnosticEntry{
			Severity: d.Severity,
			Code:     d.Code,
			Message:  d.Message,
			Source:   d.Source,
		})
	}

	return models.Response{
		Verb: VerbSHOW,
		Data: ShowResponse{
			Run:         viewFromRecord(*rec),
			Filter:      req.Filter,
			Tokens:      entries,
			Diagnostics: diagEntries,
		},
	}, nil
}

// resolveRunID maps an empty ID onto the most recent run.
func resolveRunID(db *dbpkg.DB, runID string) (string, error) {
	if runID != "" {
		return runID, nil
	}
	latest, err := db.LatestRunID()
	if err != nil {
		return "", err
	}
	return latest, nil
}
