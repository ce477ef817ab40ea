package runs

import (
	"fmt"

	"github.com/themescrape/themescrape/models"
	dbpkg "github.com/themescrape/themescrape/pkg/db"
	"github.com/themescrape/themescrape/pkg/export"
)

// ExportResponse is the data returned by the EXPORT verb. Rendered is
// the full output text in the requested format.
type ExportResponse struct {
	RunID      string `json:"run_id" yaml:"run_id"`
	Format     string `json:"format" yaml:"format"`
	TokenCount int    `json:"token_count" yaml:"token_count"`
	Rendered   string `json:"rendered" yaml:"rendered"`
}

// ExecuteExport renders a run's tokens in the requested format. An
// empty run ID means the latest run; the format defaults to CSS.
func ExecuteExport(db *dbpkg.DB, req models.Request) (models.Response, error) {
	format := export.FormatCSS
	if req.Format != "" {
		var err error
		format, err = export.ParseFormat(req.Format)
		if err != nil {
			return models.Response{}, err
		}
	}

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

	rendered, err := export.Render(set, format)
	if err != nil {
		return models.Response{}, err
	}

	return models.Response{
		Verb: VerbEXPORT,
		Data: ExportResponse{
			RunID:      rec.RunID,
			Format:     string(format),
			TokenCount: set.Len(),
			Rendered:   string(rendered),
		},
	}, nil
}
