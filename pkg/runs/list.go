package runs

import (
	"fmt"
	"time"

	"github.com/themescrape/themescrape/models"
	dbpkg "github.com/themescrape/themescrape/pkg/db"
)

// DefaultListLimit bounds list output when no limit constraint is set.
const DefaultListLimit = 20

// RunView is the serialization-friendly shape of a stored run.
type RunView struct {
	RunID         string  `json:"run_id" yaml:"run_id"`
	ShortID       string  `json:"short_id" yaml:"short_id"`
	SessionID     int64   `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Created       string  `json:"created" yaml:"created"`
	SourceCount   int     `json:"source_count" yaml:"source_count"`
	TokenCount    int     `json:"token_count" yaml:"token_count"`
	AvgConfidence float64 `json:"avg_confidence" yaml:"avg_confidence"`
	Warnings      int     `json:"warnings" yaml:"warnings"`
	Errors        int     `json:"errors" yaml:"errors"`
	OutputDir     string  `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// ListResponse is the data returned by the LIST verb.
type ListResponse struct {
	Count int       `json:"count" yaml:"count"`
	Runs  []RunView `json:"runs" yaml:"runs"`
}

// ExecuteList returns stored runs, newest first. A session constraint
// narrows to one session's runs; a limit constraint caps the count.
func ExecuteList(db *dbpkg.DB, req models.Request) (models.Response, error) {
	limit := DefaultListLimit
	if v, ok := req.Constraints["limit"]; ok {
		if n, ok := v.(int); ok && n > 0 {
			limit = n
		}
	}

	var records []dbpkg.RunRecord
	var err error
	if req.Session > 0 {
		records, err = db.SessionRuns(req.Session)
	} else {
		records, err = db.ListRuns(limit)
	}
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to list runs: %w", err)
	}
	if req.Session > 0 && len(records) > limit {
		records = records[:limit]
	}

	views := make([]RunView, 0, len(records))
	for _, rec := range records {
		views = append(views, viewFromRecord(rec))
	}

	return models.Response{
		Verb: VerbLIST,
		Data: ListResponse{Count: len(views), Runs: views},
	}, nil
}

func viewFromRecord(rec dbpkg.RunRecord) RunView {
	v := RunView{
		RunID:         rec.RunID,
		ShortID:       dbpkg.ShortRunID(rec.RunID),
		Created:       rec.CreatedAt.UTC().Format(time.RFC3339),
		SourceCount:   rec.SourceCount,
		TokenCount:    rec.TokenCount,
		AvgConfidence: rec.AvgConfidence,
		Warnings:      rec.WarningCount,
		Errors:        rec.ErrorCount,
		OutputDir:     rec.OutputDir,
	}
	if rec.SessionID.Valid {
		v.SessionID = rec.SessionID.Int64
	}
	return v
}
