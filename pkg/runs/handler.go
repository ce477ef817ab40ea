// Package runs implements the Runs API: a small verb-dispatch surface
// over stored resolution runs, built for scripted and LLM callers that
// want structured YAML rather than human tables.
package runs

import (
	"fmt"

	"github.com/themescrape/themescrape/models"
	dbpkg "github.com/themescrape/themescrape/pkg/db"
)

// Handle dispatches a Runs API request to the appropriate verb handler.
func Handle(req models.Request) models.Response {
	if !IsValidVerb(req.Verb) {
		return models.NewUnknownVerbResponse(req.Verb, suggestVerb(req.Verb))
	}

	switch req.Verb {
	case VerbLIST:
		return handleList(req)
	case VerbSHOW:
		return handleShow(req)
	case VerbDIFF:
		return handleDiff(req)
	case VerbEXPORT:
		return handleExport(req)
	case VerbTREND:
		return handleTrend(req)
	default:
		// Should never reach here due to IsValidVerb check
		return models.NewUnknownVerbResponse(req.Verb, "")
	}
}

func handleList(req models.Request) models.Response {
	db, err := openDB()
	if err != nil {
		return databaseError(VerbLIST, err)
	}
	defer db.Close()

	resp, err := ExecuteList(db, req)
	if err != nil {
		return models.NewErrorResponse(VerbLIST, "query_error", err.Error())
	}
	return resp
}

func handleShow(req models.Request) models.Response {
	db, err := openDB()
	if err != nil {
		return databaseError(VerbSHOW, err)
	}
	defer db.Close()

	resp, err := ExecuteShow(db, req)
	if err != nil {
		return models.NewErrorResponse(VerbSHOW, "query_error", err.Error())
	}
	return resp
}

func handleDiff(req models.Request) models.Response {
	db, err := openDB()
	if err != nil {
		return databaseError(VerbDIFF, err)
	}
	defer db.Close()

	resp, err := ExecuteDiff(db, req)
	if err != nil {
		return models.NewErrorResponse(VerbDIFF, "query_error", err.Error())
	}
	return resp
}

func handleExport(req models.Request) models.Response {
	db, err := openDB()
	if err != nil {
		return databaseError(VerbEXPORT, err)
	}
	defer db.Close()

	resp, err := ExecuteExport(db, req)
	if err != nil {
		return models.NewErrorResponse(VerbEXPORT, "export_error", err.Error())
	}
	return resp
}

// Trend is reserved: cross-run token history once enough runs accrue.
func handleTrend(req models.Request) models.Response {
	return models.NewNotImplementedResponse(VerbTREND)
}

func databaseError(verb string, err error) models.Response {
	return models.Response{
		Verb: verb,
		Error: &models.ErrorInfo{
			Type:    "database_error",
			Message: fmt.Sprintf("Failed to open database: %v", err),
			SuggestedActions: []string{
				"Ensure the database is initialized",
				"Run 'themescrape db init' if needed",
			},
		},
	}
}

// suggestVerb finds the closest valid verb for typos, within an edit
// distance of two.
func suggestVerb(verb string) string {
	best := ""
	bestDist := 3
	for _, v := range AllVerbs() {
		if d := editDistance(verb, v); d < bestDist {
			best = v
			bestDist = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// openDB opens the database connection.
func openDB() (*dbpkg.DB, error) {
	return dbpkg.Open()
}
