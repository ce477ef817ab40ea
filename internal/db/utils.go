package db

import (
	"fmt"

	dbpkg "github.com/themescrape/themescrape/pkg/db"
	"github.com/urfave/cli/v2"
)

// ResolveSourceURL maps a numeric source ID onto its URL; anything
// non-numeric is taken as a URL already.
func ResolveSourceURL(arg string, database *dbpkg.DB) (string, error) {
	var sourceID int64
	if _, err := fmt.Sscanf(arg, "%d", &sourceID); err == nil {
		return database.GetSourceByID(sourceID)
	}
	return arg, nil
}

// GetSessionIDOrLatest returns the session ID from args, or the latest session if not provided
func GetSessionIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		// No session ID provided, use latest
		sessions, err := database.ListSessions(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest session: %w", err)
		}
		if len(sessions) == 0 {
			return 0, fmt.Errorf("no sessions found. Run 'themescrape scrape --urls \"...\"' first")
		}
		return sessions[0].SessionID, nil
	}

	// Parse provided session ID
	var sessionID int64
	_, err := fmt.Sscanf(c.Args().First(), "%d", &sessionID)
	if err != nil {
		return 0, fmt.Errorf("invalid session ID: %s", c.Args().First())
	}
	return sessionID, nil
}
