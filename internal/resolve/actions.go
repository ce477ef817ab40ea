package resolve

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/artifacts"
	"github.com/themescrape/themescrape/pkg/db"
	"github.com/urfave/cli/v2"
)

// ResolveAction compiles cached observations into a persisted token
// run. Input is either a scrape session (--session, latest when
// omitted) or explicit observation files (--files).
func ResolveAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	config := models.DefaultConfig()
	var err error
	if c.IsSet("config") {
		config, err = models.LoadConfig(c.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	}
	if c.IsSet("output-dir") {
		config.OutputDir = c.String("output-dir")
	}

	// Staleness is scrape's concern; resolution takes whatever
	// observations the cache holds.
	manager, err := artifacts.NewManager(config.OutputDir, 0)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact manager: %w", err)
	}

	database, err := db.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	var out *RunOutput
	if c.IsSet("files") {
		var paths []string
		for _, p := range strings.Split(c.String("files"), ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		if len(paths) == 0 {
			return fmt.Errorf("no observation files provided via --files")
		}
		logger.Info("Resolving observation files", "count", len(paths))
		out, err = ForFiles(logger, database, manager, config, paths)
	} else {
		sessionID := int64(c.Int("session"))
		if !c.IsSet("session") {
			sessionID, err = latestSessionID(database)
			if err != nil {
				return err
			}
		}
		logger.Info("Resolving session", "session_id", sessionID)
		out, err = ForSession(logger, database, manager, config, sessionID)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: %d tokens from %d sources, avg confidence %.2f\n",
		db.ShortRunID(out.RunID), out.Tokens, out.Sources, out.AvgConfidence)
	if out.Warnings > 0 || out.Errors > 0 {
		fmt.Printf("Diagnostics: %d warnings, %d errors\n", out.Warnings, out.Errors)
	}
	if len(out.Missing) > 0 {
		fmt.Printf("Skipped %d source(s) with no cached observations\n", len(out.Missing))
	}
	fmt.Printf("Tokens: %s\n", out.OutputDir)

	fmt.Printf("\n\U0001F4A1 Quick start:\n")
	fmt.Printf("  themescrape preview                 # Swatch grid in the terminal\n")
	fmt.Printf("  themescrape export --format css     # Emit CSS custom properties\n")
	fmt.Printf("  themescrape docs                    # Standalone style guide\n")

	return nil
}

// latestSessionID returns the most recent session, for commands where
// --session was omitted.
func latestSessionID(database *db.DB) (int64, error) {
	sessions, err := database.ListSessions(1)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest session: %w", err)
	}
	if len(sessions) == 0 {
		return 0, fmt.Errorf("no sessions found. Run 'themescrape scrape --urls \"...\"' first")
	}
	return sessions[0].SessionID, nil
}
