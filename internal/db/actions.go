package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/themescrape/themescrape/pkg/artifacts"
	dbpkg "github.com/themescrape/themescrape/pkg/db"
	"github.com/urfave/cli/v2"
)

func SessionsAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	sessions, err := database.ListSessions(limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found")
		return nil
	}

	printSessionTable(sessions)

	fmt.Printf("\nTotal: %d sessions\n", len(sessions))
	fmt.Printf("\nTip: Use 'themescrape db session <id>' to see details\n")

	return nil
}

// SessionAction shows details for a specific session
func SessionAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	sessionID, err := GetSessionIDOrLatest(c, database)
	if err != nil {
		return err
	}

	// Get session info
	session, err := database.GetSessionByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	// Get sources for this session
	sources, err := database.GetSessionSourcesWithSanitization(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session sources: %w", err)
	}

	// Get results for this session
	results, err := database.GetSessionResults(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session results: %w", err)
	}

	// Print session details
	fmt.Printf("Session %d\n", session.SessionID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Directory:   %s\n", session.SessionDir)
	fmt.Printf("Sources:     %d total (%d success, %d failed)\n",
		session.SourceCount, session.SuccessCount, session.FailedCount)
	fmt.Printf("Features:    %s\n", session.Features)

	// Print sources
	fmt.Printf("\nSources (%d):\n", len(sources))
	fmt.Println(strings.Repeat("-", 60))
	for i, s := range sources {
		if s.WasSanitized {
			fmt.Printf("%2d. [#%d] %s (cleaned)\n", i+1, s.SourceID, s.URL)
			fmt.Printf("    Original: %s\n", s.OriginalURL)
		} else {
			fmt.Printf("%2d. [#%d] %s\n", i+1, s.SourceID, s.URL)
		}
	}

	// Print results if available
	if len(results) > 0 {
		fmt.Printf("\nResults (%d):\n", len(results))
		fmt.Println(strings.Repeat("-", 60))
		for i, r := range results {
			fmt.Printf("%2d. [%s] %s\n", i+1, r.Status, r.URL)
			if r.Status == "failed" {
				fmt.Printf("    Error: [%s] %s\n", r.ErrorType, r.ErrorMessage)
			} else {
				fmt.Printf("    Status: %d | Size: %d bytes | Colors: %d | Dimensions: %d\n",
					r.StatusCode, r.SizeBytes, r.ColorCount, r.DimensionCount)
			}
		}
	}

	// Print runs resolved from this session
	runs, err := database.SessionRuns(sessionID)
	if err == nil && len(runs) > 0 {
		fmt.Printf("\nRuns (%d):\n", len(runs))
		fmt.Println(strings.Repeat("-", 60))
		for i, r := range runs {
			fmt.Printf("%2d. %s  %d tokens  avg confidence %.2f  %s\n",
				i+1, dbpkg.ShortRunID(r.RunID), r.TokenCount, r.AvgConfidence,
				r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	} else {
		fmt.Printf("\nTip: Use 'themescrape resolve --session %d' to compile tokens\n", sessionID)
	}

	return nil
}

// SourcesAction lists scraped sources with their stored metadata
func SourcesAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	sources, err := database.QuerySources(c.String("domain"), c.String("theme"))
	if err != nil {
		return fmt.Errorf("failed to query sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Println("No sources found")
		if c.String("domain") != "" {
			fmt.Printf("  - Filter: domain '%s'\n", c.String("domain"))
		}
		if c.String("theme") != "" {
			fmt.Printf("  - Filter: theme '%s'\n", c.String("theme"))
		}
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-25s %-8s %-6s %-20s %s\n",
		"ID", "Domain", "Theme", "Lang", "Last Scraped", "URL")
	fmt.Println(strings.Repeat("-", 110))

	for _, s := range sources {
		theme := "-"
		if s.Theme.Valid && s.Theme.String != "" {
			theme = s.Theme.String
		}
		lang := "-"
		if s.Language.Valid && s.Language.String != "" {
			lang = s.Language.String
		}
		scraped := "never"
		if s.LastScrapedAt.Valid {
			scraped = s.LastScrapedAt.Time.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-6d %-25s %-8s %-6s %-20s %s\n",
			s.SourceID, s.Domain, theme, lang, scraped, s.OriginalURL)
	}

	fmt.Printf("\nTotal: %d sources\n", len(sources))

	return nil
}

// QuerySessionsAction queries sessions with filters
func QuerySessionsAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	todayOnly := c.Bool("today")
	failedOnly := c.Bool("failed")
	urlPattern := c.String("url")

	sessions, err := database.QuerySessions(todayOnly, failedOnly, urlPattern)
	if err != nil {
		return fmt.Errorf("failed to query sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found matching filters")
		if todayOnly {
			fmt.Println("  - Filter: today only")
		}
		if failedOnly {
			fmt.Println("  - Filter: with failures")
		}
		if urlPattern != "" {
			fmt.Printf("  - Filter: URL pattern '%s'\n", urlPattern)
		}
		return nil
	}

	printSessionTable(sessions)

	fmt.Printf("\nFound: %d sessions\n", len(sessions))

	return nil
}

// ShowAction prints cached observations YAML for a source by ID or URL
func ShowAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("source ID or URL required\nUsage: themescrape db show <source_id_or_url>\nExample: themescrape db show 12 OR themescrape db show 6,7,8 OR themescrape db show https://stripe.com")
	}

	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	manager, err := artifacts.NewManager(artifacts.DefaultBaseDir, 0)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact manager: %w", err)
	}

	arg := c.Args().First()

	// Comma means batch mode
	for i, id := range strings.Split(arg, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		url, err := ResolveSourceURL(id, database)
		if err != nil {
			return fmt.Errorf("failed to resolve source %s: %w", id, err)
		}

		dir, err := manager.SourceDir(url)
		if err != nil {
			return fmt.Errorf("failed to locate artifacts for %s: %w", url, err)
		}
		filePath := filepath.Join(dir, artifacts.ObservationsFile)

		data, err := os.ReadFile(filepath.Clean(filePath))
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("observations not found for source: %s\n\nThis source may not have been scraped yet. Try:\n  themescrape scrape --urls \"%s\"", url, url)
			}
			return fmt.Errorf("failed to read observations for %s: %w", url, err)
		}

		if i > 0 {
			fmt.Print("\n---\n")
		}
		fmt.Printf("# Source: %s\n", url)
		fmt.Print(string(data))
	}

	return nil
}

// InitAction initializes the database schema explicitly
func InitAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := database.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	fmt.Printf("Database initialized: %s\n", database.Path())
	return nil
}

func printSessionTable(sessions []dbpkg.Session) {
	fmt.Printf("%-6s %-20s %-8s %-8s %-8s %-15s %-30s\n",
		"ID", "Created", "Sources", "Success", "Failed", "Features", "Session Dir")
	fmt.Println(strings.Repeat("-", 110))

	for _, s := range sessions {
		fmt.Printf("%-6d %-20s %-8d %-8d %-8d %-15s %-30s\n",
			s.SessionID,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.SourceCount,
			s.SuccessCount,
			s.FailedCount,
			s.Features,
			s.SessionDir,
		)
	}
}
