package scrape

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/themescrape/themescrape/internal/common"
	"github.com/themescrape/themescrape/internal/resolve"
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/analytics"
	"github.com/themescrape/themescrape/pkg/artifacts"
	"github.com/themescrape/themescrape/pkg/db"
	"github.com/themescrape/themescrape/pkg/filter"
	"github.com/themescrape/themescrape/pkg/session"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func ScrapeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()
	finalOutput := &FinalOutput{}

	var maxAge time.Duration
	var err error
	if c.Bool("force-fetch") {
		maxAge = 0
	} else {
		maxAge, err = time.ParseDuration(c.String("max-age"))
		if err != nil {
			logger.Error("invalid max-age duration", "error", err)
			os.Exit(2)
		}
	}

	// Runtime config: file first, flags override
	config := models.DefaultConfig()
	if c.IsSet("config") {
		config, err = models.LoadConfig(c.String("config"))
		if err != nil {
			logger.Error("failed to load config file", "error", err)
			os.Exit(2)
		}
	}
	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}
	if c.IsSet("output-dir") {
		config.OutputDir = c.String("output-dir")
	}

	manager, err := artifacts.NewManager(config.OutputDir, maxAge)
	if err != nil {
		logger.Error("failed to initialize artifact manager", "error", err)
		os.Exit(2)
	}

	// Open database for metadata storage
	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	// Load URLs from session if --session is provided
	if c.IsSet("session") {
		if c.IsSet("urls") {
			fmt.Fprintln(os.Stderr, "Error: Cannot use both --urls and --session flags")
			fmt.Fprintln(os.Stderr, "Use --session to rescrape URLs from a previous session, or --urls for new URLs")
			os.Exit(1)
		}

		sessionID := int64(c.Int("session"))
		failedOnly := c.Bool("failed-only")

		if failedOnly {
			// Get only failed URLs from session
			results, err := database.GetSessionResults(sessionID)
			if err != nil {
				logger.Error("failed to get session results", "error", err, "session_id", sessionID)
				os.Exit(2)
			}

			var failedURLs []string
			for _, r := range results {
				if r.Status == "failed" {
					failedURLs = append(failedURLs, r.URL)
				}
			}

			if len(failedURLs) == 0 {
				fmt.Printf("Session %d has no failed URLs to retry\n", sessionID)
				os.Exit(0)
			}

			config.URLs = failedURLs
			fmt.Fprintf(os.Stderr, "Retrying %d failed URLs from session %d\n", len(failedURLs), sessionID)
		} else {
			// Get all URLs from session
			sources, err := database.GetSessionSourcesWithSanitization(sessionID)
			if err != nil {
				logger.Error("failed to get session sources", "error", err, "session_id", sessionID)
				os.Exit(2)
			}

			if len(sources) == 0 {
				fmt.Printf("Session %d has no URLs\n", sessionID)
				os.Exit(0)
			}

			config.URLs = make([]string, len(sources))
			for i, s := range sources {
				config.URLs[i] = s.URL
			}

			fmt.Fprintf(os.Stderr, "Rescraping %d URLs from session %d\n", len(config.URLs), sessionID)
		}
	}

	if c.IsSet("urls") {
		config.URLs = strings.Split(c.String("urls"), ",")
	}
	// A config file may carry a standing URL list; flags win when set

	if len(config.URLs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No URLs provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  themescrape scrape --urls "https://stripe.com,https://linear.app"`)
		fmt.Fprintln(os.Stderr, `  themescrape scrape --session 5                # Rescrape all URLs from session 5`)
		fmt.Fprintln(os.Stderr, `  themescrape scrape --session 5 --failed-only  # Retry only failed URLs`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: themescrape scrape --help")
		os.Exit(1)
	}

	// Keep original URLs for tracking sanitization
	originalURLs := make([]string, len(config.URLs))
	copy(originalURLs, config.URLs)

	// Sanitize and validate all URLs before processing (fail fast)
	sanitizedURLs, invalidURLs := common.SanitizeAndValidateURLs(config.URLs)
	if len(invalidURLs) > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d URL(s) are malformed (even after cleanup):\n", len(invalidURLs))
		for _, badURL := range invalidURLs {
			fmt.Fprintf(os.Stderr, "  - %s\n", badURL)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Note: URLs are auto-cleaned (whitespace trimmed, trailing punctuation removed, markdown links extracted)")
		fmt.Fprintln(os.Stderr, "      Spaces in URLs must be pre-encoded as %20. Braces {} in domains are not allowed.")
		os.Exit(1)
	}

	// Replace with sanitized URLs
	config.URLs = sanitizedURLs

	// Parse features flag to determine SampleMode (needed for session lookup)
	mode := models.ParseSampleMode(c.String("features"))
	logger.Info("Sample mode determined", "mode", mode.String(), "features", c.String("features"))

	// Find or create session in database
	sessionID, cacheHit, err := database.FindOrCreateSession(originalURLs, config.URLs, c.String("features"), maxAge)
	if err != nil {
		logger.Error("failed to find or create session", "error", err)
		os.Exit(2)
	}
	logger.Info("Session", "session_id", sessionID, "cache_hit", cacheHit)

	// A cache hit short-circuits unless the caller forced a refetch, in
	// which case the session row is reused and artifacts refreshed.
	if cacheHit && !c.Bool("force-fetch") {
		logger.Info("Session cache hit - returning cached results", "session_id", sessionID)
		sess, err := database.GetSessionByID(sessionID)
		if err != nil {
			logger.Error("failed to load session", "error", err, "session_id", sessionID)
			os.Exit(2)
		}
		fmt.Printf("Session %d cache hit! Results at: %s\n", sessionID, session.Dir(config.OutputDir, sess.SessionDir))
		return nil
	}

	// Parse filter flag if provided
	var strategy *filter.Strategy
	filterStr := c.String("filter")
	if filterStr != "" {
		strategy, err = filter.ParseStrategy(filterStr)
		if err != nil {
			logger.Error("invalid filter strategy", "error", err)
			os.Exit(2)
		}
		logger.Info("Filter strategy parsed", "filter", filterStr)
	}

	allResults, finalColorCounts, runErr := run(logger, config, manager, c.Bool("force-fetch"), mode, strategy, database)

	stats := Stats{
		TotalSources:     len(config.URLs),
		TotalTimeSeconds: time.Since(startTime).Seconds(),
		DistinctColors:   len(finalColorCounts),
		TopSwatches:      analytics.TopSwatches(finalColorCounts, analytics.TopSwatchCount),
	}

	var summaryResults []ResultSummary
	outputMode := strings.ToLower(c.String("output-mode"))
	switch outputMode {
	case "tier2":
		// Session-based output: write to session directory, print concise stats
		var successCount, failedCount int
		for _, r := range allResults {
			if r.Error != nil {
				failedCount++
			} else {
				successCount++
			}
		}

		sess, err := database.GetSessionByID(sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if err := session.EnsureDir(config.OutputDir, sess.SessionDir); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
		sessionDir := session.Dir(config.OutputDir, sess.SessionDir)

		// Generate FIELDS.yaml reference (only if it doesn't exist)
		if err := session.GenerateFieldsReference(config.OutputDir); err != nil {
			logger.Warn("Failed to generate FIELDS.yaml reference", "error", err)
		}

		// Write per-source summary to session directory
		if err := WriteSummaryToSession(allResults, sessionID, sessionDir, database); err != nil {
			return fmt.Errorf("failed to write session summary: %w", err)
		}

		// Collect and write failed sources if any
		failedSources := collectFailedSources(allResults)
		if err := WriteFailedToSession(failedSources, sessionDir); err != nil {
			logger.Warn("Failed to write failed sources file", "error", err)
		}

		// Update session stats in database
		if err := database.UpdateSessionStats(sessionID, successCount, failedCount); err != nil {
			logger.Warn("Failed to update session stats in DB", "error", err)
		}

		// Record per-source outcomes
		for _, result := range allResults {
			sourceID := result.SourceID
			if sourceID == 0 {
				id, getErr := database.GetSourceID(result.URL)
				if getErr != nil {
					logger.Warn("Failed to get source ID for session result", "url", result.URL, "error", getErr)
					continue
				}
				sourceID = id
			}

			status := "success"
			errorType := ""
			errorMessage := ""
			if result.Error != nil {
				status = "failed"
				errorType = result.ErrorType
				errorMessage = result.Error.Error()
			}

			colorCount, dimensionCount := 0, 0
			if result.Set != nil {
				colorCount = result.Set.Colors()
				dimensionCount = result.Set.Dimensions()
			}

			if err := database.RecordSourceResult(sessionID, sourceID, status, result.StatusCode, errorType, errorMessage, result.SizeBytes, colorCount, dimensionCount); err != nil {
				logger.Warn("Failed to record source result", "url", result.URL, "error", err)
			}
		}

		// Update sessions index
		sessionInfo := session.Info{
			SessionID:      sessionID,
			SessionDir:     sess.SessionDir,
			Created:        time.Now(),
			SourceCount:    len(config.URLs),
			Success:        successCount,
			Failed:         failedCount,
			Features:       session.FormatFeatures(c.String("features")),
			SourcesPreview: session.Preview(config.URLs, 3),
		}
		if err := session.UpdateIndex(config.OutputDir, sessionInfo); err != nil {
			logger.Warn("Failed to update sessions index", "error", err)
		}

		// Print simplified stats to stdout
		fmt.Printf("Session %d: %d/%d sources successful\nResults: %s\n", sessionID, successCount, len(config.URLs), sessionDir)

		// Show quick start commands
		if successCount > 0 {
			fmt.Printf("\n\U0001F4A1 Quick start:\n")
			fmt.Printf("  themescrape resolve --session %d   # Resolve observations into tokens\n", sessionID)
			fmt.Printf("  themescrape db session %d          # Per-source details\n", sessionID)
			fmt.Printf("\nMore: themescrape quickstart\n")
		}

		// Show source IDs unless --quiet flag is set
		if !c.Bool("quiet") {
			sourcesWithSanitization, err := database.GetSessionSourcesWithSanitization(sessionID)
			if err == nil && len(sourcesWithSanitization) > 0 {
				fmt.Printf("\nSource IDs:\n")
				for i, s := range sourcesWithSanitization {
					fmt.Printf("  %d. [#%d] %s\n", i+1, s.SourceID, s.URL)
				}
			}
		}

		// Show sanitization info if any URLs were cleaned
		sanitizedCount, err := database.CountSanitizedSources(sessionID)
		if err == nil && sanitizedCount > 0 {
			fmt.Printf("\nNote: %d URL(s) were auto-cleaned\n", sanitizedCount)
			fmt.Printf("  To see what changed: themescrape db session %d\n", sessionID)
		}

		fmt.Printf("\nCommands:\n")
		fmt.Printf("  themescrape resolve --session %d  # Compile design tokens\n", sessionID)
		fmt.Printf("  themescrape db sources            # Scraped sources with metadata\n")
		fmt.Printf("  themescrape runs list             # Past resolution runs\n")

		chainResolve(c, logger, database, manager, config, sessionID, successCount)

		return nil
	case "summary":
		summaryResults = []ResultSummary{}
		for _, r := range allResults {
			summary := BuildSummary(r)
			summaryResults = append(summaryResults, summary)
			if r.Error != nil {
				stats.Failed++
			} else {
				stats.Successful++
			}
		}
		finalOutput.Results = summaryResults
	default:
		outputResults := []ResultOutput{}
		for _, r := range allResults {
			out := ResultOutput{URL: r.URL, FilePath: r.FilePath}
			if r.Error != nil {
				stats.Failed++
				out.Status = "failed"
				out.Error = r.Error.Error()
				out.ErrorType = r.ErrorType
			} else {
				stats.Successful++
				out.Status = "success"
			}
			outputResults = append(outputResults, out)
		}
		finalOutput.Results = outputResults
	}

	finalOutput.Stats = stats
	if runErr != nil {
		finalOutput.Status = "partial_failure"
	} else {
		finalOutput.Status = "success"
	}

	var outputData []byte
	var marshalErr error
	outputFormat := strings.ToLower(c.String("format"))
	summaryFields := c.String("summary-fields")

	// Apply field filtering if requested
	if summaryFields != "" && outputMode == "summary" {
		filteredResults := make([]map[string]interface{}, len(summaryResults))
		for i, r := range summaryResults {
			filteredResults[i] = common.FilterResultFields(r, summaryFields)
		}

		customOutput := map[string]interface{}{
			"status":  finalOutput.Status,
			"results": filteredResults,
			"stats":   stats,
		}

		if outputFormat == "yaml" {
			outputData, marshalErr = yaml.Marshal(customOutput)
		} else {
			outputData, marshalErr = json.MarshalIndent(customOutput, "", "  ")
		}
	} else {
		if outputFormat == "yaml" {
			outputData, marshalErr = yaml.Marshal(finalOutput)
		} else {
			outputData, marshalErr = json.MarshalIndent(finalOutput, "", "  ")
		}
	}

	if marshalErr != nil {
		logger.Error("failed to marshal final output", "error", marshalErr)
		os.Exit(2)
	}
	fmt.Println(string(outputData))

	chainResolve(c, logger, database, manager, config, sessionID, stats.Successful)

	if stats.Failed == stats.TotalSources {
		os.Exit(2)
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}

	return nil
}

// chainResolve runs token resolution right after a scrape when --resolve
// was passed. Failures are logged, never fatal: the scrape itself
// already succeeded.
func chainResolve(c *cli.Context, logger *slog.Logger, database *db.DB, manager *artifacts.Manager, config *models.Config, sessionID int64, successCount int) {
	if !c.Bool("resolve") {
		return
	}
	if successCount == 0 {
		logger.Warn("Skipping resolve, no sources succeeded", "session_id", sessionID)
		return
	}

	out, err := resolve.ForSession(logger, database, manager, config, sessionID)
	if err != nil {
		logger.Error("resolve after scrape failed", "error", err, "session_id", sessionID)
		return
	}

	fmt.Printf("\nResolved run %s: %d tokens, avg confidence %.2f\nTokens: %s\n",
		db.ShortRunID(out.RunID), out.Tokens, out.AvgConfidence, out.OutputDir)
}
