package tokens

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/artifacts"
	"github.com/themescrape/themescrape/pkg/db"
	"github.com/themescrape/themescrape/pkg/docgen"
	"github.com/themescrape/themescrape/pkg/export"
	"github.com/themescrape/themescrape/pkg/preview"
	"github.com/themescrape/themescrape/pkg/storage"
	"github.com/urfave/cli/v2"
)

// ExportAction renders a persisted run's tokens in the requested
// format, to stdout or to --out.
func ExportAction(c *cli.Context) error {
	logger := quietLogger(c)

	format, err := export.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	database, err := db.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	rec, set, err := loadRun(c, database)
	if err != nil {
		return err
	}

	data, err := export.Render(set, format)
	if err != nil {
		return fmt.Errorf("failed to render tokens: %w", err)
	}

	if c.IsSet("out") {
		outPath := c.String("out")
		store := &storage.Storage{}
		if err := store.EnsureDir(outPath); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := store.SaveFile(outPath, data); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("Tokens exported", "run_id", rec.RunID, "format", string(format), "path", outPath)
		fmt.Printf("Exported %d tokens from run %s to %s\n", set.Len(), db.ShortRunID(rec.RunID), outPath)
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}
	return nil
}

// DocsAction regenerates a run's standalone HTML style guide.
func DocsAction(c *cli.Context) error {
	logger := quietLogger(c)

	database, err := db.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	rec, set, err := loadRun(c, database)
	if err != nil {
		return err
	}

	diags, err := database.LoadDiagnostics(rec.RunID)
	if err != nil {
		logger.Warn("Failed to load run diagnostics", "run_id", rec.RunID, "error", err)
	}

	guide, err := docgen.Render(docgen.Data{
		RunID:       rec.RunID,
		GeneratedAt: time.Now(),
		Tokens:      set,
		Diagnostics: diags,
	})
	if err != nil {
		return fmt.Errorf("failed to render style guide: %w", err)
	}

	outPath := c.String("out")
	if outPath == "" {
		// Default alongside the run's other artifacts.
		if rec.OutputDir != "" {
			outPath = filepath.Join(rec.OutputDir, artifacts.StyleguideFile)
		} else {
			outPath = artifacts.StyleguideFile
		}
	}

	store := &storage.Storage{}
	if err := store.EnsureDir(outPath); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := store.SaveFile(outPath, guide); err != nil {
		return fmt.Errorf("failed to write style guide: %w", err)
	}

	fmt.Printf("Style guide for run %s: %s\n", db.ShortRunID(rec.RunID), outPath)
	return nil
}

// PreviewAction draws a run's palette as color swatches in the
// terminal.
func PreviewAction(c *cli.Context) error {
	database, err := db.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	_, set, err := loadRun(c, database)
	if err != nil {
		return err
	}

	fmt.Print(preview.Render(set))
	return nil
}

// loadRun resolves --run (unique prefixes accepted, latest when
// omitted) and loads the run's token set.
func loadRun(c *cli.Context, database *db.DB) (*db.RunRecord, models.TokenSet, error) {
	runID := c.String("run")
	if runID == "" {
		latest, err := database.LatestRunID()
		if err != nil {
			return nil, models.TokenSet{}, fmt.Errorf("%w. Run 'themescrape resolve' first", err)
		}
		runID = latest
	}

	rec, err := database.GetRun(runID)
	if err != nil {
		return nil, models.TokenSet{}, err
	}

	set, err := database.LoadTokens(rec.RunID)
	if err != nil {
		return nil, models.TokenSet{}, fmt.Errorf("failed to load tokens for run %s: %w", db.ShortRunID(rec.RunID), err)
	}
	if set.Len() == 0 {
		return nil, models.TokenSet{}, fmt.Errorf("run %s has no tokens", db.ShortRunID(rec.RunID))
	}
	return rec, set, nil
}

func quietLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
