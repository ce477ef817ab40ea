package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/themescrape/themescrape/models"
)

// InsertSource parses and inserts a source URL, returning the source_id.
// If the source already exists, returns the existing source_id.
func (db *DB) InsertSource(rawURL string) (int64, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	// Check if source already exists
	var existingID int64
	err = db.QueryRow("SELECT source_id FROM sources WHERE original_url = ?", rawURL).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing source: %w", err)
	}

	// Extract canonical URL (scheme + host + path, no query/fragment)
	canonicalURL := fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, parsed.Path)

	result, err := db.Exec(`
		INSERT INTO sources (original_url, canonical_url, scheme, domain, path)
		VALUES (?, ?, ?, ?, ?)
	`, rawURL, canonicalURL, parsed.Scheme, parsed.Host, parsed.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source: %w", err)
	}

	sourceID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get source ID: %w", err)
	}

	return sourceID, nil
}

// GetSourceID returns the source_id for a given original URL.
func (db *DB) GetSourceID(originalURL string) (int64, error) {
	var sourceID int64
	err := db.QueryRow("SELECT source_id FROM sources WHERE original_url = ?", originalURL).Scan(&sourceID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("source not found: %s", originalURL)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get source ID: %w", err)
	}
	return sourceID, nil
}

// GetSourceByID returns the original URL for a source_id.
func (db *DB) GetSourceByID(sourceID int64) (string, error) {
	var rawURL string
	err := db.QueryRow("SELECT original_url FROM sources WHERE source_id = ?", sourceID).Scan(&rawURL)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("source ID %d not found", sourceID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get source: %w", err)
	}
	return rawURL, nil
}

// RecordScrape updates the last-seen page characteristics for a source.
func (db *DB) RecordScrape(sourceID int64, statusCode int, contentHash, theme, language string) error {
	_, err := db.Exec(`
		UPDATE sources SET
			last_status_code = ?,
			content_hash = ?,
			theme = ?,
			language = ?,
			last_scraped_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE source_id = ?
	`, statusCode, NewNullString(contentHash), NewNullString(theme), NewNullString(language), sourceID)
	if err != nil {
		return fmt.Errorf("failed to record scrape: %w", err)
	}
	return nil
}

// SourceInfo represents basic source information.
type SourceInfo struct {
	SourceID      int64
	OriginalURL   string
	CanonicalURL  sql.NullString
	Domain        string
	Theme         sql.NullString
	Language      sql.NullString
	ContentHash   sql.NullString
	LastScrapedAt sql.NullTime
}

// QuerySources returns sources matching the optional filters.
func (db *DB) QuerySources(domain, theme string) ([]SourceInfo, error) {
	query := `
		SELECT source_id, original_url, canonical_url, domain, theme, language, content_hash, last_scraped_at
		FROM sources WHERE 1=1`
	args := []interface{}{}

	if domain != "" {
		query += " AND domain = ?"
		args = append(args, domain)
	}
	if theme != "" {
		query += " AND theme = ?"
		args = append(args, theme)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []SourceInfo
	for rows.Next() {
		var info SourceInfo
		err := rows.Scan(&info.SourceID, &info.OriginalURL, &info.CanonicalURL, &info.Domain,
			&info.Theme, &info.Language, &info.ContentHash, &info.LastScrapedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, info)
	}

	return sources, nil
}

// RunRecord represents one resolution run.
type RunRecord struct {
	RunID         string
	SessionID     sql.NullInt64
	CreatedAt     time.Time
	SourceCount   int
	TokenCount    int
	AvgConfidence float64
	WarningCount  int
	ErrorCount    int
	OutputDir     string
}

// SaveRun persists a run row plus its tokens and diagnostics.
func (db *DB) SaveRun(rec RunRecord, set models.TokenSet, diags []models.Diagnostic) error {
	_, err := db.Exec(`
		INSERT INTO runs (run_id, session_id, source_count, token_count, avg_confidence, warning_count, error_count, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.SessionID, rec.SourceCount, rec.TokenCount, rec.AvgConfidence,
		rec.WarningCount, rec.ErrorCount, NewNullString(rec.OutputDir))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	// Sorted names keep token_id assignment deterministic
	for _, name := range set.Names() {
		t := set.Tokens[name]
		_, err := db.Exec(`
			INSERT INTO tokens (run_id, name, value, kind, confidence)
			VALUES (?, ?, ?, ?, ?)
		`, rec.RunID, name, t.Value, string(t.Kind), t.Confidence)
		if err != nil {
			return fmt.Errorf("failed to insert token %s: %w", name, err)
		}
	}

	for _, d := range diags {
		_, err := db.Exec(`
			INSERT INTO diagnostics (run_id, severity, code, message, source)
			VALUES (?, ?, ?, ?, ?)
		`, rec.RunID, d.Severity, d.Code, d.Message, NewNullString(d.Source))
		if err != nil {
			return fmt.Errorf("failed to insert diagnostic: %w", err)
		}
	}

	return nil
}

// GetRun retrieves a run by its full ID, or by a unique ID prefix.
func (db *DB) GetRun(runIDOrPrefix string) (*RunRecord, error) {
	rec, err := db.scanRun("WHERE run_id = ?", runIDOrPrefix)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	// Fall back to prefix match so short IDs work on the command line
	matches, err := db.runIDsByPrefix(runIDOrPrefix)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run not found: %s", runIDOrPrefix)
	case 1:
		rec, err := db.scanRun("WHERE run_id = ?", matches[0])
		if err != nil {
			return nil, fmt.Errorf("failed to get run: %w", err)
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("run ID prefix %s is ambiguous (%d matches)", runIDOrPrefix, len(matches))
	}
}

func (db *DB) scanRun(where string, args ...interface{}) (*RunRecord, error) {
	var rec RunRecord
	var outputDir sql.NullString
	err := db.QueryRow(`
		SELECT run_id, session_id, created_at, source_count, token_count, avg_confidence, warning_count, error_count, output_dir
		FROM runs `+where, args...).Scan(
		&rec.RunID, &rec.SessionID, &rec.CreatedAt, &rec.SourceCount, &rec.TokenCount,
		&rec.AvgConfidence, &rec.WarningCount, &rec.ErrorCount, &outputDir)
	if err != nil {
		return nil, err
	}
	if outputDir.Valid {
		rec.OutputDir = outputDir.String
	}
	return &rec, nil
}

func (db *DB) runIDsByPrefix(prefix string) ([]string, error) {
	rows, err := db.Query("SELECT run_id FROM runs WHERE run_id LIKE ? ORDER BY created_at DESC", prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to match run prefix: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// LoadTokens reconstructs the token set persisted for a run.
func (db *DB) LoadTokens(runID string) (models.TokenSet, error) {
	rows, err := db.Query(`
		SELECT name, value, kind, confidence
		FROM tokens
		WHERE run_id = ?
		ORDER BY name
	`, runID)
	if err != nil {
		return models.TokenSet{}, fmt.Errorf("failed to load tokens: %w", err)
	}
	defer rows.Close()

	set := models.NewTokenSet()
	set.RunID = runID
	for rows.Next() {
		var name, value, kind string
		var confidence float64
		if err := rows.Scan(&name, &value, &kind, &confidence); err != nil {
			return models.TokenSet{}, fmt.Errorf("failed to scan token: %w", err)
		}
		set.Put(name, models.Token{Value: value, Kind: models.ValueKind(kind), Confidence: confidence})
	}

	return set, nil
}

// LoadDiagnostics retrieves the diagnostics recorded for a run.
func (db *DB) LoadDiagnostics(runID string) ([]models.Diagnostic, error) {
	rows, err := db.Query(`
		SELECT severity, code, message, source
		FROM diagnostics
		WHERE run_id = ?
		ORDER BY diagnostic_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load diagnostics: %w", err)
	}
	defer rows.Close()

	var diags []models.Diagnostic
	for rows.Next() {
		var d models.Diagnostic
		var source sql.NullString
		if err := rows.Scan(&d.Severity, &d.Code, &d.Message, &source); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		if source.Valid {
			d.Source = source.String
		}
		diags = append(diags, d)
	}

	return diags, nil
}

// ListRuns retrieves runs ordered by most recent first.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	query := `
		SELECT run_id, session_id, created_at, source_count, token_count, avg_confidence, warning_count, error_count, output_dir
		FROM runs
		ORDER BY created_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var outputDir sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.SessionID, &rec.CreatedAt, &rec.SourceCount,
			&rec.TokenCount, &rec.AvgConfidence, &rec.WarningCount, &rec.ErrorCount, &outputDir); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if outputDir.Valid {
			rec.OutputDir = outputDir.String
		}
		runs = append(runs, rec)
	}

	return runs, nil
}

// LatestRunID returns the most recently created run ID.
func (db *DB) LatestRunID() (string, error) {
	var runID string
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY created_at DESC, run_id LIMIT 1").Scan(&runID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no runs found")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest run: %w", err)
	}
	return runID, nil
}

// ShortRunID trims a run UUID down to the display form used in tables.
func ShortRunID(runID string) string {
	if i := strings.Index(runID, "-"); i > 0 {
		return runID[:i]
	}
	return runID
}

// NewNullString creates a sql.NullString from a string value.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// NewNullFloat64 creates a sql.NullFloat64 from a float64 value.
func NewNullFloat64(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// NewNullInt64 creates a sql.NullInt64 from an int64 value.
func NewNullInt64(i int64) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}
