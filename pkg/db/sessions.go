package db

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Session represents a scrape session
type Session struct {
	SessionID    int64
	CreatedAt    time.Time
	SourceCount  int
	SuccessCount int
	FailedCount  int
	Features     string
	SessionDir   string
}

// FindOrCreateSession checks if a session exists for this URL set.
// Returns (session_id, cache_hit, error).
// If cache_hit is true, the session already exists and is fresh.
// originalURLs are the URLs before sanitization, urls are after sanitization.
func (db *DB) FindOrCreateSession(originalURLs, urls []string, features string, maxAge time.Duration) (int64, bool, error) {
	// Sort URLs for consistency (use sanitized URLs for sorting/matching)
	sortedURLs := make([]string, len(urls))
	sortedOriginals := make([]string, len(originalURLs))
	copy(sortedURLs, urls)
	copy(sortedOriginals, originalURLs)

	// Sort both arrays the same way
	type urlPair struct {
		original  string
		sanitized string
	}
	pairs := make([]urlPair, len(urls))
	for i := range urls {
		pairs[i] = urlPair{original: sortedOriginals[i], sanitized: sortedURLs[i]}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].sanitized < pairs[j].sanitized
	})
	for i := range pairs {
		sortedURLs[i] = pairs[i].sanitized
		sortedOriginals[i] = pairs[i].original
	}

	// Get or insert source IDs
	sourceIDs := make([]int64, len(sortedURLs))
	for i, rawURL := range sortedURLs {
		sourceID, err := db.InsertSource(rawURL)
		if err != nil {
			return 0, false, fmt.Errorf("failed to insert source %s: %w", rawURL, err)
		}
		sourceIDs[i] = sourceID
	}

	// Find matching session with the same feature set
	sessionID, createdAt, found, err := db.findSessionBySources(sourceIDs, features)
	if err != nil {
		return 0, false, err
	}

	if found {
		// Check freshness
		if maxAge > 0 {
			age := time.Since(createdAt)
			if age <= maxAge {
				return sessionID, true, nil // Cache hit!
			}
			// Session exists but is stale, create new one
		} else {
			// maxAge == 0 means no expiry
			return sessionID, true, nil
		}
	}

	// Create new session
	sessionID, err = db.createSession(len(urls), features)
	if err != nil {
		return 0, false, err
	}

	// Link sources to session with sanitization tracking
	for i, sourceID := range sourceIDs {
		if err := db.InsertSessionSource(sessionID, sourceID, sortedOriginals[i], sortedURLs[i]); err != nil {
			return 0, false, err
		}
	}

	return sessionID, false, nil
}

// findSessionBySources finds a session that matches this exact source set and feature string
func (db *DB) findSessionBySources(sourceIDs []int64, features string) (sessionID int64, createdAt time.Time, found bool, err error) {
	// Build placeholders for IN clause
	placeholders := make([]string, len(sourceIDs))
	args := make([]interface{}, 0, len(sourceIDs)+2)
	for i, id := range sourceIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, len(sourceIDs), features)

	// Query for session with exact source match
	query := fmt.Sprintf(`
		SELECT s.session_id, s.created_at
		FROM scrape_sessions s
		JOIN session_sources ss ON s.session_id = ss.session_id
		WHERE ss.source_id IN (%s)
		GROUP BY s.session_id
		HAVING COUNT(DISTINCT ss.source_id) = ? AND s.features = ?
		ORDER BY s.created_at DESC
		LIMIT 1
	`, strings.Join(placeholders, ","))

	err = db.QueryRow(query, args...).Scan(&sessionID, &createdAt)
	if err == sql.ErrNoRows {
		return 0, time.Time{}, false, nil
	}
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("failed to find session: %w", err)
	}

	// Verify the session has exactly the right sources (not a superset)
	var sourceCount int
	err = db.QueryRow("SELECT source_count FROM scrape_sessions WHERE session_id = ?", sessionID).Scan(&sourceCount)
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("failed to verify session source_count: %w", err)
	}

	if sourceCount != len(sourceIDs) {
		// Session has different number of sources, not an exact match
		return 0, time.Time{}, false, nil
	}

	return sessionID, createdAt, true, nil
}

// createSession creates a new session record
func (db *DB) createSession(sourceCount int, features string) (int64, error) {
	// Generate session directory name (will be updated later with actual timestamp)
	timestamp := time.Now()
	dateStr := timestamp.Format("2006-01-02")

	// Insert with placeholder session_dir, will update after we get the ID
	result, err := db.Exec(`
		INSERT INTO scrape_sessions (source_count, features, session_dir)
		VALUES (?, ?, ?)
	`, sourceCount, features, "temp")
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}

	sessionID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session ID: %w", err)
	}

	// Update session_dir with actual session ID
	sessionDir := fmt.Sprintf("sessions/%s-%d", dateStr, sessionID)
	_, err = db.Exec("UPDATE scrape_sessions SET session_dir = ? WHERE session_id = ?", sessionDir, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to update session_dir: %w", err)
	}

	return sessionID, nil
}

// InsertSessionSource links a source to a session, tracking if it was sanitized
func (db *DB) InsertSessionSource(sessionID, sourceID int64, originalURL, sanitizedURL string) error {
	wasSanitized := originalURL != sanitizedURL
	var origURLToStore interface{}
	if wasSanitized {
		origURLToStore = originalURL
	} else {
		origURLToStore = nil
	}

	_, err := db.Exec(`
		INSERT INTO session_sources (session_id, source_id, was_sanitized, original_url)
		VALUES (?, ?, ?, ?)
	`, sessionID, sourceID, wasSanitized, origURLToStore)
	if err != nil {
		return fmt.Errorf("failed to insert session_source: %w", err)
	}
	return nil
}

// RecordSourceResult stores a scrape outcome on the session_sources row
func (db *DB) RecordSourceResult(sessionID, sourceID int64, status string, statusCode int, errorType, errorMessage string, sizeBytes int64, colorCount, dimensionCount int) error {
	_, err := db.Exec(`
		UPDATE session_sources
		SET status = ?, status_code = ?, error_type = ?, error_message = ?,
		    size_bytes = ?, color_count = ?, dimension_count = ?
		WHERE session_id = ? AND source_id = ?
	`, status, statusCode, NewNullString(errorType), NewNullString(errorMessage),
		sizeBytes, colorCount, dimensionCount, sessionID, sourceID)
	if err != nil {
		return fmt.Errorf("failed to record source result: %w", err)
	}
	return nil
}

// UpdateSessionStats updates the success and failed counts for a session
func (db *DB) UpdateSessionStats(sessionID int64, successCount, failedCount int) error {
	_, err := db.Exec(`
		UPDATE scrape_sessions
		SET success_count = ?, failed_count = ?
		WHERE session_id = ?
	`, successCount, failedCount, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session stats: %w", err)
	}
	return nil
}

// GetSessionByID retrieves a session by its ID
func (db *DB) GetSessionByID(sessionID int64) (*Session, error) {
	var session Session
	err := db.QueryRow(`
		SELECT session_id, created_at, source_count, success_count, failed_count, features, session_dir
		FROM scrape_sessions
		WHERE session_id = ?
	`, sessionID).Scan(
		&session.SessionID,
		&session.CreatedAt,
		&session.SourceCount,
		&session.SuccessCount,
		&session.FailedCount,
		&session.Features,
		&session.SessionDir,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %d not found", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// GetSessionSources retrieves all sources for a session
func (db *DB) GetSessionSources(sessionID int64) ([]SourceInfo, error) {
	rows, err := db.Query(`
		SELECT s.source_id, s.original_url, s.canonical_url, s.domain, s.theme, s.language, s.content_hash, s.last_scraped_at
		FROM sources s
		JOIN session_sources ss ON s.source_id = ss.source_id
		WHERE ss.session_id = ?
		ORDER BY ss.id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session sources: %w", err)
	}
	defer rows.Close()

	var sources []SourceInfo
	for rows.Next() {
		var info SourceInfo
		if err := rows.Scan(&info.SourceID, &info.OriginalURL, &info.CanonicalURL, &info.Domain,
			&info.Theme, &info.Language, &info.ContentHash, &info.LastScrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, info)
	}

	return sources, nil
}

// SessionResult represents a per-source outcome within a session
type SessionResult struct {
	URL            string
	Status         string
	StatusCode     int
	ErrorType      string
	ErrorMessage   string
	SizeBytes      int64
	ColorCount     int
	DimensionCount int
}

// GetSessionResults retrieves all per-source outcomes for a session
func (db *DB) GetSessionResults(sessionID int64) ([]SessionResult, error) {
	rows, err := db.Query(`
		SELECT s.original_url, ss.status, ss.status_code, ss.error_type, ss.error_message,
		       ss.size_bytes, ss.color_count, ss.dimension_count
		FROM session_sources ss
		JOIN sources s ON ss.source_id = s.source_id
		WHERE ss.session_id = ?
		ORDER BY ss.id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session results: %w", err)
	}
	defer rows.Close()

	var results []SessionResult
	for rows.Next() {
		var r SessionResult
		var statusCode, sizeBytes sql.NullInt64
		var errorType, errorMessage sql.NullString
		if err := rows.Scan(&r.URL, &r.Status, &statusCode, &errorType, &errorMessage,
			&sizeBytes, &r.ColorCount, &r.DimensionCount); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if statusCode.Valid {
			r.StatusCode = int(statusCode.Int64)
		}
		if errorType.Valid {
			r.ErrorType = errorType.String
		}
		if errorMessage.Valid {
			r.ErrorMessage = errorMessage.String
		}
		if sizeBytes.Valid {
			r.SizeBytes = sizeBytes.Int64
		}
		results = append(results, r)
	}

	return results, nil
}

// ListSessions retrieves all sessions ordered by most recent first
func (db *DB) ListSessions(limit int) ([]Session, error) {
	query := `
		SELECT session_id, created_at, source_count, success_count, failed_count,
		       features, session_dir
		FROM scrape_sessions
		ORDER BY created_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.SessionID, &s.CreatedAt, &s.SourceCount, &s.SuccessCount,
			&s.FailedCount, &s.Features, &s.SessionDir); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// QuerySessions filters sessions based on criteria
func (db *DB) QuerySessions(todayOnly bool, failedOnly bool, urlPattern string) ([]Session, error) {
	query := `
		SELECT DISTINCT s.session_id, s.created_at, s.source_count, s.success_count,
		       s.failed_count, s.features, s.session_dir
		FROM scrape_sessions s
	`

	var conditions []string
	var args []interface{}

	if todayOnly {
		conditions = append(conditions, "DATE(s.created_at) = DATE('now')")
	}

	if failedOnly {
		conditions = append(conditions, "s.failed_count > 0")
	}

	if urlPattern != "" {
		query += `
		JOIN session_sources ss ON s.session_id = ss.session_id
		JOIN sources src ON ss.source_id = src.source_id
		`
		conditions = append(conditions, "src.original_url LIKE ?")
		args = append(args, "%"+urlPattern+"%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY s.created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.SessionID, &s.CreatedAt, &s.SourceCount, &s.SuccessCount,
			&s.FailedCount, &s.Features, &s.SessionDir); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// SourceWithSanitization represents a session source with its sanitization status
type SourceWithSanitization struct {
	SourceID     int64
	URL          string
	WasSanitized bool
	OriginalURL  string
}

// GetSessionSourcesWithSanitization retrieves sources for a session with sanitization info
func (db *DB) GetSessionSourcesWithSanitization(sessionID int64) ([]SourceWithSanitization, error) {
	rows, err := db.Query(`
		SELECT s.source_id, s.original_url, ss.was_sanitized, ss.original_url
		FROM sources s
		JOIN session_sources ss ON s.source_id = ss.source_id
		WHERE ss.session_id = ?
		ORDER BY ss.id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session sources: %w", err)
	}
	defer rows.Close()

	var sources []SourceWithSanitization
	for rows.Next() {
		var info SourceWithSanitization
		var origURL sql.NullString
		if err := rows.Scan(&info.SourceID, &info.URL, &info.WasSanitized, &origURL); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		if origURL.Valid {
			info.OriginalURL = origURL.String
		}
		sources = append(sources, info)
	}

	return sources, nil
}

// CountSanitizedSources counts how many URLs were sanitized in a session
func (db *DB) CountSanitizedSources(sessionID int64) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM session_sources
		WHERE session_id = ? AND was_sanitized = TRUE
	`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sanitized sources: %w", err)
	}
	return count, nil
}

// SessionRuns retrieves the resolution runs recorded against a session
func (db *DB) SessionRuns(sessionID int64) ([]RunRecord, error) {
	rows, err := db.Query(`
		SELECT run_id, session_id, created_at, source_count, token_count, avg_confidence, warning_count, error_count, output_dir
		FROM runs
		WHERE session_id = ?
		ORDER BY created_at DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session runs: %w", err)
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
