package db

import (
	"testing"
	"time"
)

func TestFindOrCreateSession_NewSession(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urls := []string{"https://example.com", "https://example.org"}
	originalURLs := urls // Same as sanitized for this test
	features := "dom+stylesheet"
	maxAge := 1 * time.Hour

	sessionID, cacheHit, err := db.FindOrCreateSession(originalURLs, urls, features, maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() error = %v", err)
	}

	if cacheHit {
		t.Error("FindOrCreateSession() cacheHit = true, want false for new session")
	}

	if sessionID == 0 {
		t.Error("FindOrCreateSession() returned 0 session ID")
	}

	// Verify session was created
	session, err := db.GetSessionByID(sessionID)
	if err != nil {
		t.Fatalf("GetSessionByID() error = %v", err)
	}

	if session.SourceCount != 2 {
		t.Errorf("session.SourceCount = %d, want 2", session.SourceCount)
	}
	if session.Features != features {
		t.Errorf("session.Features = %q, want %q", session.Features, features)
	}
}

func TestFindOrCreateSession_CacheHit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urls := []string{"https://example.com", "https://example.org"}
	maxAge := 1 * time.Hour

	// Create first session
	sessionID1, cacheHit1, err := db.FindOrCreateSession(urls, urls, "dom+stylesheet", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() first call error = %v", err)
	}
	if cacheHit1 {
		t.Error("First call should not be cache hit")
	}

	// Second call with same URLs should hit cache
	sessionID2, cacheHit2, err := db.FindOrCreateSession(urls, urls, "dom+stylesheet", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() second call error = %v", err)
	}

	if !cacheHit2 {
		t.Error("FindOrCreateSession() second call cacheHit = false, want true")
	}

	if sessionID1 != sessionID2 {
		t.Errorf("session IDs don't match: %d vs %d", sessionID1, sessionID2)
	}
}

func TestFindOrCreateSession_DifferentURLs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urls1 := []string{"https://example.com"}
	urls2 := []string{"https://example.org"}
	maxAge := 1 * time.Hour

	sessionID1, _, err := db.FindOrCreateSession(urls1, urls1, "", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() first call error = %v", err)
	}

	sessionID2, cacheHit, err := db.FindOrCreateSession(urls2, urls2, "", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() second call error = %v", err)
	}

	if cacheHit {
		t.Error("Different URLs should not hit cache")
	}

	if sessionID1 == sessionID2 {
		t.Error("Different URL sets should create different sessions")
	}
}

func TestFindOrCreateSession_DifferentFeatures(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urls := []string{"https://example.com"}
	maxAge := 1 * time.Hour

	sessionID1, _, err := db.FindOrCreateSession(urls, urls, "dom", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() first call error = %v", err)
	}

	// Same URL set but a different feature string must not reuse the session
	sessionID2, cacheHit, err := db.FindOrCreateSession(urls, urls, "dom+stylesheet", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() second call error = %v", err)
	}

	if cacheHit {
		t.Error("Different features should not hit cache")
	}

	if sessionID1 == sessionID2 {
		t.Error("Different feature sets should create different sessions")
	}
}

func TestFindOrCreateSession_URLOrderIndependent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urls1 := []string{"https://example.com", "https://example.org"}
	urls2 := []string{"https://example.org", "https://example.com"} // Reversed order
	maxAge := 1 * time.Hour

	sessionID1, _, err := db.FindOrCreateSession(urls1, urls1, "", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() first call error = %v", err)
	}

	sessionID2, cacheHit, err := db.FindOrCreateSession(urls2, urls2, "", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() second call error = %v", err)
	}

	if !cacheHit {
		t.Error("Same URLs in different order should hit cache")
	}

	if sessionID1 != sessionID2 {
		t.Errorf("Same URL set should match same session: %d vs %d", sessionID1, sessionID2)
	}
}

func TestFindOrCreateSession_MaxAgeExpiry(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urls := []string{"https://example.com"}
	maxAge := 100 * time.Millisecond

	// Create first session
	sessionID1, _, err := db.FindOrCreateSession(urls, urls, "", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() first call error = %v", err)
	}

	// Wait for maxAge to expire
	time.Sleep(150 * time.Millisecond)

	// Second call should create new session (expired)
	sessionID2, cacheHit, err := db.FindOrCreateSession(urls, urls, "", maxAge)
	if err != nil {
		t.Fatalf("FindOrCreateSession() second call error = %v", err)
	}

	if cacheHit {
		t.Error("Expired session should not be cache hit")
	}

	if sessionID1 == sessionID2 {
		t.Error("Expired session should create new session ID")
	}
}

func TestRecordSourceResult(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// Create session and source
	sessionID, _, _ := db.FindOrCreateSession([]string{"https://example.com"}, []string{"https://example.com"}, "", 1*time.Hour)
	sourceID, _ := db.GetSourceID("https://example.com")

	// Record outcome on the existing session_sources row
	err := db.RecordSourceResult(sessionID, sourceID, "success", 200, "", "", 1024, 14, 6)
	if err != nil {
		t.Fatalf("RecordSourceResult() error = %v", err)
	}

	results, err := db.GetSessionResults(sessionID)
	if err != nil {
		t.Fatalf("GetSessionResults() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.Status != "success" {
		t.Errorf("status = %q, want %q", r.Status, "success")
	}
	if r.StatusCode != 200 {
		t.Errorf("status_code = %d, want 200", r.StatusCode)
	}
	if r.SizeBytes != 1024 {
		t.Errorf("size_bytes = %d, want 1024", r.SizeBytes)
	}
	if r.ColorCount != 14 {
		t.Errorf("color_count = %d, want 14", r.ColorCount)
	}
	if r.DimensionCount != 6 {
		t.Errorf("dimension_count = %d, want 6", r.DimensionCount)
	}
}

func TestRecordSourceResult_Failure(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	sessionID, _, _ := db.FindOrCreateSession([]string{"https://example.com"}, []string{"https://example.com"}, "", 1*time.Hour)
	sourceID, _ := db.GetSourceID("https://example.com")

	err := db.RecordSourceResult(sessionID, sourceID, "failed", 503, "http_error", "service unavailable", 0, 0, 0)
	if err != nil {
		t.Fatalf("RecordSourceResult() error = %v", err)
	}

	results, err := db.GetSessionResults(sessionID)
	if err != nil {
		t.Fatalf("GetSessionResults() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.Status != "failed" {
		t.Errorf("status = %q, want %q", r.Status, "failed")
	}
	if r.ErrorType != "http_error" {
		t.Errorf("error_type = %q, want %q", r.ErrorType, "http_error")
	}
	if r.ErrorMessage != "service unavailable" {
		t.Errorf("error_message = %q, want %q", r.ErrorMessage, "service unavailable")
	}
}

func TestUpdateSessionStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// Create session
	sessionID, _, _ := db.FindOrCreateSession([]string{"https://example.com"}, []string{"https://example.com"}, "", 1*time.Hour)

	// Update stats
	err := db.UpdateSessionStats(sessionID, 8, 2)
	if err != nil {
		t.Fatalf("UpdateSessionStats() error = %v", err)
	}

	// Verify stats were updated
	session, err := db.GetSessionByID(sessionID)
	if err != nil {
		t.Fatalf("GetSessionByID() error = %v", err)
	}

	if session.SuccessCount != 8 {
		t.Errorf("success_count = %d, want 8", session.SuccessCount)
	}
	if session.FailedCount != 2 {
		t.Errorf("failed_count = %d, want 2", session.FailedCount)
	}
}

func TestGetSessionSources(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urls := []string{"https://example.com", "https://example.org", "https://example.net"}
	sessionID, _, _ := db.FindOrCreateSession(urls, urls, "", 1*time.Hour)

	// Get session sources
	sources, err := db.GetSessionSources(sessionID)
	if err != nil {
		t.Fatalf("GetSessionSources() error = %v", err)
	}

	if len(sources) != 3 {
		t.Errorf("got %d sources, want 3", len(sources))
	}

	// Verify URLs are correct (order may differ due to sorting)
	urlSet := make(map[string]bool)
	for _, s := range sources {
		urlSet[s.OriginalURL] = true
	}

	for _, expected := range urls {
		if !urlSet[expected] {
			t.Errorf("URL %q not found in session sources", expected)
		}
	}
}

func TestGetSessionSourcesWithSanitization(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	originals := []string{"https://example.com?utm_source=mail", "https://example.org"}
	sanitized := []string{"https://example.com", "https://example.org"}
	sessionID, _, err := db.FindOrCreateSession(originals, sanitized, "", 1*time.Hour)
	if err != nil {
		t.Fatalf("FindOrCreateSession() error = %v", err)
	}

	sources, err := db.GetSessionSourcesWithSanitization(sessionID)
	if err != nil {
		t.Fatalf("GetSessionSourcesWithSanitization() error = %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}

	var cleaned *SourceWithSanitization
	for i := range sources {
		if sources[i].WasSanitized {
			cleaned = &sources[i]
		}
	}
	if cleaned == nil {
		t.Fatal("expected one sanitized source")
	}
	if cleaned.URL != "https://example.com" {
		t.Errorf("sanitized URL = %q, want stripped form", cleaned.URL)
	}
	if cleaned.OriginalURL != "https://example.com?utm_source=mail" {
		t.Errorf("original URL = %q, want tracked original", cleaned.OriginalURL)
	}

	count, err := db.CountSanitizedSources(sessionID)
	if err != nil {
		t.Fatalf("CountSanitizedSources() error = %v", err)
	}
	if count != 1 {
		t.Errorf("sanitized count = %d, want 1", count)
	}
}

func TestSessionDir_Naming(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urls := []string{"https://example.com"}
	sessionID, _, err := db.FindOrCreateSession(urls, urls, "", 1*time.Hour)
	if err != nil {
		t.Fatalf("FindOrCreateSession() error = %v", err)
	}

	session, err := db.GetSessionByID(sessionID)
	if err != nil {
		t.Fatalf("GetSessionByID() error = %v", err)
	}

	// Verify session_dir format: sessions/YYYY-MM-DD-{id}
	dateStr := time.Now().Format("2006-01-02")
	expectedPrefix := "sessions/" + dateStr
	if !hasPrefix(session.SessionDir, expectedPrefix) {
		t.Errorf("session_dir = %q, want to contain %q", session.SessionDir, expectedPrefix)
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
