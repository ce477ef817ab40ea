package db

import (
	"testing"
	"time"

	"github.com/themescrape/themescrape/models"
)

func testTokenSet() models.TokenSet {
	set := models.NewTokenSet()
	set.Put("color-primary", models.Token{Value: "#0F79F3", Kind: models.KindColor, Confidence: 0.9})
	set.Put("color-bg-0", models.Token{Value: "#FFFFFF", Kind: models.KindColor, Confidence: 0.8})
	set.Put("spacing-base", models.Token{Value: "8px", Kind: models.KindDimension, Confidence: 0.7})
	return set
}

func saveTestRun(t *testing.T, db *DB, runID string, createdAt string) {
	t.Helper()

	rec := RunRecord{
		RunID:         runID,
		SourceCount:   2,
		TokenCount:    3,
		AvgConfidence: 0.8,
		WarningCount:  1,
		OutputDir:     "runs/" + runID,
	}
	diags := []models.Diagnostic{
		{Severity: models.SeverityWarning, Code: models.DiagUnresolvedRole, Message: "no candidate for info", Source: "https://example.com"},
	}
	if err := db.SaveRun(rec, testTokenSet(), diags); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	// Pin created_at so ordering tests are deterministic
	if createdAt != "" {
		if _, err := db.Exec("UPDATE runs SET created_at = ? WHERE run_id = ?", createdAt, runID); err != nil {
			t.Fatalf("failed to pin created_at: %v", err)
		}
	}
}

func TestSaveRunAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID := "11111111-aaaa-bbbb-cccc-000000000001"
	saveTestRun(t, db, runID, "")

	rec, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}

	if rec.RunID != runID {
		t.Errorf("run_id = %q, want %q", rec.RunID, runID)
	}
	if rec.SourceCount != 2 {
		t.Errorf("source_count = %d, want 2", rec.SourceCount)
	}
	if rec.TokenCount != 3 {
		t.Errorf("token_count = %d, want 3", rec.TokenCount)
	}
	if rec.AvgConfidence != 0.8 {
		t.Errorf("avg_confidence = %v, want 0.8", rec.AvgConfidence)
	}
	if rec.WarningCount != 1 {
		t.Errorf("warning_count = %d, want 1", rec.WarningCount)
	}
	if rec.OutputDir != "runs/"+runID {
		t.Errorf("output_dir = %q, want %q", rec.OutputDir, "runs/"+runID)
	}
}

func TestGetRun_PrefixMatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	saveTestRun(t, db, "11111111-aaaa-bbbb-cccc-000000000001", "")
	saveTestRun(t, db, "22222222-aaaa-bbbb-cccc-000000000002", "")

	rec, err := db.GetRun("2222")
	if err != nil {
		t.Fatalf("GetRun() with prefix error = %v", err)
	}
	if rec.RunID != "22222222-aaaa-bbbb-cccc-000000000002" {
		t.Errorf("prefix resolved to %q", rec.RunID)
	}
}

func TestGetRun_AmbiguousPrefix(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	saveTestRun(t, db, "33333333-aaaa-bbbb-cccc-000000000001", "")
	saveTestRun(t, db, "33333333-aaaa-bbbb-cccc-000000000002", "")

	_, err := db.GetRun("3333")
	if err == nil {
		t.Fatal("GetRun() with ambiguous prefix should return error")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetRun("deadbeef")
	if err == nil {
		t.Fatal("GetRun() with unknown ID should return error")
	}
}

func TestLoadTokens(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID := "11111111-aaaa-bbbb-cccc-000000000001"
	saveTestRun(t, db, runID, "")

	set, err := db.LoadTokens(runID)
	if err != nil {
		t.Fatalf("LoadTokens() error = %v", err)
	}

	if set.RunID != runID {
		t.Errorf("set.RunID = %q, want %q", set.RunID, runID)
	}
	if set.Len() != 3 {
		t.Fatalf("got %d tokens, want 3", set.Len())
	}

	primary, ok := set.Get("color-primary")
	if !ok {
		t.Fatal("color-primary missing from loaded set")
	}
	if primary.Value != "#0F79F3" {
		t.Errorf("color-primary value = %q, want #0F79F3", primary.Value)
	}
	if primary.Kind != models.KindColor {
		t.Errorf("color-primary kind = %q, want color", primary.Kind)
	}
	if primary.Confidence != 0.9 {
		t.Errorf("color-primary confidence = %v, want 0.9", primary.Confidence)
	}

	spacing, ok := set.Get("spacing-base")
	if !ok {
		t.Fatal("spacing-base missing from loaded set")
	}
	if spacing.Kind != models.KindDimension {
		t.Errorf("spacing-base kind = %q, want dimension", spacing.Kind)
	}
}

func TestLoadDiagnostics(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID := "11111111-aaaa-bbbb-cccc-000000000001"
	saveTestRun(t, db, runID, "")

	diags, err := db.LoadDiagnostics(runID)
	if err != nil {
		t.Fatalf("LoadDiagnostics() error = %v", err)
	}

	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Severity != models.SeverityWarning {
		t.Errorf("severity = %q, want warning", d.Severity)
	}
	if d.Code != models.DiagUnresolvedRole {
		t.Errorf("code = %q, want %q", d.Code, models.DiagUnresolvedRole)
	}
	if d.Source != "https://example.com" {
		t.Errorf("source = %q, want https://example.com", d.Source)
	}
}

func TestListRuns_Order(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	saveTestRun(t, db, "11111111-aaaa-bbbb-cccc-000000000001", "2026-01-01 10:00:00")
	saveTestRun(t, db, "22222222-aaaa-bbbb-cccc-000000000002", "2026-01-02 10:00:00")
	saveTestRun(t, db, "33333333-aaaa-bbbb-cccc-000000000003", "2026-01-03 10:00:00")

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}

	// Most recent first
	if runs[0].RunID != "33333333-aaaa-bbbb-cccc-000000000003" {
		t.Errorf("runs[0] = %q, want newest run", runs[0].RunID)
	}
	if runs[2].RunID != "11111111-aaaa-bbbb-cccc-000000000001" {
		t.Errorf("runs[2] = %q, want oldest run", runs[2].RunID)
	}

	limited, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d runs with limit 2, want 2", len(limited))
	}
}

func TestLatestRunID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.LatestRunID()
	if err == nil {
		t.Error("LatestRunID() on empty table should return error")
	}

	saveTestRun(t, db, "11111111-aaaa-bbbb-cccc-000000000001", "2026-01-01 10:00:00")
	saveTestRun(t, db, "22222222-aaaa-bbbb-cccc-000000000002", "2026-01-02 10:00:00")

	latest, err := db.LatestRunID()
	if err != nil {
		t.Fatalf("LatestRunID() error = %v", err)
	}
	if latest != "22222222-aaaa-bbbb-cccc-000000000002" {
		t.Errorf("latest = %q, want newest run", latest)
	}
}

func TestSessionRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urls := []string{"https://example.com"}
	sessionID, _, err := db.FindOrCreateSession(urls, urls, "", 1*time.Hour)
	if err != nil {
		t.Fatalf("FindOrCreateSession() error = %v", err)
	}

	rec := RunRecord{
		RunID:       "11111111-aaaa-bbbb-cccc-000000000001",
		SessionID:   NewNullInt64(sessionID),
		SourceCount: 1,
		TokenCount:  3,
	}
	if err := db.SaveRun(rec, testTokenSet(), nil); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	runs, err := db.SessionRuns(sessionID)
	if err != nil {
		t.Fatalf("SessionRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if !runs[0].SessionID.Valid || runs[0].SessionID.Int64 != sessionID {
		t.Errorf("run session ID = %v, want %d", runs[0].SessionID, sessionID)
	}
}

func TestShortRunID(t *testing.T) {
	if got := ShortRunID("11111111-aaaa-bbbb-cccc-000000000001"); got != "11111111" {
		t.Errorf("ShortRunID() = %q, want %q", got, "11111111")
	}
	if got := ShortRunID("plainid"); got != "plainid" {
		t.Errorf("ShortRunID() = %q, want %q", got, "plainid")
	}
}
