// Package session manages the per-session YAML layer of the results
// tree: the index of all sessions, the session directories named by
// date and ID, and the write-once FIELDS.yaml reference. Session IDs
// and directories are assigned by the database; this package only
// deals with the files.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// SummaryFile holds every source's outcome for a session.
	SummaryFile = "summary.yaml"
	// FailedFile holds failures only; it is written only when a
	// session had errors.
	FailedFile = "failed.yaml"
)

// Info represents one session's entry in the index.
type Info struct {
	SessionID      int64     `yaml:"session_id"`
	SessionDir     string    `yaml:"session_dir"`
	Created        time.Time `yaml:"created"`
	SourceCount    int       `yaml:"source_count"`
	Success        int       `yaml:"success"`
	Failed         int       `yaml:"failed"`
	Features       []string  `yaml:"features,omitempty"`
	SourcesPreview []string  `yaml:"sources_preview,omitempty"` // First 3 URLs
}

// Index represents the index.yaml file at the results root.
type Index struct {
	Sessions []Info `yaml:"sessions"`
}

// Dir returns the full path to a session directory. sessionDir is the
// relative path stored in the database, e.g. "sessions/2026-01-15-3".
func Dir(baseDir, sessionDir string) string {
	return filepath.Join(baseDir, sessionDir)
}

// IndexPath returns the path to the sessions index file at the
// results root.
func IndexPath(baseDir string) string {
	return filepath.Join(baseDir, "index.yaml")
}

// Exists checks whether a session directory has its summary file.
func Exists(baseDir, sessionDir string) bool {
	_, err := os.Stat(filepath.Join(Dir(baseDir, sessionDir), SummaryFile))
	return err == nil
}

// IsFresh reports whether a session's summary is newer than maxAge.
// A maxAge of zero means sessions never expire.
func IsFresh(baseDir, sessionDir string, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return Exists(baseDir, sessionDir)
	}

	info, err := os.Stat(filepath.Join(Dir(baseDir, sessionDir), SummaryFile))
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) <= maxAge
}

// EnsureDir creates the session directory if it doesn't exist.
func EnsureDir(baseDir, sessionDir string) error {
	if err := os.MkdirAll(Dir(baseDir, sessionDir), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	return nil
}

// UpdateIndex adds or updates a session entry in index.yaml. Entries
// are kept sorted newest first.
func UpdateIndex(baseDir string, info Info) error {
	indexPath := IndexPath(baseDir)

	var index Index
	data, err := os.ReadFile(indexPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read session index: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &index); err != nil {
			return fmt.Errorf("failed to parse session index: %w", err)
		}
	}

	found := false
	for i, s := range index.Sessions {
		if s.SessionID == info.SessionID {
			index.Sessions[i] = info
			found = true
			break
		}
	}
	if !found {
		index.Sessions = append(index.Sessions, info)
	}

	// IDs auto-increment, so descending ID order is chronological
	sort.Slice(index.Sessions, func(i, j int) bool {
		return index.Sessions[i].SessionID > index.Sessions[j].SessionID
	})

	output, err := yaml.Marshal(&index)
	if err != nil {
		return fmt.Errorf("failed to marshal session index: %w", err)
	}
	if err := os.WriteFile(indexPath, output, 0644); err != nil {
		return fmt.Errorf("failed to write session index: %w", err)
	}

	return nil
}

// Preview returns the first n URLs from a list for index entries.
func Preview(urls []string, n int) []string {
	if len(urls) <= n {
		return urls
	}
	return urls[:n]
}

// FormatFeatures converts a features string (comma-separated) to a
// slice for the index entry.
func FormatFeatures(features string) []string {
	if features == "" {
		return []string{"full"}
	}
	parts := strings.Split(features, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GenerateFieldsReference creates the FIELDS.yaml reference file at
// the results root. An existing file is never overwritten.
func GenerateFieldsReference(baseDir string) error {
	fieldsPath := filepath.Join(baseDir, "FIELDS.yaml")

	if _, err := os.Stat(fieldsPath); err == nil {
		return nil
	}

	content := `# Summary Fields Reference
# Field documentation for themescrape session and run output

session_fields:
  # Status & Basic Info
  url: string
  status: [success, failed]
  status_code: int (HTTP status)
  error: string (only if failed)
  error_type: [timeout, network_error, http_error, parse_error, unknown_error]

  # Page Metadata
  title: string
  site_name: string
  theme: [light, dark, unknown]
  language: string (ISO-639-1 code: en, es, fr, de, etc)
  language_confidence: float (0-1)
  frameworks: [string] (detected CSS frameworks, e.g. tailwind, bootstrap)

  # Sampling Metrics
  colors: int (color observations recorded)
  dimensions: int (dimension observations recorded)
  size_bytes: int (raw HTML size)
  content_hash: string (sha256 of raw HTML)

run_fields:
  run_id: string (UUID)
  session_id: int (session the run resolved)
  token_count: int
  avg_confidence: float (0-1)
  low_confidence: [string] (token names below the review threshold)
  warnings: int
  errors: int

token_fields:
  value: string ("#RRGGBB" for colors, "8px" for dimensions)
  kind: [color, dimension, font]
  confidence: float (0-1, cross-source agreement)

query_examples:
  - desc: Failed scrapes only
    yq: '.sources[] | select(.status == "failed")'

  - desc: Dark-themed sources
    yq: '.sources[] | select(.theme == "dark")'

  - desc: Sources with rich palettes
    yq: '.sources[] | select(.colors > 40)'

  - desc: Tailwind sites
    yq: '.sources[] | select(.frameworks[]? == "tailwind")'

  - desc: Non-English sources
    yq: '.sources[] | select(.language != "en" and .language_confidence > 0.8)'

  - desc: Token names needing review in a run
    yq: '.low_confidence[]'

usage:
  session_summary: Per-source scrape outcomes for one session
  location: themescrape-results/sessions/{date-id}/summary.yaml
  failed_only: themescrape-results/sessions/{date-id}/failed.yaml (written only on errors)
  session_index: themescrape-results/index.yaml (list all sessions)
  run_summary: themescrape-results/runs/{run-id}/summary.yaml
`

	if err := os.WriteFile(fieldsPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write FIELDS.yaml: %w", err)
	}

	return nil
}
