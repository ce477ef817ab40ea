// Package artifacts lays out the on-disk results tree: one directory
// per scraped source holding the raw HTML and its observation set, one
// directory per resolve run holding the compiled outputs. Source
// directories are keyed by URL, not by session, so a rescrape of the
// same page hits the cache no matter which session asked.
package artifacts

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/themescrape/themescrape/models"
)

const (
	DefaultBaseDir = "themescrape-results"
	SourcesDir     = "sources"
	RunsDir        = "runs"

	RawHTMLFile      = "raw.html"
	ObservationsFile = "observations.yaml"
	MetadataFile     = "metadata.yaml"

	TokensJSONFile  = "tokens.json"
	TokensCSSFile   = "tokens.css"
	StyleguideFile  = "styleguide.html"
	RunSummaryFile  = "summary.yaml"
	ManifestFile    = "manifest.json"
)

// Manager handles storage and retrieval of scrape and run artifacts.
type Manager struct {
	baseDir string
	maxAge  time.Duration // Max age before a cached source artifact is considered stale
}

// NewManager creates a Manager rooted at baseDir and ensures the
// sources and runs directories exist.
func NewManager(baseDir string, maxAge time.Duration) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(filepath.Join(baseDir, SourcesDir), 0750); err != nil {
		return nil, fmt.Errorf("failed to create sources directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(baseDir, RunsDir), 0750); err != nil {
		return nil, fmt.Errorf("failed to create runs directory: %w", err)
	}
	return &Manager{baseDir: baseDir, maxAge: maxAge}, nil
}

// BaseDir returns the root of the results tree.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// MaxAge returns the configured max age for cached source artifacts.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// normalizeURL creates a canonical representation of a URL for consistent hashing.
func normalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	// Always use HTTPS if possible
	if u.Scheme == "http" {
		u.Scheme = "https"
	}
	u.Host = strings.ToLower(u.Host)

	// Sort query parameters alphabetically
	if u.RawQuery != "" {
		params := u.Query()
		var keys []string
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sortedQuery := url.Values{}
		for _, k := range keys {
			for _, v := range params[k] {
				sortedQuery.Add(k, v)
			}
		}
		u.RawQuery = sortedQuery.Encode()
	}

	// Strip fragment
	u.Fragment = ""

	return u.String(), nil
}

// getShortHash generates a short, stable hash from a normalized URL.
func getShortHash(normalizedURL string) string {
	hash := sha256.Sum256([]byte(normalizedURL))
	return fmt.Sprintf("%x", hash[:6]) // Use first 6 bytes for a 12-char hex string
}

// sanitizeSlug creates a filesystem-safe slug from a URL.
var invalidFilenameChar = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

func sanitizeSlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		// Fallback for invalid URLs or local files
		safe := invalidFilenameChar.ReplaceAllString(rawURL, "_")
		return strings.Trim(safe, "_")
	}

	hostPart := strings.ReplaceAll(u.Host, ".", "_")
	pathPart := strings.TrimPrefix(u.Path, "/")
	pathPart = invalidFilenameChar.ReplaceAllString(pathPart, "_")
	pathPart = strings.Trim(pathPart, "_")

	if pathPart == "" {
		return hostPart
	}
	return fmt.Sprintf("%s_%s", hostPart, pathPart)
}

// SourceKey returns the stable directory name for a URL: a readable
// slug from the original URL plus a short hash of the normalized form,
// so near-identical URLs never collide.
func SourceKey(rawURL string) (string, error) {
	normalized, err := normalizeURL(rawURL)
	if err != nil {
		return "", err
	}
	slug := sanitizeSlug(rawURL) // Original URL keeps the slug human-readable
	return fmt.Sprintf("%s-%s", slug, getShortHash(normalized)), nil
}

// SourceDir returns the artifact directory for a URL.
// Example: themescrape-results/sources/stripe_com_pricing-a1b2c3d4e5f6/
func (m *Manager) SourceDir(rawURL string) (string, error) {
	key, err := SourceKey(rawURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.baseDir, SourcesDir, key), nil
}

// EnsureSourceDir creates the artifact directory for a URL if needed
// and returns its path.
func (m *Manager) EnsureSourceDir(rawURL string) (string, error) {
	dir, err := m.SourceDir(rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create source directory: %w", err)
	}
	return dir, nil
}

// GetRawHTML retrieves cached raw HTML for a URL if present and fresh.
func (m *Manager) GetRawHTML(rawURL string) ([]byte, bool, error) {
	dir, err := m.SourceDir(rawURL)
	if err != nil {
		return nil, false, err
	}
	return m.readFresh(filepath.Join(dir, RawHTMLFile))
}

// SetRawHTML stores raw HTML for a URL.
func (m *Manager) SetRawHTML(rawURL string, data []byte) error {
	dir, err := m.EnsureSourceDir(rawURL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, RawHTMLFile), data, 0600); err != nil {
		return fmt.Errorf("failed to write raw HTML: %w", err)
	}
	return nil
}

// GetObservations retrieves a URL's cached observation bundle if
// present and fresh.
func (m *Manager) GetObservations(rawURL string) (*models.SourceObservations, bool, error) {
	dir, err := m.SourceDir(rawURL)
	if err != nil {
		return nil, false, err
	}
	data, fresh, err := m.readFresh(filepath.Join(dir, ObservationsFile))
	if err != nil || !fresh {
		return nil, false, err
	}
	var bundle models.SourceObservations
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, false, fmt.Errorf("failed to parse cached observations: %w", err)
	}
	return &bundle, true, nil
}

// SetObservations stores a URL's observation bundle.
func (m *Manager) SetObservations(rawURL string, bundle models.SourceObservations) error {
	dir, err := m.EnsureSourceDir(rawURL)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to marshal observations: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ObservationsFile), data, 0600); err != nil {
		return fmt.Errorf("failed to write observations: %w", err)
	}
	return nil
}

// SetSourceMetadata stores the page metadata next to the observations.
func (m *Manager) SetSourceMetadata(rawURL string, meta models.SourceMetadata) error {
	dir, err := m.EnsureSourceDir(rawURL)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal source metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), data, 0600); err != nil {
		return fmt.Errorf("failed to write source metadata: %w", err)
	}
	return nil
}

// ListObservations loads every cached observation bundle for the given
// URLs, keeping the input order. URLs with no usable cached artifact,
// unreadable entries included, are reported back as missing rather
// than failing the whole load.
func (m *Manager) ListObservations(urls []string) ([]models.SourceObservations, []string, error) {
	bundles := make([]models.SourceObservations, 0, len(urls))
	var missing []string
	for _, u := range urls {
		bundle, ok, err := m.GetObservations(u)
		if err != nil || !ok {
			missing = append(missing, u)
			continue
		}
		bundles = append(bundles, *bundle)
	}
	return bundles, missing, nil
}

// RunDir returns the artifact directory for a run ID.
// Example: themescrape-results/runs/8f14e45f-.../
func (m *Manager) RunDir(runID string) string {
	return filepath.Join(m.baseDir, RunsDir, runID)
}

// EnsureRunDir creates the artifact directory for a run if needed and
// returns its path.
func (m *Manager) EnsureRunDir(runID string) (string, error) {
	dir := m.RunDir(runID)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}

// WriteRunArtifact writes one named file into a run's directory and
// returns the full path written.
func (m *Manager) WriteRunArtifact(runID, name string, data []byte) (string, error) {
	dir, err := m.EnsureRunDir(runID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write run artifact %s: %w", name, err)
	}
	return path, nil
}

// ReadRunArtifact reads one named file from a run's directory.
func (m *Manager) ReadRunArtifact(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(filepath.Join(m.RunDir(runID), name)))
	if err != nil {
		return nil, fmt.Errorf("failed to read run artifact %s: %w", name, err)
	}
	return data, nil
}

// SessionDir resolves a session's directory under the results root.
// sessionDir is the relative path stored in the database, e.g.
// "sessions/2026-01-15-3".
func (m *Manager) SessionDir(sessionDir string) string {
	return filepath.Join(m.baseDir, sessionDir)
}

// readFresh reads a file honoring the staleness window. maxAge of zero
// means artifacts never expire.
func (m *Manager) readFresh(path string) ([]byte, bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, false, nil // Not found
	}
	if err != nil {
		return nil, false, fmt.Errorf("error statting artifact: %w", err)
	}

	if m.maxAge > 0 && time.Since(info.ModTime()) > m.maxAge {
		return nil, false, nil // Stale
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, false, fmt.Errorf("error reading artifact: %w", err)
	}
	return data, true, nil
}
