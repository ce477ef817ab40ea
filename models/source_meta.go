package models

import "time"

// Theme is the detected base scheme of a sampled page.
type Theme string

const (
	ThemeLight   Theme = "light"
	ThemeDark    Theme = "dark"
	ThemeUnknown Theme = "unknown"
)

// SourceMetadata describes the page or stylesheet behind an
// observation set. It travels with the set into artifacts and the
// database so sessions can be inspected without refetching.
type SourceMetadata struct {
	URL        string `json:"url" yaml:"url"`
	FinalURL   string `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	StatusCode int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`

	SiteName string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Excerpt  string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Favicon  string `json:"favicon,omitempty" yaml:"favicon,omitempty"`

	Theme Theme `json:"theme,omitempty" yaml:"theme,omitempty"`

	Language           string  `json:"language,omitempty" yaml:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`

	// FontFamilies holds observed font-family stacks, most frequent first.
	FontFamilies []string `json:"font_families,omitempty" yaml:"font_families,omitempty"`

	// Frameworks lists detected CSS frameworks ("bootstrap", "tailwind", ...).
	Frameworks []string `json:"frameworks,omitempty" yaml:"frameworks,omitempty"`

	ContentHash string    `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
	CapturedAt  time.Time `json:"captured_at,omitempty" yaml:"captured_at,omitempty"`
}
