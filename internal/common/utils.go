// Package common holds helpers shared by the CLI command packages:
// URL cleanup/validation and output field filtering.
package common

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// FilterResultFields reduces a result struct to only the requested
// fields. fieldsStr is a comma-separated list of JSON field names; an
// empty string keeps every field.
func FilterResultFields(result interface{}, fieldsStr string) map[string]interface{} {
	full := structToMap(result)
	if fieldsStr == "" {
		return full
	}

	keep := make(map[string]bool)
	for _, f := range strings.Split(fieldsStr, ",") {
		keep[strings.TrimSpace(f)] = true
	}

	filtered := make(map[string]interface{}, len(keep))
	for key, value := range full {
		if keep[key] {
			filtered[key] = value
		}
	}
	return filtered
}

// structToMap round-trips a struct through JSON so filtering sees the
// same field names the serialized output will carry.
func structToMap(obj interface{}) map[string]interface{} {
	data, _ := json.Marshal(obj)
	var result map[string]interface{}
	_ = json.Unmarshal(data, &result)
	return result
}

// ContentHash returns the hex SHA-256 of data.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

var markdownLink = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

const (
	trailingJunk = `,.)}]"'>;`
	leadingJunk  = `([<"'`
)

// SanitizeURL cleans up the usual copy-paste damage: surrounding
// whitespace, markdown link syntax, stray punctuation on either end.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	if m := markdownLink.FindStringSubmatch(cleaned); len(m) > 1 {
		cleaned = m[1]
	}

	for _, ch := range trailingJunk {
		cleaned = strings.TrimSuffix(cleaned, string(ch))
	}
	for _, ch := range leadingJunk {
		cleaned = strings.TrimPrefix(cleaned, string(ch))
	}

	return strings.TrimSpace(cleaned)
}

// urlShape is the coarse gate: http(s) scheme, plausible domain,
// optional path. net/url alone accepts far too much.
var urlShape = regexp.MustCompile(`^https?://[a-zA-Z0-9][-a-zA-Z0-9.]*[a-zA-Z0-9](/[^\s]*)?$`)

// SanitizeAndValidateURLs cleans every URL and splits the list into
// (usable, rejected). Rejected entries are reported in their original
// form so the caller can echo exactly what the user typed. Literal
// spaces must arrive pre-encoded as %20.
func SanitizeAndValidateURLs(urls []string) ([]string, []string) {
	sanitized := make([]string, 0, len(urls))
	var invalid []string

	for _, rawURL := range urls {
		cleaned := SanitizeURL(rawURL)
		if !validURL(cleaned) {
			invalid = append(invalid, rawURL)
			continue
		}
		sanitized = append(sanitized, cleaned)
	}

	return sanitized, invalid
}

func validURL(cleaned string) bool {
	if cleaned == "" || strings.Contains(cleaned, " ") {
		return false
	}
	if !urlShape.MatchString(cleaned) {
		return false
	}
	parsed, err := url.Parse(cleaned)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	// Braces and quotes in the host mean a mangled paste, not a domain.
	return !strings.ContainsAny(parsed.Host, `{}[]<>"'`)
}
