// Package themedetect derives per-source metadata that needs the whole
// page rather than single declarations: readability metadata, the page
// language, and whether the page presents a light or dark base scheme.
package themedetect

import (
	"bytes"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/colormath"
)

// HTTPMetadata carries transport facts the fetcher observed.
type HTTPMetadata struct {
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Detect assembles source metadata for one sampled page. Every part is
// best-effort: a page readability cannot digest still gets a theme and
// a language when enough text survives.
func Detect(pageURL string, html []byte, set models.ObservationSet, httpMeta *HTTPMetadata) models.SourceMetadata {
	meta := models.SourceMetadata{
		URL:        pageURL,
		CapturedAt: set.CapturedAt,
		Theme:      Classify(set),
	}
	if httpMeta != nil {
		meta.StatusCode = httpMeta.StatusCode
		if httpMeta.FinalURL != "" && httpMeta.FinalURL != pageURL {
			meta.FinalURL = httpMeta.FinalURL
		}
		if ct := httpMeta.ContentType; ct != "" && !strings.Contains(ct, "html") {
			return meta
		}
	}

	text := readMetadata(pageURL, html, &meta)
	if lang, conf, ok := DetectLanguage(text); ok {
		meta.Language = lang
		meta.LanguageConfidence = conf
	}
	return meta
}

// readMetadata fills the readability-derived fields and returns the
// page's text content for language detection.
func readMetadata(pageURL string, html []byte, meta *models.SourceMetadata) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(html), parsed)
	if err != nil {
		return ""
	}
	meta.Title = strings.TrimSpace(article.Title)
	meta.SiteName = strings.TrimSpace(article.SiteName)
	meta.Excerpt = truncate(strings.TrimSpace(article.Excerpt), maxExcerpt)
	meta.Favicon = article.Favicon
	return article.TextContent
}

const maxExcerpt = 280

// Page background sightings outvote ordinary surfaces when deciding
// the base scheme.
const pageBackgroundWeight = 3

// Classify decides whether sampled backgrounds describe a light or a
// dark page. A set without background observations is unknown.
func Classify(set models.ObservationSet) models.Theme {
	var light, dark float64
	for _, o := range set.Observations {
		if o.Kind != models.KindColor {
			continue
		}
		var weight float64
		switch o.Context {
		case models.ContextPageBackground:
			weight = pageBackgroundWeight * float64(o.Frequency)
		case models.ContextSurface:
			weight = float64(o.Frequency)
		default:
			continue
		}
		if colormath.IsDark(o.Color) {
			dark += weight
		} else {
			light += weight
		}
	}
	switch {
	case light == 0 && dark == 0:
		return models.ThemeUnknown
	case dark > light:
		return models.ThemeDark
	default:
		return models.ThemeLight
	}
}

const (
	minLanguageSample = 40
	maxLanguageSample = 4096
)

var (
	detectorOnce sync.Once
	langDetector lingua.LanguageDetector
)

// detectionLanguages spans the scripts the font fallback stacks
// distinguish, plus the latin languages most common on the web.
var detectionLanguages = []lingua.Language{
	lingua.English, lingua.Spanish, lingua.French, lingua.German,
	lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Polish,
	lingua.Swedish, lingua.Turkish, lingua.Vietnamese, lingua.Russian,
	lingua.Ukrainian, lingua.Greek, lingua.Arabic, lingua.Hebrew,
	lingua.Hindi, lingua.Thai, lingua.Chinese, lingua.Japanese,
	lingua.Korean,
}

func detector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		langDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectionLanguages...).
			WithLowAccuracyMode().
			Build()
	})
	return langDetector
}

// DetectLanguage returns the ISO 639-1 code and confidence of the
// dominant language in text. Texts too short to classify reliably
// return ok=false. Language models load lazily and are shared.
func DetectLanguage(text string) (string, float64, bool) {
	text = strings.TrimSpace(text)
	if len(text) < minLanguageSample {
		return "", 0, false
	}
	text = truncate(text, maxLanguageSample)

	lang, ok := detector().DetectLanguageOf(text)
	if !ok {
		return "", 0, false
	}
	conf := detector().ComputeLanguageConfidence(text, lang)
	return strings.ToLower(lang.IsoCode639_1().String()), conf, true
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
