// Package frameworks recognizes the class vocabularies of common CSS
// frameworks and sharpens sampling hints before classification. A
// recognizer never invents a color out of thin air; it only promotes
// what a class name already states, such as a Bootstrap role suffix or
// a Tailwind arbitrary value.
package frameworks

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/themescrape/themescrape/models"
)

// ColorHint is a literal color a utility class embeds, like the
// #1DA1F2 in bg-[#1DA1F2].
type ColorHint struct {
	Color   models.RGB
	Context models.Context
}

// DimensionHint is a pixel length a utility class implies, like the
// 16px in p-4.
type DimensionHint struct {
	Px      float64
	Context models.Context
}

// Hints is everything the class scan of one element established.
type Hints struct {
	Role models.Role

	// Component shape. The sampler maps these onto background and
	// foreground contexts.
	Button  bool
	Badge   bool
	Surface bool
	Muted   bool

	Colors     []ColorHint
	Dimensions []DimensionHint
}

// Hint scans one element's class list with every recognizer.
func Hint(class string) Hints {
	var h Hints
	if class == "" {
		return h
	}
	tokens := strings.Fields(strings.ToLower(class))
	bootstrapHints(tokens, &h)
	tailwindHints(tokens, &h)
	materialHints(tokens, &h)
	return h
}

// Detect reports which frameworks a document appears to use, sorted
// for stable metadata output.
func Detect(doc *goquery.Document) []string {
	classes := collectClasses(doc)
	assets := collectAssetURLs(doc)

	found := map[string]bool{}
	if detectBootstrap(classes, assets) {
		found["bootstrap"] = true
	}
	if detectTailwind(classes, assets) {
		found["tailwind"] = true
	}
	if detectMaterial(classes, assets) {
		found["material"] = true
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// collectClasses joins every class attribute into one searchable
// string, padded so word-boundary patterns work across elements.
func collectClasses(doc *goquery.Document) string {
	var sb strings.Builder
	doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		if class, ok := sel.Attr("class"); ok {
			sb.WriteString(" ")
			sb.WriteString(strings.ToLower(class))
		}
	})
	sb.WriteString(" ")
	return sb.String()
}

func collectAssetURLs(doc *goquery.Document) string {
	var sb strings.Builder
	doc.Find("link[href], script[src]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			sb.WriteString(" ")
			sb.WriteString(strings.ToLower(href))
		}
		if src, ok := sel.Attr("src"); ok {
			sb.WriteString(" ")
			sb.WriteString(strings.ToLower(src))
		}
	})
	return sb.String()
}
