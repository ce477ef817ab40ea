// Package sampler walks a page's markup and records every styling
// signal visible without executing CSS: inline declarations,
// presentational attributes, and class-implied hints. Values sampled
// here are inferred from rendered markup, so the set carries
// computed-style trust and Exact=false; author stylesheets go through
// pkg/stylesheet instead.
package sampler

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/colormath"
	"github.com/themescrape/themescrape/pkg/frameworks"
)

// Result is one page's harvest. InlineCSS and LinkedCSS feed the
// stylesheet sampler when the mode asks for it; FontFamilies and
// Frameworks feed the source metadata.
type Result struct {
	Set          models.ObservationSet
	InlineCSS    []string
	LinkedCSS    []string
	FontFamilies []string
	Frameworks   []string
}

// Sample parses the page and collects observations per the request
// mode. Minimal mode parses the document for metadata and stylesheet
// references but records no observations.
func Sample(req models.SampleRequest) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(req.HTML))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse document: %w", err)
	}

	res := Result{Set: models.ObservationSet{
		SourceID:    req.URL,
		CapturedAt:  time.Now().UTC(),
		TrustWeight: req.Trust.Computed,
	}}
	res.InlineCSS = inlineStyles(doc)
	res.LinkedCSS = linkedStylesheets(doc, req.URL)
	res.Frameworks = frameworks.Detect(doc)

	if req.Mode == models.SampleModeMinimal {
		return res, nil
	}

	w := walker{rec: Recorder{Set: &res.Set}}
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		w.element(sel)
	})
	res.FontFamilies = w.rec.Fonts
	return res, nil
}

// Head-only and non-visual tags carry no styling worth sampling.
var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "meta": true,
	"link": true, "title": true, "noscript": true, "template": true,
	"base": true, "br": true,
}

type walker struct {
	rec Recorder
}

func (w *walker) element(sel *goquery.Selection) {
	tag := goquery.NodeName(sel)
	if skipTags[tag] {
		return
	}

	class, _ := sel.Attr("class")
	hints := frameworks.Hint(class)
	bg, fg := ContextsFor(tag, class, hints)

	for _, c := range hints.Colors {
		ctx := c.Context
		if ctx == models.ContextSurface {
			ctx = bg
		}
		w.rec.Set.AddColor(c.Color, ctx, hints.Role)
	}
	for _, d := range hints.Dimensions {
		w.rec.Set.AddDimension(d.Px, d.Context)
	}

	if style, ok := sel.Attr("style"); ok {
		w.declarations(style, bg, fg, hints.Role)
	}

	// Presentational attributes survive on older markup.
	if v, ok := sel.Attr("bgcolor"); ok {
		if c, ok := colormath.ParseColor(v); ok {
			w.rec.Set.AddColor(c, bg, hints.Role)
		}
	}
	if v, ok := sel.Attr("color"); ok {
		if c, ok := colormath.ParseColor(v); ok {
			w.rec.Set.AddColor(c, fg, hints.Role)
		}
	}
}

// declarations samples one style attribute. Parsing is tolerant;
// anything unreadable is skipped without complaint.
func (w *walker) declarations(style string, bg, fg models.Context, role models.Role) {
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			continue
		}
		w.rec.Declaration(prop, value, bg, fg, role)
	}
}

// Recorder accumulates property/value pairs into an observation set.
// The markup walker and the stylesheet sampler both feed one.
type Recorder struct {
	Set   *models.ObservationSet
	Fonts []string
}

// Declaration samples one property/value pair, placing colors per the
// given background and foreground contexts.
func (r *Recorder) Declaration(prop, value string, bg, fg models.Context, role models.Role) {
	switch {
	case prop == "background" || prop == "background-color":
		if c, ok := ExtractColor(value); ok {
			r.Set.AddColor(c, bg, role)
		}
	case prop == "color":
		if c, ok := colormath.ParseColor(value); ok {
			r.Set.AddColor(c, fg, role)
		}
	case prop == "fill" || prop == "stroke":
		if c, ok := colormath.ParseColor(value); ok {
			r.Set.AddColor(c, models.ContextIcon, role)
		}
	case strings.HasSuffix(prop, "-radius"):
		if px, ok := colormath.ParseLength(firstField(value)); ok && px > 0 {
			r.Set.AddDimension(px, models.ContextRadius)
		}
	case prop == "border" || prop == "outline" || isBorderSide(prop):
		if c, ok := ExtractColor(value); ok {
			r.Set.AddColor(c, models.ContextBorder, role)
		}
	case prop == "outline-color" || (strings.HasPrefix(prop, "border") && strings.HasSuffix(prop, "-color")):
		if c, ok := ExtractColor(value); ok {
			r.Set.AddColor(c, models.ContextBorder, role)
		}
	case isSpacingProp(prop):
		for _, field := range strings.Fields(value) {
			if px, ok := colormath.ParseLength(field); ok && px > 0 {
				r.Set.AddDimension(px, models.ContextSpacing)
			}
		}
	case prop == "font-size":
		if px, ok := colormath.ParseLength(value); ok && px > 0 {
			r.Set.AddDimension(px, models.ContextFontSize)
		}
	case prop == "font-family":
		for _, fam := range strings.Split(value, ",") {
			if fam = strings.TrimSpace(fam); fam != "" {
				r.Fonts = append(r.Fonts, fam)
			}
		}
	}
}

func isBorderSide(prop string) bool {
	switch prop {
	case "border-top", "border-right", "border-bottom", "border-left":
		return true
	}
	return false
}

func isSpacingProp(prop string) bool {
	if prop == "padding" || prop == "margin" || prop == "gap" ||
		prop == "row-gap" || prop == "column-gap" {
		return true
	}
	return strings.HasPrefix(prop, "padding-") || strings.HasPrefix(prop, "margin-")
}

// ContextsFor maps an element's tag and class list onto the background
// and foreground contexts a value on it should land in. Component
// classes outrank tag defaults.
func ContextsFor(tag, class string, h frameworks.Hints) (bg, fg models.Context) {
	bg, fg = backgroundContext(tag), foregroundContext(tag)

	lower := strings.ToLower(class)
	switch {
	case h.Button || containsAny(lower, "btn", "button", "cta"):
		bg, fg = models.ContextButtonBackground, models.ContextButtonForeground
	case h.Badge || containsAny(lower, "badge", "chip", "pill", "alert", "toast", "banner"):
		bg, fg = models.ContextBadgeBackground, models.ContextBadgeForeground
	case h.Surface || containsAny(lower, "card", "panel", "modal", "drawer", "sheet", "paper", "surface", "well", "sidebar"):
		bg = models.ContextSurface
	}
	if h.Muted || containsAny(lower, "muted", "subtle", "caption", "text-secondary", "secondary-text", "hint") {
		fg = models.ContextMutedText
	}
	return bg, fg
}

func backgroundContext(tag string) models.Context {
	switch tag {
	case "html", "body":
		return models.ContextPageBackground
	case "button", "input", "select", "textarea", "a":
		return models.ContextButtonBackground
	default:
		return models.ContextSurface
	}
}

func foregroundContext(tag string) models.Context {
	switch tag {
	case "a":
		return models.ContextLinkText
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return models.ContextHeadingText
	case "button", "input", "select", "textarea":
		return models.ContextButtonForeground
	case "small", "figcaption", "caption", "time", "sub", "sup":
		return models.ContextMutedText
	case "svg", "path", "circle", "rect", "polygon", "use", "i":
		return models.ContextIcon
	case "p", "li", "td", "th", "dd", "dt", "span", "div", "body",
		"strong", "em", "b", "label", "blockquote", "article", "section", "main":
		return models.ContextBodyText
	default:
		return models.ContextUnknown
	}
}

func containsAny(s string, fragments ...string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// colorToken pulls candidate color substrings out of shorthand values
// like "1px solid #CBD5E1" or "url(bg.png) rgb(250, 250, 250)".
var colorToken = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b|rgba?\([^)]*\)|hsla?\([^)]*\)`)

// ExtractColor finds the first parseable color in a CSS value,
// tolerating shorthand noise around it.
func ExtractColor(value string) (models.RGB, bool) {
	if c, ok := colormath.ParseColor(value); ok {
		return c, true
	}
	for _, tok := range colorToken.FindAllString(value, -1) {
		if c, ok := colormath.ParseColor(tok); ok {
			return c, true
		}
	}
	for _, word := range strings.Fields(value) {
		if c, ok := colormath.ParseColor(word); ok {
			return c, true
		}
	}
	return models.RGB{}, false
}

func firstField(value string) string {
	if fields := strings.Fields(value); len(fields) > 0 {
		return fields[0]
	}
	return value
}

// inlineStyles collects the text of every <style> block in document
// order.
func inlineStyles(doc *goquery.Document) []string {
	var blocks []string
	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return blocks
}

// linkedStylesheets resolves every rel=stylesheet href against the
// page URL, skipping what cannot be resolved.
func linkedStylesheets(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	var hrefs []string
	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return
		}
		hrefs = append(hrefs, ref.String())
	})
	return hrefs
}
