// Package docgen renders a resolved token set into a single-file HTML
// style guide: role swatches with derived states, the neutral ramp,
// the text hierarchy, dimensions and a diagnostics appendix. The file
// is self-contained so it can be mailed around or committed.
package docgen

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/colormath"
	"github.com/themescrape/themescrape/pkg/compile"
)

// Data is everything the style guide shows.
type Data struct {
	Title       string
	RunID       string
	GeneratedAt time.Time
	Sources     []string
	Tokens      models.TokenSet
	Diagnostics []models.Diagnostic
}

// Render produces the style guide HTML.
func Render(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, buildView(d)); err != nil {
		return nil, fmt.Errorf("failed to render style guide: %w", err)
	}
	return buf.Bytes(), nil
}

type swatch struct {
	Name  string
	Label string
	Value string
	Ink   string
	Badge string
	Conf  string
}

type roleCard struct {
	Role   string
	Base   swatch
	States []swatch
}

type textSpec struct {
	Name  string
	Value string
	Badge string
	Conf  string
}

type dimensionRow struct {
	Name  string
	Value string
	Badge string
	Conf  string
	Bar   bool
}

type view struct {
	Title       string
	RunID       string
	GeneratedAt string
	Sources     []string
	Roles       []roleCard
	Ramp        []swatch
	TextLevels  []textSpec
	TextBg      string
	Dimensions  []dimensionRow
	FamilyName  string
	FamilyCSS   template.CSS
	FamilyBadge string
	FamilyConf  string
	Diagnostics []models.Diagnostic
}

func buildView(d Data) view {
	v := view{
		Title:       d.Title,
		RunID:       d.RunID,
		GeneratedAt: d.GeneratedAt.UTC().Format(time.RFC3339),
		Sources:     d.Sources,
		TextBg:      tokenValue(d.Tokens, "color-bg-0", "#FFFFFF"),
		Diagnostics: d.Diagnostics,
	}
	if v.Title == "" {
		v.Title = "Design Tokens"
	}

	for _, role := range models.Roles() {
		name := "color-" + string(role)
		t, ok := d.Tokens.Get(name)
		if !ok {
			continue
		}
		card := roleCard{Role: string(role), Base: colorSwatch(name, "base", t)}
		for _, suffix := range compile.StateSuffixes {
			if st, ok := d.Tokens.Get(name + "-" + suffix); ok {
				card.States = append(card.States, colorSwatch(name+"-"+suffix, suffix, st))
			}
		}
		v.Roles = append(v.Roles, card)
	}

	for i := 0; i < 5; i++ {
		name := "color-bg-" + strconv.Itoa(i)
		if t, ok := d.Tokens.Get(name); ok {
			v.Ramp = append(v.Ramp, colorSwatch(name, name, t))
		}
	}
	for i := 0; i < 3; i++ {
		name := "color-fill-" + strconv.Itoa(i)
		if t, ok := d.Tokens.Get(name); ok {
			v.Ramp = append(v.Ramp, colorSwatch(name, name, t))
		}
	}

	for i := 0; i < 4; i++ {
		name := "color-text-" + strconv.Itoa(i)
		if t, ok := d.Tokens.Get(name); ok {
			v.TextLevels = append(v.TextLevels, textSpec{
				Name:  name,
				Value: t.Value,
				Badge: badge(t.Confidence),
				Conf:  percent(t.Confidence),
			})
		}
	}

	dimensionOrder := []string{
		"spacing-base", "spacing-xs", "spacing-sm", "spacing-md",
		"spacing-lg", "spacing-xl", "radius-base", "font-size-base",
	}
	for _, name := range dimensionOrder {
		if t, ok := d.Tokens.Get(name); ok {
			v.Dimensions = append(v.Dimensions, dimensionRow{
				Name:  name,
				Value: t.Value,
				Badge: badge(t.Confidence),
				Conf:  percent(t.Confidence),
				Bar:   name != "radius-base",
			})
		}
	}

	if t, ok := d.Tokens.Get("font-family-base"); ok {
		v.FamilyName = t.Value
		v.FamilyCSS = fontStackCSS(t.Value)
		v.FamilyBadge = badge(t.Confidence)
		v.FamilyConf = percent(t.Confidence)
	}

	return v
}

// tokenValue returns the named token's value, or fallback when absent.
func tokenValue(ts models.TokenSet, name, fallback string) string {
	if t, ok := ts.Get(name); ok {
		return t.Value
	}
	return fallback
}

func colorSwatch(name, label string, t models.Token) swatch {
	return swatch{
		Name:  name,
		Label: label,
		Value: t.Value,
		Ink:   inkFor(t.Value),
		Badge: badge(t.Confidence),
		Conf:  percent(t.Confidence),
	}
}

// inkFor picks a readable label color for a swatch background.
func inkFor(hex string) string {
	c, err := models.ParseHex(hex)
	if err != nil {
		return "#111827"
	}
	if colormath.IsDark(c) {
		return "#FFFFFF"
	}
	return "#111827"
}

func badge(conf float64) string {
	switch {
	case conf >= 0.75:
		return "high"
	case conf >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

func percent(conf float64) string {
	return strconv.Itoa(int(math.Round(conf*100))) + "%"
}

var fontStackOK = regexp.MustCompile(`^[\w \-,"']+$`)

// fontStackCSS admits a font stack into a style attribute. Stacks are
// assembled from cleaned family names, but anything surprising falls
// back to the generic family.
func fontStackCSS(family string) template.CSS {
	if !fontStackOK.MatchString(family) {
		return "sans-serif"
	}
	return template.CSS(family)
}

var pageTemplate = template.Must(template.New("styleguide").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; padding: 2rem; font-family: system-ui, sans-serif; background: #F9FAFB; color: #111827; }
  h1 { margin: 0 0 0.25rem; }
  h2 { margin: 2.5rem 0 1rem; border-bottom: 1px solid #E5E7EB; padding-bottom: 0.5rem; }
  .meta { color: #6B7280; font-size: 0.875rem; }
  .meta ul { margin: 0.25rem 0; padding-left: 1.25rem; }
  .cards { display: grid; grid-template-columns: repeat(auto-fill, minmax(320px, 1fr)); gap: 1rem; }
  .card { background: #FFFFFF; border: 1px solid #E5E7EB; border-radius: 8px; padding: 1rem; }
  .card h3 { margin: 0 0 0.75rem; text-transform: capitalize; }
  .row { display: flex; flex-wrap: wrap; gap: 0.5rem; }
  .swatch { flex: 1 1 90px; min-height: 64px; border-radius: 6px; padding: 0.5rem; font-size: 0.7rem; display: flex; flex-direction: column; justify-content: space-between; }
  .swatch code { font-size: 0.7rem; }
  .badge { display: inline-block; border-radius: 999px; padding: 0.1rem 0.5rem; font-size: 0.7rem; }
  .badge.high { background: #DCFCE7; color: #166534; }
  .badge.medium { background: #FEF3C7; color: #92400E; }
  .badge.low { background: #FEE2E2; color: #991B1B; }
  .ramp { display: flex; gap: 0; border-radius: 8px; overflow: hidden; border: 1px solid #E5E7EB; }
  .ramp .swatch { border-radius: 0; }
  .specimen { border: 1px solid #E5E7EB; border-radius: 8px; padding: 1rem 1.5rem; }
  .specimen p { margin: 0.5rem 0; }
  table { border-collapse: collapse; background: #FFFFFF; }
  th, td { text-align: left; padding: 0.4rem 1rem; border-bottom: 1px solid #E5E7EB; font-size: 0.875rem; }
  .bar { height: 10px; background: #0F172A; border-radius: 2px; }
  footer { margin-top: 3rem; color: #9CA3AF; font-size: 0.75rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">
  {{if .RunID}}Run <code>{{.RunID}}</code> · {{end}}generated {{.GeneratedAt}}
  {{if .Sources}}<ul>{{range .Sources}}<li><a href="{{.}}">{{.}}</a></li>{{end}}</ul>{{end}}
</p>

<h2>Roles</h2>
<div class="cards">
{{range .Roles}}  <div class="card">
    <h3>{{.Role}} <span class="badge {{.Base.Badge}}">{{.Base.Conf}}</span></h3>
    <div class="row">
      <div class="swatch" style="background: {{.Base.Value}}; color: {{.Base.Ink}}"><span>{{.Base.Label}}</span><code>{{.Base.Value}}</code></div>
{{range .States}}      <div class="swatch" style="background: {{.Value}}; color: {{.Ink}}"><span>{{.Label}}</span><code>{{.Value}}</code></div>
{{end}}    </div>
  </div>
{{end}}</div>

<h2>Neutral ramp</h2>
<div class="ramp">
{{range .Ramp}}  <div class="swatch" style="background: {{.Value}}; color: {{.Ink}}"><span>{{.Label}}</span><code>{{.Value}}</code></div>
{{end}}</div>

<h2>Text hierarchy</h2>
<div class="specimen" style="background: {{.TextBg}}">
{{range $i, $lvl := .TextLevels}}  <p style="color: {{$lvl.Value}}">{{$lvl.Name}} · The quick brown fox jumps over the lazy dog <code>{{$lvl.Value}}</code> <span class="badge {{$lvl.Badge}}">{{$lvl.Conf}}</span></p>
{{end}}</div>

<h2>Dimensions</h2>
<table>
  <tr><th>Token</th><th>Value</th><th></th><th>Confidence</th></tr>
{{range .Dimensions}}  <tr><td><code>{{.Name}}</code></td><td>{{.Value}}</td><td>{{if .Bar}}<div class="bar" style="width: {{.Value}}"></div>{{end}}</td><td><span class="badge {{.Badge}}">{{.Conf}}</span></td></tr>
{{end}}</table>

{{if .FamilyName}}<h2>Typography</h2>
<p class="specimen" style="font-family: {{.FamilyCSS}}">
  {{.FamilyName}} <span class="badge {{.FamilyBadge}}">{{.FamilyConf}}</span><br>
  Sphinx of black quartz, judge my vow. 0123456789
</p>
{{end}}
{{if .Diagnostics}}<h2>Diagnostics</h2>
<table>
  <tr><th>Severity</th><th>Code</th><th>Message</th><th>Source</th></tr>
{{range .Diagnostics}}  <tr><td>{{.Severity}}</td><td><code>{{.Code}}</code></td><td>{{.Message}}</td><td>{{.Source}}</td></tr>
{{end}}</table>
{{end}}
<footer>themescrape style guide</footer>
</body>
</html>
`))
