// Package export renders a resolved token set into consumable formats:
// CSS custom properties, SCSS variables, or JSON. Output is ordered by
// token name so repeated exports of the same run are byte-identical.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/themescrape/themescrape/models"
)

// Format selects the export target.
type Format string

const (
	FormatCSS  Format = "css"
	FormatSCSS Format = "scss"
	FormatJSON Format = "json"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSS, FormatSCSS, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (valid: css, scss, json)", s)
	}
}

// Extension returns the file extension for a format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

type entry struct {
	Name  string
	Value string
}

type templateData struct {
	RunID  string
	Tokens []entry
}

var cssTemplate = template.Must(template.New("css").Parse(
	`{{if .RunID}}/* design tokens, run {{.RunID}} */
{{end}}:root {
{{range .Tokens}}  --{{.Name}}: {{.Value}};
{{end}}}
`))

var scssTemplate = template.Must(template.New("scss").Parse(
	`{{if .RunID}}// design tokens, run {{.RunID}}
{{end}}{{range .Tokens}}${{.Name}}: {{.Value}};
{{end}}`))

// Render produces the token set in the requested format.
func Render(set models.TokenSet, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tokens: %w", err)
		}
		return append(data, '\n'), nil
	case FormatCSS:
		return renderTemplate(cssTemplate, set)
	case FormatSCSS:
		return renderTemplate(scssTemplate, set)
	default:
		return nil, fmt.Errorf("unsupported format: %s (valid: css, scss, json)", format)
	}
}

func renderTemplate(tmpl *template.Template, set models.TokenSet) ([]byte, error) {
	data := templateData{RunID: set.RunID}
	for _, name := range set.Names() {
		data.Tokens = append(data.Tokens, entry{Name: name, Value: set.Tokens[name].Value})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}
