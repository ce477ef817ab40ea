// Package preview renders a resolved token set as truecolor swatches
// for the terminal, so a palette can be judged at a glance without
// opening the HTML style guide.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/colormath"
	"github.com/themescrape/themescrape/pkg/compile"
)

// Column headers for the role grid; "light-hover" and "light-active"
// are shortened to keep rows under 100 columns.
var stateHeaders = []string{"base", "hover", "active", "disabled", "light", "l-hover", "l-active"}

const (
	// Swatch label is "#RRGGBB" plus an optional low-confidence mark.
	cellInner = 8
	cellWidth = cellInner + 2 // Padding(0, 1)

	// lowConfidence marks tokens that deserve a human look.
	lowConfidence = 0.4
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
)

// Render builds the full preview sheet for a token set.
func Render(set models.TokenSet) string {
	var sb strings.Builder

	header := fmt.Sprintf("%d tokens, avg confidence %.2f", set.Len(), set.AverageConfidence())
	if set.RunID != "" {
		header = fmt.Sprintf("Run %s — %s", shortID(set.RunID), header)
	}
	sb.WriteString(titleStyle.Render(header))
	sb.WriteString("\n\n")

	renderRoles(&sb, set)
	renderScale(&sb, set)
	renderText(&sb, set)
	renderDimensions(&sb, set)

	if hasLowConfidence(set) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("* below %.2f confidence", lowConfidence)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderRoles prints the semantic grid: one row per role, one column
// per derived state.
func renderRoles(sb *strings.Builder, set models.TokenSet) {
	sb.WriteString(titleStyle.Render("Roles"))
	sb.WriteString("\n")

	head := strings.Repeat(" ", 12)
	for _, h := range stateHeaders {
		head += fmt.Sprintf("%-*s", cellWidth, h)
	}
	sb.WriteString(labelStyle.Render(head))
	sb.WriteString("\n")

	for _, role := range models.Roles() {
		name := "color-" + string(role)
		row := fmt.Sprintf("  %-10s", string(role))
		row += swatchFor(set, name)
		for _, suffix := range compile.StateSuffixes {
			row += swatchFor(set, name+"-"+suffix)
		}
		sb.WriteString(row)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// renderScale prints the background and fill steps of the neutral ramp.
func renderScale(sb *strings.Builder, set models.TokenSet) {
	sb.WriteString(titleStyle.Render("Surfaces"))
	sb.WriteString("\n")

	row := "  " + fmt.Sprintf("%-10s", "bg")
	for i := 0; i < 5; i++ {
		row += swatchFor(set, fmt.Sprintf("color-bg-%d", i))
	}
	sb.WriteString(row)
	sb.WriteString("\n")

	row = "  " + fmt.Sprintf("%-10s", "fill")
	for i := 0; i < 3; i++ {
		row += swatchFor(set, fmt.Sprintf("color-fill-%d", i))
	}
	sb.WriteString(row)
	sb.WriteString("\n\n")
}

// renderText prints each text level as ink on the page background, the
// way it would actually be read.
func renderText(sb *strings.Builder, set models.TokenSet) {
	sb.WriteString(titleStyle.Render("Text"))
	sb.WriteString("\n")

	bg := "#FFFFFF"
	if t, ok := set.Get("color-bg-0"); ok {
		bg = t.Value
	}

	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("color-text-%d", i)
		t, ok := set.Get(name)
		if !ok {
			continue
		}
		sample := lipgloss.NewStyle().
			Background(lipgloss.Color(bg)).
			Foreground(lipgloss.Color(t.Value)).
			Padding(0, 1).
			Render(fmt.Sprintf("Aa %-13s %s", name, t.Value))
		sb.WriteString("  " + sample + mark(t))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// renderDimensions prints the non-color tokens as plain aligned lines.
func renderDimensions(sb *strings.Builder, set models.TokenSet) {
	sb.WriteString(titleStyle.Render("Dimensions"))
	sb.WriteString("\n")

	names := []string{
		"spacing-xs", "spacing-sm", "spacing-base", "spacing-md", "spacing-lg", "spacing-xl",
		"radius-base", "font-size-base", "font-family-base",
	}
	for _, name := range names {
		t, ok := set.Get(name)
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %-18s %s%s", name, t.Value, mark(t))
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// swatchFor renders one color cell, or a muted placeholder when the
// token is missing.
func swatchFor(set models.TokenSet, name string) string {
	t, ok := set.Get(name)
	if !ok {
		return labelStyle.Render(fmt.Sprintf("%-*s", cellWidth, " -"))
	}

	rgb, err := models.ParseHex(t.Value)
	if err != nil {
		return labelStyle.Render(fmt.Sprintf("%-*s", cellWidth, " ?"))
	}

	ink := "#000000"
	if colormath.IsDark(rgb) {
		ink = "#FFFFFF"
	}

	label := t.Value
	if t.Confidence < lowConfidence {
		label += "*"
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(t.Value)).
		Foreground(lipgloss.Color(ink)).
		Padding(0, 1).
		Render(fmt.Sprintf("%-*s", cellInner, label))
}

// mark returns the low-confidence marker for non-swatch lines.
func mark(t models.Token) string {
	if t.Confidence < lowConfidence {
		return labelStyle.Render(" *")
	}
	return ""
}

func hasLowConfidence(set models.TokenSet) bool {
	return len(set.LowConfidence(lowConfidence)) > 0
}

func shortID(runID string) string {
	if idx := strings.Index(runID, "-"); idx > 0 {
		return runID[:idx]
	}
	return runID
}
