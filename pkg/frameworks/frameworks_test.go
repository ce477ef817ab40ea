package frameworks

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themescrape/themescrape/models"
)

func TestBootstrapRoleSuffixes(t *testing.T) {
	cases := map[string]models.Role{
		"btn btn-danger":              models.RoleDanger,
		"btn btn-outline-success":     models.RoleSuccess,
		"badge badge-warning":         models.RoleWarning,
		"alert alert-info":            models.RoleInfo,
		"text-primary":                models.RolePrimary,
		"bg-secondary":                models.RoleSecondary,
		"list-group-item-danger":      models.RoleDanger,
		"btn btn-lg":                  models.RoleNone,
		"buttoned-up":                 models.RoleNone,
		"text-danger-subtle-whatever": models.RoleNone,
	}
	for class, want := range cases {
		assert.Equal(t, want, Hint(class).Role, class)
	}
}

func TestBootstrapComponentShapes(t *testing.T) {
	assert.True(t, Hint("btn btn-primary").Button)
	assert.True(t, Hint("badge rounded-pill").Badge)
	assert.True(t, Hint("alert alert-dismissible").Badge)
	assert.True(t, Hint("card shadow-sm").Surface)
	assert.True(t, Hint("text-muted").Muted)
	assert.False(t, Hint("btns").Button, "prefix must not match bare plural")
}

func TestTailwindArbitraryColors(t *testing.T) {
	h := Hint("bg-[#1DA1F2] text-[#333] p-4")

	require.Len(t, h.Colors, 2)
	assert.Equal(t, "#1DA1F2", h.Colors[0].Color.Hex())
	assert.Equal(t, models.ContextSurface, h.Colors[0].Context)
	assert.Equal(t, "#333333", h.Colors[1].Color.Hex())
	assert.Equal(t, models.ContextBodyText, h.Colors[1].Context)
}

func TestTailwindDimensionScale(t *testing.T) {
	h := Hint("p-4 mx-2 gap-6 rounded-lg text-sm")

	var spacing, radius, font []float64
	for _, d := range h.Dimensions {
		switch d.Context {
		case models.ContextSpacing:
			spacing = append(spacing, d.Px)
		case models.ContextRadius:
			radius = append(radius, d.Px)
		case models.ContextFontSize:
			font = append(font, d.Px)
		}
	}
	assert.ElementsMatch(t, []float64{16, 8, 24}, spacing)
	assert.ElementsMatch(t, []float64{8}, radius)
	assert.ElementsMatch(t, []float64{14}, font)
}

func TestMaterialPaletteNames(t *testing.T) {
	assert.Equal(t, models.RoleDanger, Hint("mat-button mat-warn").Role)
	assert.Equal(t, models.RoleSecondary, Hint("mat-accent").Role)
	assert.Equal(t, models.RolePrimary, Hint("mdc-theme--primary").Role)
	assert.True(t, Hint("mdc-button mdc-button--raised").Button)
	assert.True(t, Hint("mdc-card my-card").Surface)
}

func TestHintFirstRoleWins(t *testing.T) {
	// Bootstrap runs before Material, and the first role stays.
	h := Hint("btn-success mat-warn")
	assert.Equal(t, models.RoleSuccess, h.Role)
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestDetectBootstrapFromAssets(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<link rel="stylesheet" href="https://cdn.example.com/bootstrap.min.css">
	</head><body><div class="x"></div></body></html>`)
	assert.Contains(t, Detect(doc), "bootstrap")
}

func TestDetectTailwindFromClasses(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<div class="flex p-4 rounded-lg bg-blue-500 text-sm"></div>
		<div class="grid gap-2 text-gray-500"></div>
	</body></html>`)
	assert.Contains(t, Detect(doc), "tailwind")
}

func TestDetectNothingOnPlainMarkup(t *testing.T) {
	doc := mustDoc(t, `<html><body><div class="content main"></div></body></html>`)
	assert.Empty(t, Detect(doc))
}
