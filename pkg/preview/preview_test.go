package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/themescrape/themescrape/models"
)

func previewSet() models.TokenSet {
	set := models.NewTokenSet()
	set.RunID = "0b964747-d32e-4a18-9811-0b4012ce7ef4"
	set.Put("color-primary", models.Token{Value: "#0F79F3", Kind: models.KindColor, Confidence: 0.9})
	set.Put("color-primary-hover", models.Token{Value: "#0E6DDB", Kind: models.KindColor, Confidence: 0.9})
	set.Put("color-danger", models.Token{Value: "#DC3545", Kind: models.KindColor, Confidence: 0.3})
	set.Put("color-bg-0", models.Token{Value: "#FFFFFF", Kind: models.KindColor, Confidence: 0.8})
	set.Put("color-bg-1", models.Token{Value: "#F5F5F5", Kind: models.KindColor, Confidence: 0.8})
	set.Put("color-fill-0", models.Token{Value: "#E0E0E0", Kind: models.KindColor, Confidence: 0.8})
	set.Put("color-text-0", models.Token{Value: "#1A1A1A", Kind: models.KindColor, Confidence: 0.8})
	set.Put("color-text-1", models.Token{Value: "#444444", Kind: models.KindColor, Confidence: 0.8})
	set.Put("spacing-base", models.Token{Value: "8px", Kind: models.KindDimension, Confidence: 0.7})
	set.Put("radius-base", models.Token{Value: "4px", Kind: models.KindDimension, Confidence: 0.7})
	set.Put("font-family-base", models.Token{Value: "Inter, sans-serif", Kind: models.KindFont, Confidence: 0.6})
	return set
}

func TestRender_Sections(t *testing.T) {
	out := Render(previewSet())

	assert.Contains(t, out, "Run 0b964747")
	assert.Contains(t, out, "Roles")
	assert.Contains(t, out, "Surfaces")
	assert.Contains(t, out, "Text")
	assert.Contains(t, out, "Dimensions")
}

func TestRender_TokenValues(t *testing.T) {
	out := Render(previewSet())

	assert.Contains(t, out, "#0F79F3")
	assert.Contains(t, out, "color-text-0")
	assert.Contains(t, out, "8px")
	assert.Contains(t, out, "Inter, sans-serif")
}

func TestRender_LowConfidenceMarked(t *testing.T) {
	out := Render(previewSet())

	// color-danger sits below the threshold
	assert.Contains(t, out, "#DC3545*")
	assert.Contains(t, out, "* below 0.40 confidence")
}

func TestRender_MissingTokensDoNotPanic(t *testing.T) {
	set := models.NewTokenSet()
	set.Put("color-primary", models.Token{Value: "#336699", Kind: models.KindColor, Confidence: 0.9})

	out := Render(set)
	assert.Contains(t, out, "Roles")
	// Missing cells render as placeholders, one per absent state column
	assert.True(t, strings.Count(out, " -") >= 6)
}

func TestRender_StateHeadersPresent(t *testing.T) {
	out := Render(previewSet())
	for _, h := range stateHeaders {
		assert.Contains(t, out, h)
	}
}
