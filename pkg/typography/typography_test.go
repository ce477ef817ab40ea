package typography

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/themescrape/themescrape/models"
)

func metaWith(url string, families ...string) models.SourceMetadata {
	return models.SourceMetadata{URL: url, FontFamilies: families}
}

func TestResolveElectsMostObservedFamily(t *testing.T) {
	metas := []models.SourceMetadata{
		metaWith("https://a.example", "Inter", "sans-serif"),
		metaWith("https://b.example", "Inter"),
		metaWith("https://c.example", "Georgia"),
	}

	r := Resolve(metas)

	assert.Equal(t, "Inter", r.Primary)
	assert.True(t, r.Observed)
	assert.Equal(t, 2, r.Agree)
	assert.True(t, strings.HasPrefix(r.Family, "Inter, system-ui"), r.Family)
}

func TestResolveSkipsGenericFamilies(t *testing.T) {
	metas := []models.SourceMetadata{
		metaWith("https://a.example", "sans-serif", "system-ui"),
	}

	r := Resolve(metas)

	assert.Empty(t, r.Primary)
	assert.False(t, r.Observed)
	assert.Equal(t, FallbackStack(""), r.Family)
}

func TestResolveQuotesSpacedNames(t *testing.T) {
	metas := []models.SourceMetadata{
		metaWith("https://a.example", "Helvetica Neue"),
	}

	r := Resolve(metas)

	assert.Equal(t, "Helvetica Neue", r.Primary)
	assert.True(t, strings.HasPrefix(r.Family, `"Helvetica Neue", `), r.Family)
}

func TestResolveUsesScriptFallbackStack(t *testing.T) {
	metas := []models.SourceMetadata{
		{URL: "https://a.example.jp", Language: "ja"},
	}

	r := Resolve(metas)

	assert.Equal(t, "ja", r.Language)
	assert.Equal(t, FallbackStack("ja"), r.Family)
	assert.Contains(t, r.Family, "Hiragino")
}

func TestResolveLanguageMajorityWins(t *testing.T) {
	metas := []models.SourceMetadata{
		{URL: "https://a.example", Language: "en", FontFamilies: []string{"Inter"}},
		{URL: "https://b.example", Language: "en"},
		{URL: "https://c.example", Language: "ja"},
	}

	r := Resolve(metas)

	assert.Equal(t, "en", r.Language)
	assert.True(t, strings.HasSuffix(r.Family, "sans-serif"), r.Family)
	assert.NotContains(t, r.Family, "Hiragino")
}

func TestResolveFamilyTieIsDeterministic(t *testing.T) {
	metas := []models.SourceMetadata{
		metaWith("https://a.example", "Inter"),
		metaWith("https://b.example", "Arial"),
	}

	r := Resolve(metas)

	assert.Equal(t, "Arial", r.Primary)
}

func TestCleanFamily(t *testing.T) {
	assert.Equal(t, "Open Sans", CleanFamily(`'Open Sans'`))
	assert.Equal(t, "Roboto", CleanFamily("  Roboto  "))
	assert.Equal(t, "Segoe UI", CleanFamily(`"Segoe UI"`))
	assert.Equal(t, "", CleanFamily("  "))
}
