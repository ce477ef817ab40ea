package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themescrape/themescrape/models"
)

func sampleHTML(t *testing.T, mode models.SampleMode, html string) Result {
	t.Helper()
	res, err := Sample(models.SampleRequest{
		URL:   "https://example.test/page",
		HTML:  []byte(html),
		Mode:  mode,
		Trust: models.DefaultConfig().Trust,
	})
	require.NoError(t, err)
	return res
}

func findColor(set models.ObservationSet, hex string, ctx models.Context) *models.RawObservation {
	for i, o := range set.Observations {
		if o.Kind == models.KindColor && o.Color.Hex() == hex && o.Context == ctx {
			return &set.Observations[i]
		}
	}
	return nil
}

func findDimension(set models.ObservationSet, px float64, ctx models.Context) *models.RawObservation {
	for i, o := range set.Observations {
		if o.Kind == models.KindDimension && o.Px == px && o.Context == ctx {
			return &set.Observations[i]
		}
	}
	return nil
}

func TestSampleInlineDeclarations(t *testing.T) {
	res := sampleHTML(t, models.SampleModeInline, `<html>
	<body style="background-color: #FFFFFF; color: #1F2937">
		<button style="background: #0F79F3; color: white; border-radius: 8px; padding: 8px 16px">Go</button>
		<h1 style="color: #111827; font-size: 2rem">Title</h1>
		<p style="color: rgb(31, 41, 55); margin: 16px 0">Body</p>
	</body></html>`)

	set := res.Set
	assert.Equal(t, "https://example.test/page", set.SourceID)
	assert.False(t, set.Exact)

	page := findColor(set, "#FFFFFF", models.ContextPageBackground)
	require.NotNil(t, page)

	btn := findColor(set, "#0F79F3", models.ContextButtonBackground)
	require.NotNil(t, btn)
	fg := findColor(set, "#FFFFFF", models.ContextButtonForeground)
	require.NotNil(t, fg, "named color on a button foreground")

	heading := findColor(set, "#111827", models.ContextHeadingText)
	require.NotNil(t, heading)

	body := findColor(set, "#1F2937", models.ContextBodyText)
	require.NotNil(t, body)
	assert.Equal(t, 2, body.Frequency, "body style and rgb() paragraph merge")

	require.NotNil(t, findDimension(set, 8, models.ContextRadius))
	require.NotNil(t, findDimension(set, 16, models.ContextSpacing))
	require.NotNil(t, findDimension(set, 8, models.ContextSpacing))
	require.NotNil(t, findDimension(set, 32, models.ContextFontSize), "2rem is 32px")
}

func TestSampleMinimalRecordsNothing(t *testing.T) {
	res := sampleHTML(t, models.SampleModeMinimal, `<html><head>
		<style>.a { color: red }</style>
		<link rel="stylesheet" href="/theme.css">
	</head><body style="background:#FFF"><p>hi</p></body></html>`)

	assert.Empty(t, res.Set.Observations)
	assert.Equal(t, []string{".a { color: red }"}, res.InlineCSS)
	assert.Equal(t, []string{"https://example.test/theme.css"}, res.LinkedCSS)
}

func TestSampleClassComponentContexts(t *testing.T) {
	res := sampleHTML(t, models.SampleModeInline, `<html><body>
		<div class="badge badge-success" style="background:#EAFBF2;color:#00B69B">ok</div>
		<span class="text-muted" style="color:#6B7280">note</span>
		<div class="card" style="background:#F8FAFC">…</div>
	</body></html>`)

	set := res.Set

	badgeBg := findColor(set, "#EAFBF2", models.ContextBadgeBackground)
	require.NotNil(t, badgeBg)
	assert.Equal(t, models.RoleSuccess, badgeBg.RoleHint)

	badgeFg := findColor(set, "#00B69B", models.ContextBadgeForeground)
	require.NotNil(t, badgeFg)
	assert.Equal(t, models.RoleSuccess, badgeFg.RoleHint)

	require.NotNil(t, findColor(set, "#6B7280", models.ContextMutedText))
	require.NotNil(t, findColor(set, "#F8FAFC", models.ContextSurface))
}

func TestSamplePresentationalAttributes(t *testing.T) {
	res := sampleHTML(t, models.SampleModeFull, `<html>
	<body bgcolor="#FAFAFA"><font color="#333333">old school</font></body></html>`)

	require.NotNil(t, findColor(res.Set, "#FAFAFA", models.ContextPageBackground))
	fg := findColor(res.Set, "#333333", models.ContextUnknown)
	require.NotNil(t, fg, "font tag has no fixed foreground context")
}

func TestSampleTailwindUtilities(t *testing.T) {
	res := sampleHTML(t, models.SampleModeInline, `<html><body>
		<div class="bg-[#1DA1F2] p-4 rounded-lg">tw</div>
	</body></html>`)

	require.NotNil(t, findColor(res.Set, "#1DA1F2", models.ContextSurface))
	require.NotNil(t, findDimension(res.Set, 16, models.ContextSpacing))
	require.NotNil(t, findDimension(res.Set, 8, models.ContextRadius))
}

func TestSampleCollectsFontFamilies(t *testing.T) {
	res := sampleHTML(t, models.SampleModeInline, `<html><body>
		<p style="font-family: 'Inter', system-ui, sans-serif">x</p>
	</body></html>`)

	assert.Equal(t, []string{"'Inter'", "system-ui", "sans-serif"}, res.FontFamilies)
}

func TestSampleRejectsUnparseableValues(t *testing.T) {
	res := sampleHTML(t, models.SampleModeInline, `<html><body>
		<div style="background: var(--surface); color: inherit; padding: 10%"></div>
	</body></html>`)

	assert.Empty(t, res.Set.Observations)
}

func TestExtractColorFromShorthand(t *testing.T) {
	c, ok := ExtractColor("1px solid #CBD5E1")
	require.True(t, ok)
	assert.Equal(t, "#CBD5E1", c.Hex())

	c, ok = ExtractColor("url(bg.png) rgb(250, 250, 250) no-repeat")
	require.True(t, ok)
	assert.Equal(t, "#FAFAFA", c.Hex())

	_, ok = ExtractColor("none")
	assert.False(t, ok)
}
