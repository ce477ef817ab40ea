package texthier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/classify"
	"github.com/themescrape/themescrape/pkg/colormath"
	"github.com/themescrape/themescrape/pkg/merge"
	"github.com/themescrape/themescrape/pkg/neutral"
)

func testConfig() models.ResolverConfig {
	return models.DefaultConfig().Resolver
}

func fallbackScale(t *testing.T) neutral.Scale {
	t.Helper()
	scale, _ := neutral.Synthesize(classify.Pools{}, testConfig())
	require.True(t, scale.Fallback)
	return scale
}

func poolsOf(sets ...models.ObservationSet) classify.Pools {
	return classify.Partition(merge.Pool(sets), testConfig())
}

func assertAscending(t *testing.T, h Hierarchy) {
	t.Helper()
	prev := colormath.Luminance(h.Colors[0])
	for i := 1; i < Levels; i++ {
		lum := colormath.Luminance(h.Colors[i])
		assert.Greater(t, lum, prev, "level %d must be lighter than level %d", i, i-1)
		prev = lum
	}
}

func TestNormalizeFullLadderObserved(t *testing.T) {
	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	set.AddColor(models.MustHex("#6B7280"), models.ContextMutedText, models.RoleNone)
	set.AddColor(models.MustHex("#111827"), models.ContextHeadingText, models.RoleNone)
	set.AddColor(models.MustHex("#9CA3AF"), models.ContextMutedText, models.RoleNone)
	set.AddColor(models.MustHex("#374151"), models.ContextBodyText, models.RoleNone)

	h := Normalize(poolsOf(set), fallbackScale(t), testConfig())

	want := []string{"#111827", "#374151", "#6B7280", "#9CA3AF"}
	for i, hex := range want {
		assert.Equal(t, hex, h.Colors[i].Hex(), "level %d", i)
		assert.True(t, h.Observed[i])
	}
	assertAscending(t, h)
}

func TestNormalizeCollapsesNearDuplicates(t *testing.T) {
	// #202A38 sits about one luminance unit above #1F2937 and must
	// collapse into the same level instead of occupying its own.
	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	set.AddColor(models.MustHex("#1F2937"), models.ContextBodyText, models.RoleNone)
	set.AddColor(models.MustHex("#202A38"), models.ContextBodyText, models.RoleNone)
	set.AddColor(models.MustHex("#6B7280"), models.ContextMutedText, models.RoleNone)

	h := Normalize(poolsOf(set), fallbackScale(t), testConfig())

	assert.Equal(t, "#1F2937", h.Colors[0].Hex())
	assert.Equal(t, "#6B7280", h.Colors[1].Hex())
	assert.Equal(t, [Levels]bool{true, true, false, false}, h.Observed)
	assertAscending(t, h)
}

func TestNormalizeSynthesizesMissingLightLevels(t *testing.T) {
	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	set.AddColor(models.MustHex("#1F2937"), models.ContextBodyText, models.RoleNone)

	scale := fallbackScale(t)
	h := Normalize(poolsOf(set), scale, testConfig())

	assert.Equal(t, "#1F2937", h.Colors[0].Hex())
	assert.Equal(t, [Levels]bool{true, false, false, false}, h.Observed)
	// Synthesized levels climb evenly toward the scale's step-400
	// luminance and the last one lands on it.
	ceiling := colormath.Luminance(scale.Steps[4])
	assert.InDelta(t, ceiling, colormath.Luminance(h.Colors[3]), 1.5)
	assertAscending(t, h)
}

func TestNormalizeWithoutTextUsesScaleDarks(t *testing.T) {
	scale := fallbackScale(t)
	h := Normalize(classify.Pools{}, scale, testConfig())

	assert.Equal(t, scale.Steps[9], h.Colors[0])
	assert.Equal(t, scale.Steps[7], h.Colors[1])
	assert.Equal(t, scale.Steps[6], h.Colors[2])
	assert.Equal(t, scale.Steps[5], h.Colors[3])
	assert.Equal(t, [Levels]bool{false, false, false, false}, h.Observed)
	assertAscending(t, h)
}

func TestNormalizeOrdersByLuminanceNotLabel(t *testing.T) {
	// The sampler tagged the lighter gray as heading text and the
	// darker one as muted. Luminance ordering wins over the labels.
	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	for i := 0; i < 10; i++ {
		set.AddColor(models.MustHex("#919AA3"), models.ContextHeadingText, models.RoleNone)
	}
	set.AddColor(models.MustHex("#475569"), models.ContextMutedText, models.RoleNone)

	h := Normalize(poolsOf(set), fallbackScale(t), testConfig())

	assert.Equal(t, "#475569", h.Colors[0].Hex())
	assert.Equal(t, "#919AA3", h.Colors[1].Hex())
	assert.Equal(t, [Levels]bool{true, true, false, false}, h.Observed)
	assertAscending(t, h)
}

func TestNormalizeLightTextGrowsDownward(t *testing.T) {
	// Dark-theme page: the only observed text is near white, so there
	// is no headroom above it. The ladder extends toward darker tones
	// and the observed color keeps the lightest slot.
	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	set.AddColor(models.MustHex("#F9FAFB"), models.ContextBodyText, models.RoleNone)

	h := Normalize(poolsOf(set), fallbackScale(t), testConfig())

	assert.Equal(t, "#F9FAFB", h.Colors[3].Hex())
	assert.Equal(t, [Levels]bool{false, false, false, true}, h.Observed)
	assertAscending(t, h)
}
