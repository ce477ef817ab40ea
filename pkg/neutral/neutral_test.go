package neutral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/classify"
	"github.com/themescrape/themescrape/pkg/colormath"
	"github.com/themescrape/themescrape/pkg/merge"
)

func testConfig() models.ResolverConfig {
	return models.DefaultConfig().Resolver
}

func poolsFrom(t *testing.T, set models.ObservationSet) classify.Pools {
	t.Helper()
	return classify.Partition(merge.Pool([]models.ObservationSet{set}), testConfig())
}

func assertStrictlyDarkening(t *testing.T, s Scale) {
	t.Helper()
	prev := colormath.Luminance(s.Steps[0])
	for i := 1; i < Steps; i++ {
		cur := colormath.Luminance(s.Steps[i])
		require.Less(t, cur, prev, "step %s must be darker than step %s", StepNames[i], StepNames[i-1])
		prev = cur
	}
}

func TestSynthesizeFromSparseAnchors(t *testing.T) {
	// Page backgrounds cluster near white; the only dark value is text.
	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	set.AddColor(models.MustHex("#FFFFFF"), models.ContextPageBackground, models.RoleNone)
	set.AddColor(models.MustHex("#FAFAFA"), models.ContextSurface, models.RoleNone)
	set.AddColor(models.MustHex("#F2F2F2"), models.ContextSurface, models.RoleNone)
	set.AddColor(models.MustHex("#1F2937"), models.ContextBodyText, models.RoleNone)

	scale, diags := Synthesize(poolsFrom(t, set), testConfig())

	assert.Empty(t, diags)
	assert.True(t, scale.Synthesized)
	assert.False(t, scale.Fallback)

	assert.GreaterOrEqual(t, colormath.Luminance(scale.Lightest()), 245.0)
	assert.LessOrEqual(t, colormath.Luminance(scale.Darkest()), 60.0)
	spread := colormath.Luminance(scale.Lightest()) - colormath.Luminance(scale.Darkest())
	assert.Greater(t, spread, 180.0)

	assertStrictlyDarkening(t, scale)
}

func TestObservedRampSnapsCandidates(t *testing.T) {
	// A real gray ramp: wide spread, many bands. Observed values are
	// snapped instead of resynthesized.
	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	ramp := []string{"#FFFFFF", "#E5E5E5", "#A3A3A3", "#737373", "#404040", "#171717"}
	for _, hex := range ramp {
		set.AddColor(models.MustHex(hex), models.ContextSurface, models.RoleNone)
	}
	set.AddColor(models.MustHex("#171717"), models.ContextBodyText, models.RoleNone)

	scale, diags := Synthesize(poolsFrom(t, set), testConfig())

	assert.Empty(t, diags)
	assert.False(t, scale.Synthesized)
	assert.Equal(t, "#FFFFFF", scale.Lightest().Hex())
	assert.Equal(t, "#171717", scale.Darkest().Hex())
	assertStrictlyDarkening(t, scale)
}

func TestSynthesizeNoCandidates(t *testing.T) {
	scale, diags := Synthesize(classify.Pools{}, testConfig())

	require.Len(t, diags, 1)
	assert.Equal(t, models.DiagScaleSynthesis, diags[0].Code)
	assert.True(t, scale.Fallback)
	assert.Equal(t, "#FAFAFA", scale.Lightest().Hex())
	assert.Equal(t, "#171717", scale.Darkest().Hex())
	assertStrictlyDarkening(t, scale)
}

func TestSynthesizeAnchorsTooClose(t *testing.T) {
	// Everything observed sits in a narrow light band; no text color.
	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	set.AddColor(models.MustHex("#FFFFFF"), models.ContextPageBackground, models.RoleNone)
	set.AddColor(models.MustHex("#F7F7F7"), models.ContextSurface, models.RoleNone)

	scale, diags := Synthesize(poolsFrom(t, set), testConfig())

	require.Len(t, diags, 1)
	assert.Equal(t, models.DiagScaleSynthesis, diags[0].Code)
	assert.True(t, scale.Fallback)
	assertStrictlyDarkening(t, scale)
}

func TestSynthesizeLinearRGB(t *testing.T) {
	cfg := testConfig()
	cfg.Interpolation = models.InterpolationLinearRGB

	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	set.AddColor(models.MustHex("#FFFFFF"), models.ContextPageBackground, models.RoleNone)
	set.AddColor(models.MustHex("#1F2937"), models.ContextBodyText, models.RoleNone)

	pools := classify.Partition(merge.Pool([]models.ObservationSet{set}), cfg)
	scale, diags := Synthesize(pools, cfg)

	assert.Empty(t, diags)
	assert.True(t, scale.Synthesized)
	assertStrictlyDarkening(t, scale)
	// Linear midpoints sit exactly between the anchors channel-wise.
	mid := scale.Steps[5]
	want := colormath.Mix(models.MustHex("#FFFFFF"), models.MustHex("#1F2937"), 5.0/9.0)
	assert.Equal(t, want, mid)
}

func TestFallbackRampIsStrict(t *testing.T) {
	assertStrictlyDarkening(t, Scale{Steps: fallbackRamp})
}
