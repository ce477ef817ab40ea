package compile

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/classify"
	"github.com/themescrape/themescrape/pkg/colormath"
	"github.com/themescrape/themescrape/pkg/merge"
	"github.com/themescrape/themescrape/pkg/neutral"
	"github.com/themescrape/themescrape/pkg/semantic"
	"github.com/themescrape/themescrape/pkg/spacing"
	"github.com/themescrape/themescrape/pkg/texthier"
	"github.com/themescrape/themescrape/pkg/typography"
)

func testOptions() models.ResolveOptions {
	return models.DefaultConfig().Options()
}

// fallbackInputs builds a complete Inputs where nothing was observed:
// every role on its builtin base, the builtin ramp, default spacing.
func fallbackInputs() Inputs {
	var roles []semantic.Resolution
	for _, role := range models.Roles() {
		roles = append(roles, semantic.Resolution{
			Role:     role,
			Base:     semantic.FallbackBase(role),
			Fallback: true,
			Method:   "fallback",
		})
	}

	scale, _ := neutral.Synthesize(classify.Pools{}, testOptions().Resolver)

	var text texthier.Hierarchy
	text.Colors[0] = scale.Steps[9]
	text.Colors[1] = scale.Steps[7]
	text.Colors[2] = scale.Steps[6]
	text.Colors[3] = scale.Steps[5]

	return Inputs{
		Roles:   roles,
		Scale:   scale,
		Text:    text,
		Spacing: spacing.Resolve(nil),
		Family:  typography.Resolve(nil),
		Options: testOptions(),
	}
}

func TestStateColorDerivationTable(t *testing.T) {
	d := models.DefaultConfig().Derive
	base := models.MustHex("#0F79F3")

	assert.Equal(t, colormath.Darken(base, 10), StateColor(base, "hover", d))
	assert.Equal(t, colormath.Darken(base, 20), StateColor(base, "active", d))
	assert.Equal(t, colormath.Lighten(base, 60), StateColor(base, "disabled", d))
	assert.Equal(t, colormath.Lighten(base, 88), StateColor(base, "light", d))
	assert.Equal(t, colormath.Lighten(base, 82), StateColor(base, "light-hover", d))
	assert.Equal(t, colormath.Lighten(base, 75), StateColor(base, "light-active", d))
	assert.Equal(t, base, StateColor(base, "unknown", d))
}

func TestBuildEmitsEveryRoleState(t *testing.T) {
	tokens := Build(fallbackInputs())

	for _, role := range models.Roles() {
		name := "color-" + string(role)
		base, ok := tokens.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, semantic.FallbackBase(role).Hex(), base.Value)
		assert.Zero(t, base.Confidence, "fallback roles carry zero confidence")

		for _, suffix := range StateSuffixes {
			state, ok := tokens.Get(name + "-" + suffix)
			require.True(t, ok, name+"-"+suffix)
			want := StateColor(semantic.FallbackBase(role), suffix, testOptions().Derive)
			assert.Equal(t, want.Hex(), state.Value)
		}
	}
}

func TestBuildScaleSlices(t *testing.T) {
	in := fallbackInputs()
	tokens := Build(in)

	// Backgrounds take the five lightest steps, fills the next three.
	for i := 0; i < 5; i++ {
		tok, ok := tokens.Get("color-bg-" + strconv.Itoa(i))
		require.True(t, ok)
		assert.Equal(t, in.Scale.Steps[i].Hex(), tok.Value)
		assert.Zero(t, tok.Confidence, "fallback ramp scores zero")
	}
	for i := 0; i < 3; i++ {
		tok, ok := tokens.Get("color-fill-" + strconv.Itoa(i))
		require.True(t, ok)
		assert.Equal(t, in.Scale.Steps[5+i].Hex(), tok.Value)
	}
}

func TestBuildDimensionTokens(t *testing.T) {
	in := fallbackInputs()
	in.Spacing = spacing.Result{
		BasePx: 16, Unit: 4, RadiusPx: 8, FontPx: 16,
		BaseObserved: true, RadiusObserved: true, FontObserved: true,
		BaseAgree: 1, RadiusAgree: 1, FontAgree: 1,
	}
	in.Sources = 1

	tokens := Build(in)

	expect := map[string]string{
		"spacing-base":   "16px",
		"spacing-xs":     "4px",
		"spacing-sm":     "8px",
		"spacing-md":     "16px",
		"spacing-lg":     "24px",
		"spacing-xl":     "32px",
		"radius-base":    "8px",
		"font-size-base": "16px",
	}
	for name, want := range expect {
		tok, ok := tokens.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, want, tok.Value, name)
		assert.Equal(t, models.KindDimension, tok.Kind)
		assert.InDelta(t, 0.5, tok.Confidence, 0.001, "single source floor")
	}
}

func TestBuildObservedRoleConfidence(t *testing.T) {
	blue := models.MustHex("#0F79F3")

	set := models.ObservationSet{SourceID: "a", TrustWeight: 1}
	set.AddColor(blue, models.ContextButtonBackground, models.RoleNone)
	other := models.ObservationSet{SourceID: "b", TrustWeight: 1}
	other.AddColor(blue, models.ContextButtonBackground, models.RoleNone)

	in := fallbackInputs()
	in.Roles[0] = semantic.Resolution{Role: models.RolePrimary, Base: blue, Method: "interactive"}
	in.Pool = merge.Pool([]models.ObservationSet{set, other})
	in.Sources = 2

	tokens := Build(in)

	primary, _ := tokens.Get("color-primary")
	assert.Equal(t, "#0F79F3", primary.Value)
	assert.InDelta(t, 1.0, primary.Confidence, 0.001, "both sources agree")

	// Derived states inherit the base confidence.
	hover, _ := tokens.Get("color-primary-hover")
	assert.InDelta(t, 1.0, hover.Confidence, 0.001)
}

func TestBuildFontFamilyToken(t *testing.T) {
	in := fallbackInputs()
	in.Family = typography.Result{
		Family:   `"Inter", system-ui, sans-serif`,
		Primary:  "Inter",
		Observed: true,
		Agree:    1,
	}
	in.Sources = 1

	tokens := Build(in)

	family, ok := tokens.Get("font-family-base")
	require.True(t, ok)
	assert.Equal(t, models.KindFont, family.Kind)
	assert.Equal(t, `"Inter", system-ui, sans-serif`, family.Value)
	assert.InDelta(t, 0.5, family.Confidence, 0.001)
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(fallbackInputs())
	b := Build(fallbackInputs())
	assert.Equal(t, a.Tokens, b.Tokens)
}
