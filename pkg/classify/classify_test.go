package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themescrape/themescrape/models"
)

func testConfig() models.ResolverConfig {
	return models.DefaultConfig().Resolver
}

func TestIsNeutral(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		hex  string
		want bool
	}{
		{"#FFFFFF", true},
		{"#000000", true},
		{"#FAFAFA", true},
		{"#808080", true},
		{"#F5F4F2", true},  // warm gray, spread 3
		{"#1F2937", true},  // dark slate text reads as gray
		{"#EAFBF2", false}, // pale mint: spread 17, clearly tinted
		{"#00B69B", false},
		{"#64748B", false}, // slate blue, saturation 0.16
		{"#EF4444", false},
		{"#172554", false}, // deep navy keeps enough spread to read as blue
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsNeutral(models.MustHex(tc.hex), cfg), tc.hex)
	}
}

func TestCandidatesAggregate(t *testing.T) {
	set := models.ObservationSet{
		SourceID:    "https://example.com",
		TrustWeight: 2,
		Exact:       true,
	}
	blue := models.MustHex("#0F79F3")
	set.Observations = []models.RawObservation{
		{Kind: models.KindColor, Color: blue, Context: models.ContextButtonBackground, Frequency: 3},
		{Kind: models.KindColor, Color: blue, Context: models.ContextLinkText, Frequency: 2, RoleHint: models.RolePrimary},
		{Kind: models.KindColor, Color: models.MustHex("#FFFFFF"), Context: models.ContextPageBackground, Frequency: 10},
		{Kind: models.KindDimension, Px: 16, Context: models.ContextSpacing, Frequency: 5},
	}

	cands := Candidates(set)
	require.Len(t, cands, 2, "dimension observations never become color candidates")

	// White has the larger support and sorts first.
	white := cands[0]
	assert.Equal(t, "#FFFFFF", white.Color.Hex())
	assert.InDelta(t, 20, white.Support, 0.001)
	assert.InDelta(t, 20, white.BgWeight, 0.001)
	assert.InDelta(t, 20, white.PageWeight, 0.001)
	assert.True(t, white.Exact)

	cand := cands[1]
	assert.Equal(t, "#0F79F3", cand.Color.Hex())
	assert.InDelta(t, 10, cand.Support, 0.001, "trust-scaled frequency total")
	assert.InDelta(t, 6, cand.BgWeight, 0.001)
	assert.InDelta(t, 4, cand.FgWeight, 0.001)
	assert.InDelta(t, 10, cand.Interactive, 0.001)
	assert.InDelta(t, 4, cand.RoleWeight(models.RolePrimary), 0.001)
	assert.Equal(t, []string{"https://example.com"}, cand.Sources)
	assert.Greater(t, cand.Luminance, 0.0)
	assert.Greater(t, cand.Saturation, 0.5)
}

func TestCandidatesDeterministicOrder(t *testing.T) {
	// Same observations in a different order produce the same candidates.
	obs := []models.RawObservation{
		{Kind: models.KindColor, Color: models.MustHex("#AA0000"), Context: models.ContextBodyText, Frequency: 2},
		{Kind: models.KindColor, Color: models.MustHex("#00AA00"), Context: models.ContextBodyText, Frequency: 2},
		{Kind: models.KindColor, Color: models.MustHex("#0000AA"), Context: models.ContextBodyText, Frequency: 2},
	}
	a := models.ObservationSet{SourceID: "s", TrustWeight: 1, Observations: obs}
	b := models.ObservationSet{SourceID: "s", TrustWeight: 1,
		Observations: []models.RawObservation{obs[2], obs[0], obs[1]}}

	ca := Candidates(a)
	cb := Candidates(b)
	require.Equal(t, len(ca), len(cb))
	for i := range ca {
		assert.Equal(t, ca[i].Color, cb[i].Color)
	}
	// Equal support breaks ties on hex order.
	assert.Equal(t, "#0000AA", ca[0].Color.Hex())
	assert.Equal(t, "#00AA00", ca[1].Color.Hex())
	assert.Equal(t, "#AA0000", ca[2].Color.Hex())
}

func TestCandidatesZeroFrequency(t *testing.T) {
	set := models.ObservationSet{
		SourceID:    "s",
		TrustWeight: 1,
		Observations: []models.RawObservation{
			{Kind: models.KindColor, Color: models.MustHex("#123456"), Context: models.ContextBodyText, Frequency: 0},
		},
	}
	cands := Candidates(set)
	require.Len(t, cands, 1)
	assert.InDelta(t, 1, cands[0].Support, 0.001, "zero frequency counts as a single sighting")
}

func TestPartition(t *testing.T) {
	cfg := testConfig()
	set := models.ObservationSet{SourceID: "s", TrustWeight: 1}
	set.AddColor(models.MustHex("#FAFAFA"), models.ContextPageBackground, models.RoleNone)
	set.AddColor(models.MustHex("#1F2937"), models.ContextBodyText, models.RoleNone)
	set.AddColor(models.MustHex("#0F79F3"), models.ContextButtonBackground, models.RoleNone)
	set.AddColor(models.MustHex("#EAFBF2"), models.ContextBadgeBackground, models.RoleNone)

	pools := Partition(Candidates(set), cfg)
	require.Len(t, pools.Neutral, 2)
	require.Len(t, pools.Semantic, 2)
	assert.Len(t, pools.All(), 4)
}
