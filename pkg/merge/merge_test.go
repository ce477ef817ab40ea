package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themescrape/themescrape/models"
)

func setWith(source string, trust float64, exact bool, hex string, ctx models.Context, freq int) models.ObservationSet {
	return models.ObservationSet{
		SourceID:    source,
		TrustWeight: trust,
		Exact:       exact,
		Observations: []models.RawObservation{
			{Kind: models.KindColor, Color: models.MustHex(hex), Context: ctx, Frequency: freq},
		},
	}
}

func TestPoolCombinesAcrossSources(t *testing.T) {
	a := setWith("https://a.test", 1, false, "#0F79F3", models.ContextButtonBackground, 4)
	b := setWith("https://b.test", 2, true, "#0F79F3", models.ContextLinkText, 3)

	pool := Pool([]models.ObservationSet{a, b})
	require.Len(t, pool, 1)

	cand := pool[0]
	assert.InDelta(t, 10, cand.Support, 0.001, "4*1 + 3*2")
	assert.ElementsMatch(t, []string{"https://a.test", "https://b.test"}, cand.Sources)
	assert.True(t, cand.Exact, "any exact source marks the merged candidate exact")
	assert.InDelta(t, 4, cand.BgWeight, 0.001)
	assert.InDelta(t, 6, cand.FgWeight, 0.001)
}

func TestPoolKeepsDistinctColors(t *testing.T) {
	a := setWith("a", 1, false, "#0F79F3", models.ContextButtonBackground, 1)
	b := setWith("b", 1, false, "#0F79F5", models.ContextButtonBackground, 5)

	pool := Pool([]models.ObservationSet{a, b})
	require.Len(t, pool, 2, "near-identical colors stay separate candidates")
	assert.Equal(t, "#0F79F5", pool[0].Color.Hex(), "higher support first")
}

func TestAgreementUsesTolerance(t *testing.T) {
	a := setWith("a", 1, false, "#0F79F3", models.ContextButtonBackground, 1)
	b := setWith("b", 1, false, "#0F79F5", models.ContextButtonBackground, 1)
	c := setWith("c", 1, false, "#EF4444", models.ContextBadgeBackground, 1)
	pool := Pool([]models.ObservationSet{a, b, c})

	// #0F79F3 and #0F79F5 are two units apart: both sources agree.
	assert.Equal(t, 2, Agreement(pool, models.MustHex("#0F79F3"), 20))
	assert.Equal(t, 1, Agreement(pool, models.MustHex("#EF4444"), 20))
	assert.Equal(t, 0, Agreement(pool, models.MustHex("#00FF00"), 20))
}

func TestConfidence(t *testing.T) {
	cfg := models.DefaultConfig().Resolver

	a := setWith("a", 1, false, "#0F79F3", models.ContextButtonBackground, 1)
	b := setWith("b", 1, false, "#0F79F4", models.ContextButtonBackground, 1)

	single := Pool([]models.ObservationSet{a})
	assert.InDelta(t, 0.5, Confidence(single, models.MustHex("#0F79F3"), 1, cfg), 0.001)

	both := Pool([]models.ObservationSet{a, b})
	assert.InDelta(t, 1.0, Confidence(both, models.MustHex("#0F79F3"), 2, cfg), 0.001)

	// Nothing backs an unseen color.
	assert.InDelta(t, 0, Confidence(both, models.MustHex("#00FF00"), 2, cfg), 0.001)
}

func TestConfidenceMonotonicUnderAgreement(t *testing.T) {
	// Adding an agreeing source never lowers confidence.
	cfg := models.DefaultConfig().Resolver
	target := models.MustHex("#0F79F3")

	sets := []models.ObservationSet{
		setWith("a", 1, false, "#0F79F3", models.ContextButtonBackground, 1),
	}
	prev := Confidence(Pool(sets), target, len(sets), cfg)

	for i, src := range []string{"b", "c", "d"} {
		sets = append(sets, setWith(src, 1, false, "#0F79F3", models.ContextButtonBackground, 1))
		cur := Confidence(Pool(sets), target, len(sets), cfg)
		assert.GreaterOrEqual(t, cur, prev, "after adding source %d", i+2)
		prev = cur
	}
	assert.InDelta(t, 1.0, prev, 0.001)
}

func TestDimensionConfidence(t *testing.T) {
	cfg := models.DefaultConfig().Resolver
	assert.InDelta(t, 0, DimensionConfidence(0, 3, cfg), 0.001)
	assert.InDelta(t, 0.5, DimensionConfidence(1, 1, cfg), 0.001)
	assert.InDelta(t, 2.0/3.0, DimensionConfidence(2, 3, cfg), 0.001)
}
