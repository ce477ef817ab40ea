package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themescrape/themescrape/models"
)

func TestParseStrategyEmpty(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, 0, s.MinFrequency)
	assert.Nil(t, s.Kinds)
	assert.Nil(t, s.Contexts)
	assert.Nil(t, s.Roles)
}

func TestParseStrategyFull(t *testing.T) {
	s, err := ParseStrategy("kind:color,context:button-background|link-text,role:primary|danger,freq:>=2")
	require.NoError(t, err)

	assert.Equal(t, 2, s.MinFrequency)
	assert.Contains(t, s.Kinds, models.KindColor)
	assert.NotContains(t, s.Kinds, models.KindDimension)
	assert.Contains(t, s.Contexts, models.ContextButtonBackground)
	assert.Contains(t, s.Contexts, models.ContextLinkText)
	assert.Contains(t, s.Roles, models.RolePrimary)
	assert.Contains(t, s.Roles, models.RoleDanger)
}

func TestParseStrategyErrors(t *testing.T) {
	cases := []string{
		"nonsense",
		"conf:>=0.7",
		"freq:2",
		"freq:>=two",
		"kind:flavor",
		"context:navbar",
		"role:hero",
	}
	for _, c := range cases {
		_, err := ParseStrategy(c)
		assert.Error(t, err, c)
	}
}

func TestApplyFilters(t *testing.T) {
	set := models.ObservationSet{SourceID: "https://example.test"}
	set.AddColor(models.MustHex("#0F79F3"), models.ContextButtonBackground, models.RoleNone)
	set.AddColor(models.MustHex("#0F79F3"), models.ContextButtonBackground, models.RoleNone)
	set.AddColor(models.MustHex("#DC2626"), models.ContextBadgeBackground, models.RoleDanger)
	set.AddDimension(16, models.ContextSpacing)

	s, err := ParseStrategy("kind:color")
	require.NoError(t, err)
	got := Apply(set, s)
	assert.Len(t, got.Observations, 2)
	assert.Equal(t, "https://example.test", got.SourceID)

	s, err = ParseStrategy("freq:>=2")
	require.NoError(t, err)
	got = Apply(set, s)
	require.Len(t, got.Observations, 1)
	assert.Equal(t, models.MustHex("#0F79F3"), got.Observations[0].Color)

	s, err = ParseStrategy("role:danger")
	require.NoError(t, err)
	got = Apply(set, s)
	require.Len(t, got.Observations, 1)
	assert.Equal(t, models.RoleDanger, got.Observations[0].RoleHint)

	// The source set is untouched.
	assert.Len(t, set.Observations, 3)
}

func TestApplyAllDropsEmptySets(t *testing.T) {
	a := models.ObservationSet{SourceID: "a"}
	a.AddColor(models.MustHex("#FFFFFF"), models.ContextPageBackground, models.RoleNone)
	b := models.ObservationSet{SourceID: "b"}
	b.AddDimension(8, models.ContextRadius)

	s, err := ParseStrategy("kind:color")
	require.NoError(t, err)

	got := ApplyAll([]models.ObservationSet{a, b}, s)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].SourceID)
}

func TestApplyNilStrategyPassesEverything(t *testing.T) {
	set := models.ObservationSet{SourceID: "a"}
	set.AddColor(models.MustHex("#FFFFFF"), models.ContextPageBackground, models.RoleNone)

	got := Apply(set, nil)
	assert.Len(t, got.Observations, 1)
}
