package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/themescrape/themescrape/models"
)

func TestMapCountsFrequencyWeighted(t *testing.T) {
	set := models.ObservationSet{SourceID: "a"}
	for i := 0; i < 3; i++ {
		set.AddColor(models.MustHex("#0F79F3"), models.ContextButtonBackground, models.RoleNone)
	}
	set.AddColor(models.MustHex("#0F79F3"), models.ContextLinkText, models.RoleNone)
	set.AddColor(models.MustHex("#FFFFFF"), models.ContextPageBackground, models.RoleNone)
	set.AddDimension(16, models.ContextSpacing)

	counts := Map(set)
	assert.Equal(t, map[string]int{"#0F79F3": 4, "#FFFFFF": 1}, counts)
}

func TestReduceAggregates(t *testing.T) {
	got := Reduce([]map[string]int{
		{"#0F79F3": 4, "#FFFFFF": 1},
		{"#0F79F3": 2, "#DC2626": 3},
	})
	assert.Equal(t, map[string]int{"#0F79F3": 6, "#FFFFFF": 1, "#DC2626": 3}, got)
}

func TestTopSwatchesOrderAndTies(t *testing.T) {
	counts := map[string]int{
		"#0F79F3": 6,
		"#DC2626": 3,
		"#22C55E": 3,
		"#FFFFFF": 1,
	}
	got := TopSwatches(counts, 3)
	assert.Equal(t, []string{"#0F79F3:6", "#22C55E:3", "#DC2626:3"}, got,
		"equal counts order by hex")

	assert.Len(t, TopSwatches(counts, 10), 4)
}

func TestHueHistogram(t *testing.T) {
	counts := map[string]int{
		"#FF0000": 2, // red
		"#0000FF": 1, // blue
		"#808080": 5, // gray
		"#22C55E": 1, // green
	}
	hist := HueHistogram(counts)
	assert.Equal(t, 2, hist["red"])
	assert.Equal(t, 1, hist["blue"])
	assert.Equal(t, 5, hist["neutral"])
	assert.Equal(t, 1, hist["green"])
}

func TestSummarize(t *testing.T) {
	a := models.ObservationSet{SourceID: "a"}
	a.AddColor(models.MustHex("#0F79F3"), models.ContextButtonBackground, models.RoleNone)
	a.AddColor(models.MustHex("#FFFFFF"), models.ContextPageBackground, models.RoleNone)
	b := models.ObservationSet{SourceID: "b"}
	b.AddColor(models.MustHex("#0F79F3"), models.ContextButtonBackground, models.RoleNone)

	sum := Summarize([]models.ObservationSet{a, b})
	assert.Equal(t, 2, sum.Sources)
	assert.Equal(t, 3, sum.ColorSightings)
	assert.Equal(t, 2, sum.DistinctColors)
	assert.Equal(t, "#0F79F3:2", sum.TopSwatches[0])
}
