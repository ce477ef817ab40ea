// Package analytics summarizes what a scrape saw before resolution:
// how many distinct colors, where their hues cluster, which swatches
// dominate. Sources are counted independently and aggregated
// map/reduce style so a whole session summarizes in one pass.
package analytics

import (
	"fmt"
	"sort"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/colormath"
)

// Summary is the aggregate view of a set of sources.
type Summary struct {
	Sources        int            `json:"sources" yaml:"sources"`
	ColorSightings int            `json:"color_sightings" yaml:"color_sightings"`
	DistinctColors int            `json:"distinct_colors" yaml:"distinct_colors"`
	TopSwatches    []string       `json:"top_swatches,omitempty" yaml:"top_swatches,omitempty"`
	HueHistogram   map[string]int `json:"hue_histogram,omitempty" yaml:"hue_histogram,omitempty"`
}

// Map counts one source's color sightings by hex, frequency-weighted.
func Map(set models.ObservationSet) map[string]int {
	counts := make(map[string]int)
	for _, o := range set.Observations {
		if o.Kind != models.KindColor {
			continue
		}
		counts[o.Color.Hex()] += o.Frequency
	}
	return counts
}

// Reduce aggregates per-source color counts into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	final := make(map[string]int)
	for _, counts := range intermediate {
		for hex, count := range counts {
			final[hex] += count
		}
	}
	return final
}

// TopSwatches returns the n most sighted colors as "#RRGGBB:count"
// strings. Ties break on hex so the order is stable.
func TopSwatches(counts map[string]int, n int) []string {
	type kv struct {
		Hex   string
		Count int
	}

	ss := make([]kv, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, kv{k, v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Hex < ss[j].Hex
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}

	swatches := make([]string, limit)
	for i := 0; i < limit; i++ {
		swatches[i] = fmt.Sprintf("%s:%d", ss[i].Hex, ss[i].Count)
	}
	return swatches
}

// Low-saturation colors land in the neutral bucket instead of a hue band.
const neutralSaturation = 0.12

// HueHistogram buckets color counts into named hue bands.
func HueHistogram(counts map[string]int) map[string]int {
	hist := make(map[string]int)
	for hex, count := range counts {
		c, err := models.ParseHex(hex)
		if err != nil {
			continue
		}
		hist[hueBand(c)] += count
	}
	return hist
}

func hueBand(c models.RGB) string {
	if colormath.Saturation(c) < neutralSaturation {
		return "neutral"
	}
	h := colormath.Hue(c)
	switch {
	case h < 15 || h >= 345:
		return "red"
	case h < 45:
		return "orange"
	case h < 75:
		return "yellow"
	case h < 165:
		return "green"
	case h < 195:
		return "cyan"
	case h < 255:
		return "blue"
	case h < 285:
		return "purple"
	default:
		return "magenta"
	}
}

// TopSwatchCount is how many swatches a summary lists.
const TopSwatchCount = 12

// Summarize runs the full map/reduce pass over every source.
func Summarize(sets []models.ObservationSet) Summary {
	intermediate := make([]map[string]int, 0, len(sets))
	for _, set := range sets {
		intermediate = append(intermediate, Map(set))
	}
	counts := Reduce(intermediate)

	sightings := 0
	for _, count := range counts {
		sightings += count
	}

	return Summary{
		Sources:        len(sets),
		ColorSightings: sightings,
		DistinctColors: len(counts),
		TopSwatches:    TopSwatches(counts, TopSwatchCount),
		HueHistogram:   HueHistogram(counts),
	}
}
