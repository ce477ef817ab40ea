// Package texthier normalizes observed text colors into exactly four
// levels, text-0 through text-3, ordered darkest to lightest purely by
// luminance. Sampler labels (heading vs body vs muted) never override
// the luminance ordering; a page whose "muted" color is darker than
// its "body" color still comes out correctly ranked.
package texthier

import (
	"math"
	"sort"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/classify"
	"github.com/themescrape/themescrape/pkg/colormath"
	"github.com/themescrape/themescrape/pkg/neutral"
)

// Levels is the fixed size of the hierarchy.
const Levels = 4

// Text colors closer than this in luminance collapse into one level.
const minLevelGap = 6

// Hierarchy is the normalized result. Observed marks levels backed by
// a sampled color rather than synthesized to fill the ladder.
type Hierarchy struct {
	Colors   [Levels]models.RGB
	Observed [Levels]bool
}

// Normalize builds the hierarchy from every candidate that carried
// text usage, regardless of which pool classification put it in.
// Missing levels are synthesized by lightening the last observed color
// toward the scale's mid tones; with no text at all the ladder comes
// straight from the dark end of the scale.
func Normalize(pools classify.Pools, scale neutral.Scale, cfg models.ResolverConfig) Hierarchy {
	var texts []models.ColorCandidate
	for _, c := range pools.All() {
		if c.TextWeight > 0 {
			texts = append(texts, c)
		}
	}
	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].Luminance != texts[j].Luminance {
			return texts[i].Luminance < texts[j].Luminance
		}
		return texts[i].Color.Hex() < texts[j].Color.Hex()
	})

	var h Hierarchy
	n := 0
	lastLum := math.Inf(-1)
	for _, c := range texts {
		if n == Levels {
			break
		}
		if c.Luminance-lastLum < minLevelGap {
			continue
		}
		h.Colors[n] = c.Color
		h.Observed[n] = true
		lastLum = c.Luminance
		n++
	}

	if n == 0 {
		// No text observed anywhere: rank the scale's dark steps.
		h.Colors[0] = scale.Steps[9]
		h.Colors[1] = scale.Steps[7]
		h.Colors[2] = scale.Steps[6]
		h.Colors[3] = scale.Steps[5]
		return h
	}

	if n < Levels {
		fill(&h, n, scale)
	}
	return h
}

// fill synthesizes the missing light levels above the last observed
// color, spacing them evenly up to the scale's step-400 luminance.
func fill(h *Hierarchy, n int, scale neutral.Scale) {
	last := h.Colors[n-1]
	lastLum := colormath.Luminance(last)
	missing := Levels - n

	ceiling := colormath.Luminance(scale.Steps[4])
	// Guarantee room for strictly ascending synthesized levels even
	// when the observed text already sits near the ceiling.
	if need := lastLum + 2*minLevelGap*float64(missing); ceiling < need {
		ceiling = need
	}
	if ceiling > 255 {
		ceiling = 255
	}

	if ceiling-lastLum >= minLevelGap*float64(missing) {
		for k := 1; k <= missing; k++ {
			target := lastLum + float64(k)*(ceiling-lastLum)/float64(missing)
			h.Colors[n-1+k] = colormath.TowardLuminance(last, target)
		}
		return
	}

	// The observed text already sits at the white end, as on dark
	// themes. Grow the ladder downward instead, keeping the observed
	// colors in the lightest slots.
	first := h.Colors[0]
	firstLum := colormath.Luminance(first)
	copy(h.Colors[missing:], h.Colors[:n])
	copy(h.Observed[missing:], h.Observed[:n])
	floor := firstLum - 2*minLevelGap*float64(missing)
	if floor < 0 {
		floor = 0
	}
	for i := 0; i < missing; i++ {
		target := floor + float64(i)*(firstLum-floor)/float64(missing)
		h.Colors[i] = colormath.TowardLuminance(first, target)
		h.Observed[i] = false
	}
}
