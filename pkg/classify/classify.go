// Package classify turns raw observations into aggregated color
// candidates and partitions them into neutral and semantic pools.
package classify

import (
	"sort"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/colormath"
)

// Pools holds the partitioned candidate sets. Neutral candidates feed
// scale synthesis; semantic candidates feed role resolution. Both keep
// their incoming support order.
type Pools struct {
	Neutral  []models.ColorCandidate
	Semantic []models.ColorCandidate
}

// All returns the union of both pools, neutrals first.
func (p Pools) All() []models.ColorCandidate {
	out := make([]models.ColorCandidate, 0, len(p.Neutral)+len(p.Semantic))
	out = append(out, p.Neutral...)
	out = append(out, p.Semantic...)
	return out
}

// IsNeutral reports whether c reads as a gray. Low HSL saturation is
// the primary signal, but saturation inflates near white and black, so
// a tight channel spread also qualifies regardless of saturation.
// Below luminance 64 the spread gate widens: dark colors need a much
// larger channel spread before they read as colored, and slate-tinted
// body text must land in the neutral pool, not the brand pool.
func IsNeutral(c models.RGB, cfg models.ResolverConfig) bool {
	spread := colormath.ChannelSpread(c)
	if spread <= cfg.NeutralChannelSpread {
		return true
	}
	if colormath.Luminance(c) < 64 && spread <= 3*cfg.NeutralChannelSpread {
		return true
	}
	return colormath.Saturation(c) < cfg.NeutralSaturationMax
}

// Candidates aggregates one set's color observations into candidates.
// Observations sharing an exact RGB value collapse into one candidate;
// frequencies are scaled by the set's trust weight on the way in.
// Luminance, saturation and hue are computed here, once.
func Candidates(set models.ObservationSet) []models.ColorCandidate {
	trust := set.TrustWeight
	if trust <= 0 {
		trust = 1
	}

	byColor := make(map[models.RGB]*models.ColorCandidate)
	order := make([]models.RGB, 0, len(set.Observations))

	for _, o := range set.Observations {
		if o.Kind != models.KindColor {
			continue
		}
		freq := o.Frequency
		if freq <= 0 {
			freq = 1
		}
		w := float64(freq) * trust

		cand, ok := byColor[o.Color]
		if !ok {
			cand = &models.ColorCandidate{
				Color:      o.Color,
				Luminance:  colormath.Luminance(o.Color),
				Saturation: colormath.Saturation(o.Color),
				Hue:        colormath.Hue(o.Color),
				Sources:    []string{set.SourceID},
				Exact:      set.Exact,
			}
			byColor[o.Color] = cand
			order = append(order, o.Color)
		}

		cand.Support += w
		switch o.Context.Usage() {
		case models.UsageBackground:
			cand.BgWeight += w
		case models.UsageForeground:
			cand.FgWeight += w
		case models.UsageBorder:
			cand.BorderWeight += w
		}
		if o.Context.Text() {
			cand.TextWeight += w
		}
		if o.Context.Interactive() {
			cand.Interactive += w
		}
		if o.Context == models.ContextPageBackground {
			cand.PageWeight += w
		}
		if o.RoleHint != models.RoleNone {
			if cand.RoleWeights == nil {
				cand.RoleWeights = make(map[models.Role]float64)
			}
			cand.RoleWeights[o.RoleHint] += w
		}
	}

	out := make([]models.ColorCandidate, 0, len(order))
	for _, c := range order {
		out = append(out, *byColor[c])
	}
	SortBySupport(out)
	return out
}

// Partition splits candidates into neutral and semantic pools,
// preserving relative order within each pool.
func Partition(pool []models.ColorCandidate, cfg models.ResolverConfig) Pools {
	var p Pools
	for _, cand := range pool {
		if IsNeutral(cand.Color, cfg) {
			p.Neutral = append(p.Neutral, cand)
		} else {
			p.Semantic = append(p.Semantic, cand)
		}
	}
	return p
}

// SortBySupport orders candidates by descending support, breaking ties
// on the hex string so equal inputs always produce equal output.
func SortBySupport(cands []models.ColorCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Support != cands[j].Support {
			return cands[i].Support > cands[j].Support
		}
		return cands[i].Color.Hex() < cands[j].Color.Hex()
	})
}
