// Package merge combines candidate pools from multiple observation
// sets into one, and scores cross-source agreement. Merging happens
// before classification and role resolution, so every later stage sees
// a single pool regardless of how many sources fed the run.
package merge

import (
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/classify"
	"github.com/themescrape/themescrape/pkg/colormath"
)

// Pool builds per-set candidates and folds them into one combined
// pool. Identical colors from different sets collapse into a single
// candidate with summed support and the union of their sources. Trust
// scaling already happened inside classify.Candidates.
func Pool(sets []models.ObservationSet) []models.ColorCandidate {
	byColor := make(map[models.RGB]*models.ColorCandidate)
	order := make([]models.RGB, 0)

	for _, set := range sets {
		for _, cand := range classify.Candidates(set) {
			existing, ok := byColor[cand.Color]
			if !ok {
				clone := cand
				clone.Sources = append([]string(nil), cand.Sources...)
				if cand.RoleWeights != nil {
					clone.RoleWeights = make(map[models.Role]float64, len(cand.RoleWeights))
					for r, w := range cand.RoleWeights {
						clone.RoleWeights[r] = w
					}
				}
				byColor[cand.Color] = &clone
				order = append(order, cand.Color)
				continue
			}

			existing.Support += cand.Support
			existing.BgWeight += cand.BgWeight
			existing.FgWeight += cand.FgWeight
			existing.TextWeight += cand.TextWeight
			existing.BorderWeight += cand.BorderWeight
			existing.Interactive += cand.Interactive
			existing.PageWeight += cand.PageWeight
			existing.Exact = existing.Exact || cand.Exact
			for _, src := range cand.Sources {
				if !existing.HasSource(src) {
					existing.Sources = append(existing.Sources, src)
				}
			}
			for r, w := range cand.RoleWeights {
				if existing.RoleWeights == nil {
					existing.RoleWeights = make(map[models.Role]float64)
				}
				existing.RoleWeights[r] += w
			}
		}
	}

	out := make([]models.ColorCandidate, 0, len(order))
	for _, c := range order {
		out = append(out, *byColor[c])
	}
	classify.SortBySupport(out)
	return out
}

// Agreement counts the distinct sources that back a resolved color,
// where backing means owning any candidate within the tolerance.
func Agreement(pool []models.ColorCandidate, c models.RGB, tolerance float64) int {
	seen := make(map[string]bool)
	for i := range pool {
		if colormath.Distance(pool[i].Color, c) > tolerance {
			continue
		}
		for _, src := range pool[i].Sources {
			seen[src] = true
		}
	}
	return len(seen)
}

// Confidence scores a resolved color against the pool it came from.
// A value nothing backs scores zero. A single-source run can never
// score above the configured single-source level, and with multiple
// sources the score is the agreeing fraction. Adding an agreeing
// source never lowers the score.
func Confidence(pool []models.ColorCandidate, c models.RGB, totalSources int, cfg models.ResolverConfig) float64 {
	if totalSources <= 0 {
		return 0
	}
	agree := Agreement(pool, c, cfg.AgreementTolerance)
	if agree == 0 {
		return 0
	}
	if totalSources == 1 {
		return cfg.SingleSourceConfidence
	}
	return float64(agree) / float64(totalSources)
}

// DimensionConfidence scores a resolved length by how many sources
// recorded it, mirroring the color rule.
func DimensionConfidence(agree, totalSources int, cfg models.ResolverConfig) float64 {
	if totalSources <= 0 || agree <= 0 {
		return 0
	}
	if totalSources == 1 {
		return cfg.SingleSourceConfidence
	}
	return float64(agree) / float64(totalSources)
}
