// Package engine runs the resolution pipeline end to end: validate
// and merge the observation sets, classify candidates, synthesize the
// neutral scale, resolve roles and text levels, then compile tokens.
// Nothing across this boundary panics or returns an error; every
// anomaly leaves as a diagnostic next to a complete token set.
package engine

import (
	"fmt"
	"math"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/classify"
	"github.com/themescrape/themescrape/pkg/compile"
	"github.com/themescrape/themescrape/pkg/merge"
	"github.com/themescrape/themescrape/pkg/neutral"
	"github.com/themescrape/themescrape/pkg/semantic"
	"github.com/themescrape/themescrape/pkg/spacing"
	"github.com/themescrape/themescrape/pkg/texthier"
	"github.com/themescrape/themescrape/pkg/typography"
)

// Result carries one resolution's output together with the
// intermediate stages, for callers that render more than the token
// values (style guide, terminal preview, run summaries).
type Result struct {
	Tokens      models.TokenSet
	Diagnostics []models.Diagnostic

	Roles   []semantic.Resolution
	Scale   neutral.Scale
	Text    texthier.Hierarchy
	Spacing spacing.Result
	Family  typography.Result
	PageBg  models.RGB
	Pool    []models.ColorCandidate
	Sources int
}

// Resolve merges the observation sets under opts and compiles the
// token set. Identical input always produces identical output.
func Resolve(sets []models.ObservationSet, opts models.ResolveOptions) (models.TokenSet, []models.Diagnostic) {
	res := ResolveFull(sets, opts)
	return res.Tokens, res.Diagnostics
}

// ResolveFull is Resolve with the intermediate stages exposed.
func ResolveFull(sets []models.ObservationSet, opts models.ResolveOptions) Result {
	var diags []models.Diagnostic

	clean := make([]models.ObservationSet, 0, len(sets))
	for _, set := range sets {
		kept, dropped := validateSet(set)
		diags = append(diags, dropped...)
		clean = append(clean, kept)
	}

	pool := merge.Pool(clean)
	pools := classify.Partition(pool, opts.Resolver)

	scale, scaleDiags := neutral.Synthesize(pools, opts.Resolver)
	diags = append(diags, scaleDiags...)

	pageBg := pageBackground(pools, scale)

	roles, roleDiags := semantic.Resolve(pools, pageBg, opts.Resolver)
	diags = append(diags, roleDiags...)

	text := texthier.Normalize(pools, scale, opts.Resolver)
	dims := spacing.Resolve(clean)

	metas := make([]models.SourceMetadata, 0, len(clean))
	for _, set := range clean {
		metas = append(metas, set.Meta)
	}
	family := typography.Resolve(metas)

	sources := distinctSources(clean)
	tokens := compile.Build(compile.Inputs{
		Roles:   roles,
		Scale:   scale,
		Text:    text,
		Spacing: dims,
		Family:  family,
		Pool:    pool,
		Sources: sources,
		Options: opts,
	})

	return Result{
		Tokens:      tokens,
		Diagnostics: diags,
		Roles:       roles,
		Scale:       scale,
		Text:        text,
		Spacing:     dims,
		Family:      family,
		PageBg:      pageBg,
		Pool:        pool,
		Sources:     sources,
	}
}

// distinctSources counts distinct source IDs across the sets. A page's
// computed and exact sets share one ID, so confidence denominators
// count pages, matching how agreement counts them.
func distinctSources(sets []models.ObservationSet) int {
	seen := make(map[string]bool, len(sets))
	for _, set := range sets {
		seen[set.SourceID] = true
	}
	return len(seen)
}

// validateSet drops malformed observations and records a warning for
// each. An unset trust weight would erase the whole set in the merge,
// so it is lifted to the computed-style default.
func validateSet(set models.ObservationSet) (models.ObservationSet, []models.Diagnostic) {
	var diags []models.Diagnostic
	kept := set
	if kept.TrustWeight <= 0 {
		kept.TrustWeight = models.DefaultConfig().Trust.Computed
	}
	kept.Observations = make([]models.RawObservation, 0, len(set.Observations))
	for _, o := range set.Observations {
		if reason := observationProblem(o); reason != "" {
			diags = append(diags, models.Diagnostic{
				Severity: models.SeverityWarning,
				Code:     models.DiagInvalidObservation,
				Message:  "dropped observation: " + reason,
				Source:   set.SourceID,
			})
			continue
		}
		kept.Observations = append(kept.Observations, o)
	}
	return kept, diags
}

func observationProblem(o models.RawObservation) string {
	if o.Frequency <= 0 {
		return fmt.Sprintf("frequency %d is not positive", o.Frequency)
	}
	switch o.Kind {
	case models.KindColor:
		return ""
	case models.KindDimension:
		if math.IsNaN(o.Px) || math.IsInf(o.Px, 0) || o.Px <= 0 {
			return fmt.Sprintf("length %v is not a positive finite px value", o.Px)
		}
		return ""
	default:
		return fmt.Sprintf("kind %q is not observable", o.Kind)
	}
}

// pageBackground elects the page background: the candidate carrying
// the most page-level usage, falling back to the lightest scale step.
// Role election excludes this color so no role dissolves into the
// page behind it.
func pageBackground(pools classify.Pools, scale neutral.Scale) models.RGB {
	all := pools.All()
	var best *models.ColorCandidate
	for i := range all {
		c := &all[i]
		if c.PageWeight <= 0 {
			continue
		}
		if best == nil || c.PageWeight > best.PageWeight ||
			(c.PageWeight == best.PageWeight && c.Color.Hex() < best.Color.Hex()) {
			best = c
		}
	}
	if best != nil {
		return best.Color
	}
	return scale.Lightest()
}
