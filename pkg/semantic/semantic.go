// Package semantic assigns candidate colors to palette roles. Hints
// win first, then interactive inference for primary, then frequency
// ranking for the brand roles, then hue affinity for status roles.
// Roles nothing resolves fall back to builtin bases at confidence zero.
package semantic

import (
	"fmt"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/classify"
	"github.com/themescrape/themescrape/pkg/colormath"
)

// Resolution is the outcome for one role. Tint is the auxiliary color
// of a foreground/background pair, kept for badge-style rendering.
// Method records which rule produced the base.
type Resolution struct {
	Role     models.Role
	Base     models.RGB
	BaseMeta *models.ColorCandidate
	Tint     *models.ColorCandidate
	Fallback bool
	Method   string
}

// Resolve assigns every role. The returned slice is in models.Roles()
// order and always complete; pageBg is excluded from base election so
// a role can never dissolve into the page background.
func Resolve(pools classify.Pools, pageBg models.RGB, cfg models.ResolverConfig) ([]Resolution, []models.Diagnostic) {
	r := &resolver{
		pool:   pools.Semantic,
		pageBg: pageBg,
		cfg:    cfg,
		out:    make(map[models.Role]*Resolution),
	}

	r.assignHinted()
	r.assignInteractive()
	r.assignRankedBrand()
	r.assignStatusByHue()

	var results []Resolution
	var diags []models.Diagnostic
	for _, role := range models.Roles() {
		if res, ok := r.out[role]; ok {
			results = append(results, *res)
			continue
		}
		results = append(results, Resolution{
			Role:     role,
			Base:     FallbackBase(role),
			Fallback: true,
			Method:   "fallback",
		})
		diags = append(diags, models.Diagnostic{
			Severity: models.SeverityWarning,
			Code:     models.DiagUnresolvedRole,
			Message:  fmt.Sprintf("no candidate resolved role %q; using builtin base", role),
		})
	}
	return results, diags
}

type resolver struct {
	pool   []models.ColorCandidate
	pageBg models.RGB
	cfg    models.ResolverConfig
	out    map[models.Role]*Resolution
}

// electable filters page-background colors out of base election.
func (r *resolver) electable(c *models.ColorCandidate) bool {
	return colormath.Distance(c.Color, r.pageBg) > r.cfg.AgreementTolerance
}

// taken reports whether a color is already serving as some base.
func (r *resolver) taken(c models.RGB) bool {
	for _, res := range r.out {
		if colormath.Distance(res.Base, c) <= r.cfg.AgreementTolerance {
			return true
		}
	}
	return false
}

// preferred is the total election order: exact provenance beats
// support, support beats saturation, and the hex string settles
// everything else. Exact-first means a stylesheet literal wins against
// a more frequent inferred value.
func preferred(a, b *models.ColorCandidate) bool {
	if a.Exact != b.Exact {
		return a.Exact
	}
	if a.Support != b.Support {
		return a.Support > b.Support
	}
	if a.Saturation != b.Saturation {
		return a.Saturation > b.Saturation
	}
	return a.Color.Hex() < b.Color.Hex()
}

// assignHinted resolves roles carrying explicit hint weight. When a
// role attracts both a background and a foreground candidate, the more
// saturated of the two becomes the base and the other survives as the
// tint; a badge's pale fill must never outrank its vivid label.
// A candidate hinted at several roles serves the earliest role in
// resolution order; bases are never shared between roles.
func (r *resolver) assignHinted() {
	for _, role := range models.Roles() {
		var bg, fg *models.ColorCandidate
		for i := range r.pool {
			cand := &r.pool[i]
			if cand.RoleWeight(role) <= 0 || !r.electable(cand) || r.taken(cand.Color) {
				continue
			}
			if cand.BgWeight > cand.FgWeight {
				if bg == nil || preferred(cand, bg) {
					bg = cand
				}
			} else {
				if fg == nil || preferred(cand, fg) {
					fg = cand
				}
			}
		}

		switch {
		case bg != nil && fg != nil:
			base, tint := bg, fg
			if fg.Saturation > bg.Saturation {
				base, tint = fg, bg
			}
			r.put(role, base, tint, "hint")
		case bg != nil:
			r.put(role, bg, nil, "hint")
		case fg != nil:
			r.put(role, fg, nil, "hint")
		}
	}
}

// assignInteractive infers primary from unhinted interactive colors:
// what buttons and links wear is the brand accent.
func (r *resolver) assignInteractive() {
	if _, done := r.out[models.RolePrimary]; done {
		return
	}
	var best *models.ColorCandidate
	for i := range r.pool {
		cand := &r.pool[i]
		if cand.Interactive <= 0 || cand.Hinted() || !r.electable(cand) || r.taken(cand.Color) {
			continue
		}
		if best == nil || preferred(cand, best) {
			best = cand
		}
	}
	if best != nil {
		r.put(models.RolePrimary, best, nil, "interactive")
	}
}

// assignRankedBrand fills remaining brand roles from the leftover pool
// in election order.
func (r *resolver) assignRankedBrand() {
	for _, role := range []models.Role{models.RolePrimary, models.RoleSecondary, models.RoleTertiary} {
		if _, done := r.out[role]; done {
			continue
		}
		var best *models.ColorCandidate
		for i := range r.pool {
			cand := &r.pool[i]
			if !r.electable(cand) || r.taken(cand.Color) {
				continue
			}
			if best == nil || preferred(cand, best) {
				best = cand
			}
		}
		if best != nil {
			r.put(role, best, nil, "ranked")
		}
	}
}

// assignStatusByHue maps leftover saturated candidates onto status
// roles by hue wedge.
func (r *resolver) assignStatusByHue() {
	for _, role := range []models.Role{models.RoleSuccess, models.RoleWarning, models.RoleDanger, models.RoleInfo} {
		if _, done := r.out[role]; done {
			continue
		}
		band := statusBands[role]
		var best *models.ColorCandidate
		for i := range r.pool {
			cand := &r.pool[i]
			if !r.electable(cand) || r.taken(cand.Color) {
				continue
			}
			if cand.Saturation < minStatusSaturation || !band.contains(cand.Hue) {
				continue
			}
			if best == nil || preferred(cand, best) {
				best = cand
			}
		}
		if best != nil {
			r.put(role, best, nil, "hue")
		}
	}
}

func (r *resolver) put(role models.Role, base, tint *models.ColorCandidate, method string) {
	res := &Resolution{
		Role:     role,
		Base:     base.Color,
		BaseMeta: base,
		Method:   method,
	}
	if tint != nil && tint.Color != base.Color {
		res.Tint = tint
	}
	r.out[role] = res
}
