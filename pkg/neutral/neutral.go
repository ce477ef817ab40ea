// Package neutral builds the ten-step gray ramp. When a page ships a
// real gray ramp the observed values are used directly; when it only
// ships a couple of surface tones, the ramp is synthesized between the
// lightest background and the darkest text color.
package neutral

import (
	"fmt"
	"math"
	"sort"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/classify"
	"github.com/themescrape/themescrape/pkg/colormath"
)

// Steps is the number of ramp entries, named 50 through 900.
const Steps = 10

// StepNames are the canonical ramp step names, lightest first.
var StepNames = [Steps]string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900"}

// Observed neutrals separated by at least this much luminance count as
// distinct bands.
const bandWidth = 16

// Anchors closer than this cannot span a usable ramp.
const minAnchorGap = 30

// fallbackRamp is emitted when nothing observed can anchor a scale.
// It spans near-white to near-black with strictly decreasing luminance.
var fallbackRamp = [Steps]models.RGB{
	models.MustHex("#FAFAFA"),
	models.MustHex("#F5F5F5"),
	models.MustHex("#E5E5E5"),
	models.MustHex("#D4D4D4"),
	models.MustHex("#A3A3A3"),
	models.MustHex("#737373"),
	models.MustHex("#525252"),
	models.MustHex("#404040"),
	models.MustHex("#262626"),
	models.MustHex("#171717"),
}

// Scale is the resolved ramp. Steps run lightest to darkest with
// strictly decreasing luminance.
type Scale struct {
	Steps       [Steps]models.RGB
	Synthesized bool
	Fallback    bool
}

// Lightest returns the step-50 color, the default page background.
func (s Scale) Lightest() models.RGB { return s.Steps[0] }

// Darkest returns the step-900 color.
func (s Scale) Darkest() models.RGB { return s.Steps[Steps-1] }

// Synthesize resolves the ramp from classified candidate pools.
// It never fails: when anchors are missing or degenerate it returns
// the fallback ramp and records a diagnostic.
func Synthesize(pools classify.Pools, cfg models.ResolverConfig) (Scale, []models.Diagnostic) {
	neutrals := byLuminanceDesc(pools.Neutral)

	if usableAsRamp(neutrals, cfg) {
		scale := fromObserved(neutrals)
		enforceMonotonic(&scale.Steps)
		return scale, nil
	}

	light, dark, ok := pickAnchors(pools)
	if !ok {
		return Scale{Steps: fallbackRamp, Fallback: true}, []models.Diagnostic{{
			Severity: models.SeverityError,
			Code:     models.DiagScaleSynthesis,
			Message:  "no usable light and dark anchors; emitting fallback ramp",
		}}
	}

	// Usage weights can elect inverted anchors on dark themes where the
	// background is darker than the text. Swap instead of failing.
	if light.Luminance < dark.Luminance {
		light, dark = dark, light
	}

	gap := light.Luminance - dark.Luminance
	if gap < minAnchorGap {
		return Scale{Steps: fallbackRamp, Fallback: true}, []models.Diagnostic{{
			Severity: models.SeverityError,
			Code:     models.DiagScaleSynthesis,
			Message: fmt.Sprintf("anchors %s and %s are only %.0f luminance apart; emitting fallback ramp",
				light.Color.Hex(), dark.Color.Hex(), gap),
		}}
	}

	scale := betweenAnchors(light.Color, dark.Color, cfg)
	enforceMonotonic(&scale.Steps)
	return scale, nil
}

// usableAsRamp reports whether the observed neutrals already span a
// ramp: enough distinct luminance bands over a wide enough range.
func usableAsRamp(neutrals []models.ColorCandidate, cfg models.ResolverConfig) bool {
	if len(neutrals) < 2 {
		return false
	}
	spread := neutrals[0].Luminance - neutrals[len(neutrals)-1].Luminance
	if spread < cfg.MinScaleSpread || spread < minAnchorGap {
		return false
	}
	return distinctBands(neutrals) >= cfg.MinScaleBands
}

func distinctBands(sorted []models.ColorCandidate) int {
	count := 0
	last := math.Inf(1)
	for _, c := range sorted {
		if count == 0 || last-c.Luminance >= bandWidth {
			count++
			last = c.Luminance
		}
	}
	return count
}

// fromObserved lays evenly spaced luminance targets between the
// lightest and darkest observed neutral, snaps each observed candidate
// to its closest step, and fills the gaps by linear interpolation
// between the snapped neighbors.
func fromObserved(neutrals []models.ColorCandidate) Scale {
	top := neutrals[0].Luminance
	bottom := neutrals[len(neutrals)-1].Luminance
	gap := (top - bottom) / float64(Steps-1)

	var targets [Steps]float64
	for i := range targets {
		targets[i] = top - float64(i)*gap
	}

	// Each candidate claims only its closest step; each step keeps the
	// candidate closest to its target, ties resolved by support then hex.
	claimed := [Steps]*models.ColorCandidate{}
	for i := range neutrals {
		cand := &neutrals[i]
		idx := int(math.Round((top - cand.Luminance) / gap))
		if idx < 0 {
			idx = 0
		}
		if idx >= Steps {
			idx = Steps - 1
		}
		cur := claimed[idx]
		if cur == nil || betterSnap(cand, cur, targets[idx]) {
			claimed[idx] = cand
		}
	}

	var steps [Steps]models.RGB
	for i := range steps {
		if claimed[i] != nil {
			steps[i] = claimed[i].Color
			continue
		}
		lo, hi := nearestClaimed(claimed, i)
		t := float64(i-lo) / float64(hi-lo)
		steps[i] = colormath.Mix(claimed[lo].Color, claimed[hi].Color, t)
	}
	return Scale{Steps: steps}
}

func betterSnap(cand, cur *models.ColorCandidate, target float64) bool {
	dc := math.Abs(cand.Luminance - target)
	do := math.Abs(cur.Luminance - target)
	if dc != do {
		return dc < do
	}
	if cand.Support != cur.Support {
		return cand.Support > cur.Support
	}
	return cand.Color.Hex() < cur.Color.Hex()
}

// nearestClaimed returns the closest claimed indices on both sides of
// i. The outermost steps are always claimed because the lightest and
// darkest candidates snap exactly onto them.
func nearestClaimed(claimed [Steps]*models.ColorCandidate, i int) (lo, hi int) {
	lo = i - 1
	for claimed[lo] == nil {
		lo--
	}
	hi = i + 1
	for claimed[hi] == nil {
		hi++
	}
	return lo, hi
}

// pickAnchors chooses the synthesis endpoints: the lightest
// background-like neutral and the darkest text-like candidate.
func pickAnchors(pools classify.Pools) (light, dark models.ColorCandidate, ok bool) {
	lightFound := false
	for _, c := range pools.Neutral {
		if c.BgWeight <= 0 {
			continue
		}
		if !lightFound || lighter(c, light) {
			light = c
			lightFound = true
		}
	}
	if !lightFound {
		for _, c := range pools.Neutral {
			if !lightFound || lighter(c, light) {
				light = c
				lightFound = true
			}
		}
	}

	darkFound := false
	for _, c := range pools.All() {
		if c.TextWeight <= 0 {
			continue
		}
		if !darkFound || darker(c, dark) {
			dark = c
			darkFound = true
		}
	}
	if !darkFound {
		for _, c := range pools.Neutral {
			if lightFound && c.Color == light.Color {
				continue
			}
			if !darkFound || darker(c, dark) {
				dark = c
				darkFound = true
			}
		}
	}

	return light, dark, lightFound && darkFound
}

func lighter(a, b models.ColorCandidate) bool {
	if a.Luminance != b.Luminance {
		return a.Luminance > b.Luminance
	}
	return a.Color.Hex() < b.Color.Hex()
}

func darker(a, b models.ColorCandidate) bool {
	if a.Luminance != b.Luminance {
		return a.Luminance < b.Luminance
	}
	return a.Color.Hex() < b.Color.Hex()
}

// betweenAnchors lays evenly spaced luminance targets from light to
// dark and materializes each step per the configured interpolation.
func betweenAnchors(light, dark models.RGB, cfg models.ResolverConfig) Scale {
	top := colormath.Luminance(light)
	bottom := colormath.Luminance(dark)

	var steps [Steps]models.RGB
	steps[0] = light
	steps[Steps-1] = dark
	for i := 1; i < Steps-1; i++ {
		t := float64(i) / float64(Steps-1)
		if cfg.Interpolation == models.InterpolationLinearRGB {
			steps[i] = colormath.Mix(light, dark, t)
			continue
		}
		// Hue-preserving: walk the nearest anchor to the target
		// luminance so tinted grays keep their cast.
		target := top - t*(top-bottom)
		anchor := light
		if math.Abs(target-bottom) < math.Abs(target-top) {
			anchor = dark
		}
		steps[i] = colormath.TowardLuminance(anchor, target)
	}
	return Scale{Steps: steps, Synthesized: true}
}

// enforceMonotonic nudges any step that fails strict luminance descent
// down just below its predecessor.
func enforceMonotonic(steps *[Steps]models.RGB) {
	prev := colormath.Luminance(steps[0])
	for i := 1; i < Steps; i++ {
		cur := colormath.Luminance(steps[i])
		if cur >= prev {
			steps[i] = colormath.TowardLuminance(steps[i], math.Max(prev-2, 0))
			cur = colormath.Luminance(steps[i])
		}
		prev = cur
	}
}

func byLuminanceDesc(cands []models.ColorCandidate) []models.ColorCandidate {
	out := append([]models.ColorCandidate(nil), cands...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Luminance != out[j].Luminance {
			return out[i].Luminance > out[j].Luminance
		}
		return out[i].Color.Hex() < out[j].Color.Hex()
	})
	return out
}
