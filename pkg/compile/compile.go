// Package compile turns the resolved pieces of a run into the final
// token set. Every canonical token name is always present; whatever
// could not be resolved upstream arrives here as a fallback value and
// leaves as a token with zero confidence. Consumers read tokens, never
// re-derive color math.
package compile

import (
	"math"
	"strconv"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/colormath"
	"github.com/themescrape/themescrape/pkg/merge"
	"github.com/themescrape/themescrape/pkg/neutral"
	"github.com/themescrape/themescrape/pkg/semantic"
	"github.com/themescrape/themescrape/pkg/spacing"
	"github.com/themescrape/themescrape/pkg/texthier"
	"github.com/themescrape/themescrape/pkg/typography"
)

// StateSuffixes lists the derived state tokens per role, in emission
// order. Hover and active darken the base; disabled and the light
// family lighten it.
var StateSuffixes = []string{"hover", "active", "disabled", "light", "light-hover", "light-active"}

// Background and fill slices of the neutral scale. Backgrounds take
// the light half, fills the mid tones; the darkest steps serve text.
var (
	bgSteps   = []int{0, 1, 2, 3, 4}
	fillSteps = []int{5, 6, 7}
)

// Inputs collects everything the pipeline resolved for one run.
type Inputs struct {
	Roles   []semantic.Resolution
	Scale   neutral.Scale
	Text    texthier.Hierarchy
	Spacing spacing.Result
	Family  typography.Result

	// Pool is the merged candidate pool and Sources the count of
	// distinct observation sets; together they ground confidence.
	Pool    []models.ColorCandidate
	Sources int

	Options models.ResolveOptions
}

// StateColor derives one state from a role base.
func StateColor(base models.RGB, suffix string, d models.DeriveConfig) models.RGB {
	switch suffix {
	case "hover":
		return colormath.Darken(base, d.Hover)
	case "active":
		return colormath.Darken(base, d.Active)
	case "disabled":
		return colormath.Lighten(base, d.Disabled)
	case "light":
		return colormath.Lighten(base, d.Light)
	case "light-hover":
		return colormath.Lighten(base, d.LightHover)
	case "light-active":
		return colormath.Lighten(base, d.LightActive)
	}
	return base
}

// Build assembles the token set. The output depends only on the
// inputs, so identical resolutions always compile byte-identically.
func Build(in Inputs) models.TokenSet {
	c := &compiler{in: in, out: models.NewTokenSet()}
	c.roles()
	c.text()
	c.scale()
	c.dimensions()
	c.fontFamily()
	return c.out
}

type compiler struct {
	in  Inputs
	out models.TokenSet
}

func (c *compiler) colorConf(rgb models.RGB) float64 {
	return merge.Confidence(c.in.Pool, rgb, c.in.Sources, c.in.Options.Resolver)
}

func (c *compiler) putColor(name string, rgb models.RGB, conf float64) {
	c.out.Put(name, models.Token{Value: rgb.Hex(), Kind: models.KindColor, Confidence: conf})
}

func (c *compiler) roles() {
	for _, res := range c.in.Roles {
		conf := 0.0
		if !res.Fallback {
			conf = c.colorConf(res.Base)
		}
		name := "color-" + string(res.Role)
		c.putColor(name, res.Base, conf)
		for _, suffix := range StateSuffixes {
			state := StateColor(res.Base, suffix, c.in.Options.Derive)
			c.putColor(name+"-"+suffix, state, conf)
		}
	}
}

func (c *compiler) text() {
	anchorConf := 0.0
	for i := 0; i < texthier.Levels; i++ {
		if c.in.Text.Observed[i] {
			anchorConf = c.colorConf(c.in.Text.Colors[i])
			break
		}
	}
	for i := 0; i < texthier.Levels; i++ {
		rgb := c.in.Text.Colors[i]
		var conf float64
		switch {
		case c.in.Text.Observed[i]:
			conf = c.colorConf(rgb)
		case anchorConf > 0:
			conf = 0.5 * anchorConf
		default:
			conf = c.scaleConf(rgb)
		}
		c.putColor("color-text-"+strconv.Itoa(i), rgb, conf)
	}
}

// scaleConf scores a color taken from the neutral scale: zero for the
// builtin fallback ramp, direct agreement when the step is an observed
// candidate, otherwise half the weaker anchor's confidence because the
// step was interpolated between the anchors.
func (c *compiler) scaleConf(step models.RGB) float64 {
	if c.in.Scale.Fallback {
		return 0
	}
	if conf := c.colorConf(step); conf > 0 {
		return conf
	}
	light := c.colorConf(c.in.Scale.Steps[0])
	dark := c.colorConf(c.in.Scale.Steps[neutral.Steps-1])
	return 0.5 * math.Min(light, dark)
}

func (c *compiler) scale() {
	for i, idx := range bgSteps {
		rgb := c.in.Scale.Steps[idx]
		c.putColor("color-bg-"+strconv.Itoa(i), rgb, c.scaleConf(rgb))
	}
	for i, idx := range fillSteps {
		rgb := c.in.Scale.Steps[idx]
		c.putColor("color-fill-"+strconv.Itoa(i), rgb, c.scaleConf(rgb))
	}
}

func (c *compiler) putDimension(name string, px float64, conf float64) {
	c.out.Put(name, models.Token{Value: formatPx(px), Kind: models.KindDimension, Confidence: conf})
}

func (c *compiler) dimensions() {
	sp := c.in.Spacing
	cfg := c.in.Options.Resolver

	baseConf := 0.0
	if sp.BaseObserved {
		baseConf = merge.DimensionConfidence(sp.BaseAgree, c.in.Sources, cfg)
	}
	c.putDimension("spacing-base", sp.BasePx, baseConf)
	for _, step := range sp.Steps() {
		c.putDimension("spacing-"+step.Name, step.Px, baseConf)
	}

	radiusConf := 0.0
	if sp.RadiusObserved {
		radiusConf = merge.DimensionConfidence(sp.RadiusAgree, c.in.Sources, cfg)
	}
	c.putDimension("radius-base", sp.RadiusPx, radiusConf)

	fontConf := 0.0
	if sp.FontObserved {
		fontConf = merge.DimensionConfidence(sp.FontAgree, c.in.Sources, cfg)
	}
	c.putDimension("font-size-base", sp.FontPx, fontConf)
}

func (c *compiler) fontFamily() {
	conf := 0.0
	if c.in.Family.Observed {
		conf = merge.DimensionConfidence(c.in.Family.Agree, c.in.Sources, c.in.Options.Resolver)
	}
	c.out.Put("font-family-base", models.Token{
		Value:      c.in.Family.Family,
		Kind:       models.KindFont,
		Confidence: conf,
	})
}

func formatPx(px float64) string {
	return strconv.FormatFloat(px, 'f', -1, 64) + "px"
}
