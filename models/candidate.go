package models

// ColorCandidate is an aggregated color drawn from one or more
// observations. Support is the trust-scaled frequency total; the
// weight fields tally how the color was used so later stages can pair
// fills with foregrounds and spot interactive accents.
//
// Luminance, saturation and hue are computed once when the candidate
// is built and reused by every stage afterwards.
type ColorCandidate struct {
	Color      RGB
	Luminance  float64
	Saturation float64
	Hue        float64

	Support float64
	Sources []string
	Exact   bool

	BgWeight     float64
	FgWeight     float64
	TextWeight   float64
	BorderWeight float64
	Interactive  float64
	PageWeight   float64

	RoleWeights map[Role]float64
}

// RoleWeight returns the accumulated hint weight for a role.
func (c *ColorCandidate) RoleWeight(r Role) float64 {
	if c.RoleWeights == nil {
		return 0
	}
	return c.RoleWeights[r]
}

// Hinted reports whether any role hint contributed to this candidate.
func (c *ColorCandidate) Hinted() bool {
	for _, w := range c.RoleWeights {
		if w > 0 {
			return true
		}
	}
	return false
}

// HasSource reports whether id contributed to this candidate.
func (c *ColorCandidate) HasSource(id string) bool {
	for _, s := range c.Sources {
		if s == id {
			return true
		}
	}
	return false
}
