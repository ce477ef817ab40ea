// Package colormath is the single home for color arithmetic. Every
// stage of resolution calls through here so that luminance, contrast
// and shade derivation agree across the whole pipeline.
package colormath

import (
	"math"

	"github.com/themescrape/themescrape/models"
)

// Luminance returns perceived lightness on a 0..255 scale. Channels
// are linearized with a gamma of 2 before the weighted sum, which
// keeps saturated mid-tones from scoring darker than they read.
func Luminance(c models.RGB) float64 {
	r := float64(c.R)
	g := float64(c.G)
	b := float64(c.B)
	return math.Sqrt(0.2126*r*r + 0.7152*g*g + 0.0722*b*b)
}

// IsDark reports whether c reads as a dark color.
func IsDark(c models.RGB) bool {
	return Luminance(c) < 128
}

// relativeLuminance is the 0..1 luminance used for contrast ratios,
// with the same gamma-2 linearization as Luminance.
func relativeLuminance(c models.RGB) float64 {
	lin := func(v uint8) float64 {
		f := float64(v) / 255.0
		return f * f
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio returns the contrast between two colors in 1..21,
// independent of argument order.
func ContrastRatio(a, b models.RGB) float64 {
	la := relativeLuminance(a)
	lb := relativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// HSL converts c to hue (0..360), saturation (0..1), lightness (0..1).
func HSL(c models.RGB) (h, s, l float64) {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	delta := max - min
	if delta == 0 {
		return 0, 0, l
	}

	if l < 0.5 {
		s = delta / (max + min)
	} else {
		s = delta / (2 - max - min)
	}

	switch max {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	case b:
		h = (r-g)/delta + 4
	}
	h *= 60
	return h, s, l
}

// FromHSL converts back to RGB, clamping inputs to valid ranges.
func FromHSL(h, s, l float64) models.RGB {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	s = clamp01(s)
	l = clamp01(l)

	if s == 0 {
		v := clampChannel(l * 255)
		return models.RGB{R: v, G: v, B: v}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	hk := h / 360
	return models.RGB{
		R: clampChannel(hueToChannel(p, q, hk+1.0/3.0) * 255),
		G: clampChannel(hueToChannel(p, q, hk) * 255),
		B: clampChannel(hueToChannel(p, q, hk-1.0/3.0) * 255),
	}
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// Hue returns the HSL hue in degrees.
func Hue(c models.RGB) float64 {
	h, _, _ := HSL(c)
	return h
}

// Saturation returns the HSL saturation in 0..1.
func Saturation(c models.RGB) float64 {
	_, s, _ := HSL(c)
	return s
}

// ChannelSpread returns max(R,G,B) - min(R,G,B). Grays and near-grays
// keep this small even when HSL saturation inflates near the extremes.
func ChannelSpread(c models.RGB) float64 {
	max := c.R
	min := c.R
	for _, v := range [...]uint8{c.G, c.B} {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return float64(max - min)
}

// shift converts a 0..100 percentage into a uniform channel offset.
func shift(percent float64) float64 {
	return math.Round(2.55 * percent)
}

// Darken moves every channel down by percent of full range, clamped
// at black. For mid-range colors Darken undoes Lighten exactly:
// Darken(Lighten(c, p), p) == c.
func Darken(c models.RGB, percent float64) models.RGB {
	d := shift(percent)
	return models.RGB{
		R: clampChannel(float64(c.R) - d),
		G: clampChannel(float64(c.G) - d),
		B: clampChannel(float64(c.B) - d),
	}
}

// Lighten moves every channel up by percent of full range, clamped at
// white. Amounts past 100 saturate to pure white.
func Lighten(c models.RGB, percent float64) models.RGB {
	d := shift(percent)
	return models.RGB{
		R: clampChannel(float64(c.R) + d),
		G: clampChannel(float64(c.G) + d),
		B: clampChannel(float64(c.B) + d),
	}
}

// Distance returns the Euclidean RGB distance between two colors.
func Distance(a, b models.RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Mix linearly interpolates each channel from a to b by t in 0..1.
func Mix(a, b models.RGB, t float64) models.RGB {
	t = clamp01(t)
	return models.RGB{
		R: clampChannel(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: clampChannel(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: clampChannel(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

// TowardLuminance blends c toward white or black until it reaches the
// target luminance, preserving hue. Luminance is monotonic along the
// blend, so a bisection converges quickly.
func TowardLuminance(c models.RGB, target float64) models.RGB {
	target = math.Max(0, math.Min(255, target))
	cur := Luminance(c)
	if math.Abs(cur-target) < 0.5 {
		return c
	}

	anchor := models.RGB{R: 255, G: 255, B: 255}
	if target < cur {
		anchor = models.RGB{}
	}

	lo, hi := 0.0, 1.0
	best := c
	for i := 0; i < 24; i++ {
		mid := (lo + hi) / 2
		m := Mix(c, anchor, mid)
		lm := Luminance(m)
		if math.Abs(lm-target) < math.Abs(Luminance(best)-target) {
			best = m
		}
		rising := anchor.R == 255
		if (rising && lm < target) || (!rising && lm > target) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return best
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
