package colormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/themescrape/themescrape/models"
)

func TestLuminanceRange(t *testing.T) {
	assert.InDelta(t, 0, Luminance(models.RGB{}), 0.001)
	assert.InDelta(t, 255, Luminance(models.RGB{R: 255, G: 255, B: 255}), 0.001)
}

func TestLuminancePerceptual(t *testing.T) {
	// A pale mint surface reads as nearly white.
	pale := Luminance(models.MustHex("#EAFBF2"))
	assert.InDelta(t, 246, pale, 2.0)

	// A saturated teal still reads as a mid tone, not a dark one.
	teal := Luminance(models.MustHex("#00B69B"))
	assert.InDelta(t, 159, teal, 2.0)

	// Dark slate text.
	slate := Luminance(models.MustHex("#1F2937"))
	assert.InDelta(t, 40, slate, 2.0)

	assert.Greater(t, pale, teal)
	assert.Greater(t, teal, slate)
}

func TestIsDark(t *testing.T) {
	assert.True(t, IsDark(models.MustHex("#1F2937")))
	assert.False(t, IsDark(models.MustHex("#EAFBF2")))
	assert.False(t, IsDark(models.MustHex("#00B69B")))
}

func TestContrastRatio(t *testing.T) {
	black := models.RGB{}
	white := models.RGB{R: 255, G: 255, B: 255}

	assert.InDelta(t, 21, ContrastRatio(black, white), 0.01)
	assert.InDelta(t, 21, ContrastRatio(white, black), 0.01)
	assert.InDelta(t, 1, ContrastRatio(white, white), 0.001)

	// Dark text on a pale surface is comfortably readable.
	ratio := ContrastRatio(models.MustHex("#1F2937"), models.MustHex("#EAFBF2"))
	assert.Greater(t, ratio, 10.0)
}

func TestHSLRoundTrip(t *testing.T) {
	cases := []models.RGB{
		models.MustHex("#00B69B"),
		models.MustHex("#0F79F3"),
		models.MustHex("#EF4444"),
		models.MustHex("#F59E0B"),
		models.MustHex("#64748B"),
		models.MustHex("#808080"),
	}
	for _, c := range cases {
		h, s, l := HSL(c)
		back := FromHSL(h, s, l)
		assert.InDelta(t, float64(c.R), float64(back.R), 2, "R of %s", c)
		assert.InDelta(t, float64(c.G), float64(back.G), 2, "G of %s", c)
		assert.InDelta(t, float64(c.B), float64(back.B), 2, "B of %s", c)
	}
}

func TestSaturationOfGray(t *testing.T) {
	assert.InDelta(t, 0, Saturation(models.MustHex("#808080")), 0.001)
	assert.InDelta(t, 0, Saturation(models.MustHex("#FAFAFA")), 0.001)

	// Near-white pastels inflate HSL saturation even though they look gray.
	assert.Greater(t, Saturation(models.MustHex("#EAFBF2")), 0.5)
	assert.InDelta(t, 17, ChannelSpread(models.MustHex("#EAFBF2")), 0.001)
}

func TestDarkenLightenRoundTrip(t *testing.T) {
	// Mid-range colors recover exactly after a lighten/darken pair.
	cases := []models.RGB{
		models.MustHex("#6699CC"),
		models.MustHex("#00B69B"),
		models.MustHex("#808080"),
	}
	for _, c := range cases {
		for _, pct := range []float64{5, 10, 20} {
			assert.Equal(t, c, Darken(Lighten(c, pct), pct), "%s at %v%%", c, pct)
			assert.Equal(t, c, Lighten(Darken(c, pct), pct), "%s at %v%%", c, pct)
		}
	}
}

func TestLightenClampsAtWhite(t *testing.T) {
	white := models.RGB{R: 255, G: 255, B: 255}
	assert.Equal(t, white, Lighten(models.MustHex("#EEEEEE"), 50))
	assert.Equal(t, white, Lighten(models.MustHex("#123456"), 120))
	assert.Equal(t, models.RGB{}, Darken(models.MustHex("#111111"), 50))
}

func TestDarkenShiftsUniformly(t *testing.T) {
	got := Darken(models.MustHex("#6699CC"), 10)
	// 10% of full range is a shift of 26 per channel.
	assert.Equal(t, models.MustHex("#4C7FB2"), got)
}

func TestDistance(t *testing.T) {
	a := models.MustHex("#000000")
	assert.InDelta(t, 0, Distance(a, a), 0.001)
	assert.InDelta(t, 255, Distance(a, models.MustHex("#FF0000")), 0.001)
	assert.InDelta(t, 5, Distance(models.MustHex("#100F0F"), models.MustHex("#0D0B0D")), 1.0)
}

func TestMix(t *testing.T) {
	black := models.RGB{}
	white := models.RGB{R: 255, G: 255, B: 255}
	assert.Equal(t, black, Mix(black, white, 0))
	assert.Equal(t, white, Mix(black, white, 1))
	assert.Equal(t, models.RGB{R: 128, G: 128, B: 128}, Mix(black, white, 0.5))
}

func TestTowardLuminance(t *testing.T) {
	base := models.MustHex("#00B69B")

	lighter := TowardLuminance(base, 220)
	assert.InDelta(t, 220, Luminance(lighter), 1.5)

	darker := TowardLuminance(base, 60)
	assert.InDelta(t, 60, Luminance(darker), 1.5)

	// Blending toward white or black keeps the hue readable.
	assert.InDelta(t, Hue(base), Hue(lighter), 8)
	assert.InDelta(t, Hue(base), Hue(darker), 8)

	// Already at target: unchanged.
	assert.Equal(t, base, TowardLuminance(base, Luminance(base)))
}
