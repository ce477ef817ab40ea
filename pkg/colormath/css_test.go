package colormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/themescrape/themescrape/models"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		value string
		want  string
		ok    bool
	}{
		{"#0F79F3", "#0F79F3", true},
		{"#0f79f3", "#0F79F3", true},
		{"0F79F3", "", false},
		{"#fff", "#FFFFFF", true},
		{"#1F2937FF", "#1F2937", true},
		{"rgb(15, 121, 243)", "#0F79F3", true},
		{"rgb(15 121 243)", "#0F79F3", true},
		{"rgb(100%, 0%, 0%)", "#FF0000", true},
		{"rgba(0, 0, 0, 1)", "#000000", true},
		{"rgba(0, 0, 0, 0.5)", "#808080", true},
		{"rgb(0 0 0 / 0.5)", "#808080", true},
		{"hsl(210, 100%, 50%)", "#0080FF", true},
		{"hsla(0, 0%, 50%, 1)", "#808080", true},
		{"red", "#FF0000", true},
		{"SteelBlue", "#4682B4", true},
		{"whitesmoke", "#F5F5F5", true},

		{"transparent", "", false},
		{"rgba(255, 0, 0, 0.01)", "", false},
		{"currentColor", "", false},
		{"inherit", "", false},
		{"var(--brand)", "", false},
		{"linear-gradient(#fff, #000)", "", false},
		{"url(bg.png)", "", false},
		{"bogus", "", false},
		{"#12", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseColor(tc.value)
		assert.Equal(t, tc.ok, ok, "ok for %q", tc.value)
		if tc.ok {
			assert.Equal(t, tc.want, got.Hex(), "value for %q", tc.value)
		}
	}
}

func TestParseColorClampsOutOfRange(t *testing.T) {
	got, ok := ParseColor("rgb(300, -4, 99)")
	assert.True(t, ok)
	assert.Equal(t, models.RGB{R: 255, G: 0, B: 99}, got)
}

func TestParseColorFlattensAlpha(t *testing.T) {
	// 50% red over a white page.
	got, ok := ParseColor("rgba(255, 0, 0, 0.5)")
	assert.True(t, ok)
	assert.Equal(t, models.RGB{R: 255, G: 128, B: 128}, got)
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		value string
		want  float64
		ok    bool
	}{
		{"16px", 16, true},
		{"4.5px", 4.5, true},
		{"0", 0, true},
		{"1rem", 16, true},
		{"1.5rem", 24, true},
		{"0.5em", 8, true},
		{"-8px", -8, true},
		{"100%", 0, false},
		{"auto", 0, false},
		{"calc(100% - 16px)", 0, false},
		{"var(--gap)", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseLength(tc.value)
		assert.Equal(t, tc.ok, ok, "ok for %q", tc.value)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 0.001, "value for %q", tc.value)
		}
	}
}
