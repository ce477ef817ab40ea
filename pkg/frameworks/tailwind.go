package frameworks

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/colormath"
)

// Tailwind compiles its palette away, so class names rarely carry
// colors. Arbitrary-value utilities are the exception: bg-[#1DA1F2]
// states the literal value right in the class.
var tailwindArbitraryColor = regexp.MustCompile(`^(bg|text|border|fill|stroke)-\[(#[0-9a-fA-F]{3,8}|rgba?\([^\]]+\))\]$`)

// The spacing scale runs at 4px per unit: p-4 is 16px.
var tailwindSpacing = regexp.MustCompile(`^-?(?:p|m)(?:x|y|t|b|l|r|s|e)?-(\d+(?:\.\d+)?)$`)

var tailwindGap = regexp.MustCompile(`^(?:gap|gap-x|gap-y|space-x|space-y)-(\d+(?:\.\d+)?)$`)

var tailwindRounded = regexp.MustCompile(`^rounded(?:-(?:t|b|l|r|tl|tr|bl|br|s|e|ss|se|es|ee))?(?:-(none|sm|md|lg|xl|2xl|3xl))?$`)

var tailwindFontSize = regexp.MustCompile(`^text-(xs|sm|base|lg|xl|2xl|3xl|4xl|5xl)$`)

var tailwindMutedText = regexp.MustCompile(`^text-(?:gray|slate|zinc|neutral|stone)-[456]00$`)

const tailwindUnitPx = 4

var tailwindRadiusPx = map[string]float64{
	"none": 0, "sm": 2, "": 4, "md": 6, "lg": 8, "xl": 12, "2xl": 16, "3xl": 24,
}

var tailwindFontPx = map[string]float64{
	"xs": 12, "sm": 14, "base": 16, "lg": 18, "xl": 20,
	"2xl": 24, "3xl": 30, "4xl": 36, "5xl": 48,
}

func tailwindHints(tokens []string, h *Hints) {
	for _, tok := range tokens {
		if m := tailwindArbitraryColor.FindStringSubmatch(tok); m != nil {
			if rgb, ok := colormath.ParseColor(m[2]); ok {
				ctx := models.ContextSurface
				switch m[1] {
				case "text":
					ctx = models.ContextBodyText
				case "border":
					ctx = models.ContextBorder
				case "fill", "stroke":
					ctx = models.ContextIcon
				}
				h.Colors = append(h.Colors, ColorHint{Color: rgb, Context: ctx})
			}
			continue
		}

		if m := tailwindSpacing.FindStringSubmatch(tok); m != nil {
			if units, err := strconv.ParseFloat(m[1], 64); err == nil && units > 0 {
				h.Dimensions = append(h.Dimensions, DimensionHint{Px: units * tailwindUnitPx, Context: models.ContextSpacing})
			}
			continue
		}
		if m := tailwindGap.FindStringSubmatch(tok); m != nil {
			if units, err := strconv.ParseFloat(m[1], 64); err == nil && units > 0 {
				h.Dimensions = append(h.Dimensions, DimensionHint{Px: units * tailwindUnitPx, Context: models.ContextSpacing})
			}
			continue
		}
		if m := tailwindRounded.FindStringSubmatch(tok); m != nil {
			if px, ok := tailwindRadiusPx[m[1]]; ok && px > 0 {
				h.Dimensions = append(h.Dimensions, DimensionHint{Px: px, Context: models.ContextRadius})
			}
			continue
		}
		if m := tailwindFontSize.FindStringSubmatch(tok); m != nil {
			h.Dimensions = append(h.Dimensions, DimensionHint{Px: tailwindFontPx[m[1]], Context: models.ContextFontSize})
			continue
		}

		if tailwindMutedText.MatchString(tok) {
			h.Muted = true
		}
	}
}

// Signature utilities checked against the whole padded class blob.
var (
	tailwindShadeClass   = regexp.MustCompile(`\s(?:bg|text|border)-[a-z]+-[1-9]00\s`)
	tailwindSpacingClass = regexp.MustCompile(`\s-?(?:p|m)(?:x|y|t|b|l|r)?-\d+\s`)
	tailwindSizeClass    = regexp.MustCompile(`\stext-(?:xs|sm|base|lg|xl|2xl)\s`)
	tailwindRoundedClass = regexp.MustCompile(`\srounded(?:-\w+)?\s`)
)

func detectTailwind(classes, assets string) bool {
	if strings.Contains(assets, "tailwind") {
		return true
	}
	hits := 0
	if tailwindSpacingClass.MatchString(classes) {
		hits++
	}
	if tailwindSizeClass.MatchString(classes) {
		hits++
	}
	if tailwindRoundedClass.MatchString(classes) {
		hits++
	}
	if tailwindShadeClass.MatchString(classes) {
		hits++
	}
	if strings.Contains(classes, " flex ") || strings.Contains(classes, " grid ") {
		hits++
	}
	return hits >= 3
}
