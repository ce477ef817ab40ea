package colormath

import (
	"math"
	"strconv"
	"strings"

	"github.com/themescrape/themescrape/models"
)

// Colors with alpha below this are treated as effectively invisible
// and dropped rather than flattened.
const minVisibleAlpha = 0.05

// namedColors covers the CSS basic palette plus the extended names
// that show up routinely in real stylesheets.
var namedColors = map[string]models.RGB{
	"black":       {R: 0x00, G: 0x00, B: 0x00},
	"silver":      {R: 0xC0, G: 0xC0, B: 0xC0},
	"gray":        {R: 0x80, G: 0x80, B: 0x80},
	"grey":        {R: 0x80, G: 0x80, B: 0x80},
	"white":       {R: 0xFF, G: 0xFF, B: 0xFF},
	"maroon":      {R: 0x80, G: 0x00, B: 0x00},
	"red":         {R: 0xFF, G: 0x00, B: 0x00},
	"purple":      {R: 0x80, G: 0x00, B: 0x80},
	"fuchsia":     {R: 0xFF, G: 0x00, B: 0xFF},
	"magenta":     {R: 0xFF, G: 0x00, B: 0xFF},
	"green":       {R: 0x00, G: 0x80, B: 0x00},
	"lime":        {R: 0x00, G: 0xFF, B: 0x00},
	"olive":       {R: 0x80, G: 0x80, B: 0x00},
	"yellow":      {R: 0xFF, G: 0xFF, B: 0x00},
	"navy":        {R: 0x00, G: 0x00, B: 0x80},
	"blue":        {R: 0x00, G: 0x00, B: 0xFF},
	"teal":        {R: 0x00, G: 0x80, B: 0x80},
	"aqua":        {R: 0x00, G: 0xFF, B: 0xFF},
	"cyan":        {R: 0x00, G: 0xFF, B: 0xFF},
	"orange":      {R: 0xFF, G: 0xA5, B: 0x00},
	"gold":        {R: 0xFF, G: 0xD7, B: 0x00},
	"pink":        {R: 0xFF, G: 0xC0, B: 0xCB},
	"hotpink":     {R: 0xFF, G: 0x69, B: 0xB4},
	"crimson":     {R: 0xDC, G: 0x14, B: 0x3C},
	"tomato":      {R: 0xFF, G: 0x63, B: 0x47},
	"coral":       {R: 0xFF, G: 0x7F, B: 0x50},
	"salmon":      {R: 0xFA, G: 0x80, B: 0x72},
	"brown":       {R: 0xA5, G: 0x2A, B: 0x2A},
	"chocolate":   {R: 0xD2, G: 0x69, B: 0x1E},
	"tan":         {R: 0xD2, G: 0xB4, B: 0x8C},
	"beige":       {R: 0xF5, G: 0xF5, B: 0xDC},
	"ivory":       {R: 0xFF, G: 0xFF, B: 0xF0},
	"snow":        {R: 0xFF, G: 0xFA, B: 0xFA},
	"khaki":       {R: 0xF0, G: 0xE6, B: 0x8C},
	"indigo":      {R: 0x4B, G: 0x00, B: 0x82},
	"violet":      {R: 0xEE, G: 0x82, B: 0xEE},
	"plum":        {R: 0xDD, G: 0xA0, B: 0xDD},
	"orchid":      {R: 0xDA, G: 0x70, B: 0xD6},
	"lavender":    {R: 0xE6, G: 0xE6, B: 0xFA},
	"skyblue":     {R: 0x87, G: 0xCE, B: 0xEB},
	"steelblue":   {R: 0x46, G: 0x82, B: 0xB4},
	"royalblue":   {R: 0x41, G: 0x69, B: 0xE1},
	"dodgerblue":  {R: 0x1E, G: 0x90, B: 0xFF},
	"slateblue":   {R: 0x6A, G: 0x5A, B: 0xCD},
	"slategray":   {R: 0x70, G: 0x80, B: 0x90},
	"slategrey":   {R: 0x70, G: 0x80, B: 0x90},
	"lightgray":   {R: 0xD3, G: 0xD3, B: 0xD3},
	"lightgrey":   {R: 0xD3, G: 0xD3, B: 0xD3},
	"darkgray":    {R: 0xA9, G: 0xA9, B: 0xA9},
	"darkgrey":    {R: 0xA9, G: 0xA9, B: 0xA9},
	"dimgray":     {R: 0x69, G: 0x69, B: 0x69},
	"dimgrey":     {R: 0x69, G: 0x69, B: 0x69},
	"gainsboro":   {R: 0xDC, G: 0xDC, B: 0xDC},
	"whitesmoke":  {R: 0xF5, G: 0xF5, B: 0xF5},
	"ghostwhite":  {R: 0xF8, G: 0xF8, B: 0xFF},
	"aliceblue":   {R: 0xF0, G: 0xF8, B: 0xFF},
	"honeydew":    {R: 0xF0, G: 0xFF, B: 0xF0},
	"seashell":    {R: 0xFF, G: 0xF5, B: 0xEE},
	"mintcream":   {R: 0xF5, G: 0xFF, B: 0xFA},
	"forestgreen": {R: 0x22, G: 0x8B, B: 0x22},
	"seagreen":    {R: 0x2E, G: 0x8B, B: 0x57},
	"darkgreen":   {R: 0x00, G: 0x64, B: 0x00},
	"darkred":     {R: 0x8B, G: 0x00, B: 0x00},
	"darkblue":    {R: 0x00, G: 0x00, B: 0x8B},
	"darkorange":  {R: 0xFF, G: 0x8C, B: 0x00},
	"goldenrod":   {R: 0xDA, G: 0xA5, B: 0x20},
	"turquoise":   {R: 0x40, G: 0xE0, B: 0xD0},
}

// ParseColor parses a CSS color value: hex, rgb()/rgba(), hsl()/hsla()
// or a named color. Out-of-range components clamp instead of failing.
// Partially transparent colors flatten over white; near-invisible ones
// return false. Keywords that carry no concrete color (transparent,
// inherit, currentColor, var() references) also return false.
func ParseColor(value string) (models.RGB, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return models.RGB{}, false
	}

	switch v {
	case "transparent", "inherit", "initial", "unset", "revert", "currentcolor", "none", "auto":
		return models.RGB{}, false
	}
	if strings.Contains(v, "var(") || strings.Contains(v, "url(") ||
		strings.Contains(v, "gradient(") || strings.Contains(v, "calc(") {
		return models.RGB{}, false
	}

	if strings.HasPrefix(v, "#") {
		return parseHexValue(v)
	}
	if strings.HasPrefix(v, "rgb") {
		return parseRGBFunc(v)
	}
	if strings.HasPrefix(v, "hsl") {
		return parseHSLFunc(v)
	}
	if c, ok := namedColors[v]; ok {
		return c, true
	}
	return models.RGB{}, false
}

func parseHexValue(v string) (models.RGB, bool) {
	h := strings.TrimPrefix(v, "#")
	switch len(h) {
	case 3, 6:
		c, err := models.ParseHex(v)
		if err != nil {
			return models.RGB{}, false
		}
		return c, true
	case 4:
		// #RGBA shorthand
		c, err := models.ParseHex("#" + h[:3])
		if err != nil {
			return models.RGB{}, false
		}
		a, err := strconv.ParseUint(strings.Repeat(h[3:4], 2), 16, 8)
		if err != nil {
			return models.RGB{}, false
		}
		return flattenAlpha(c, float64(a)/255)
	case 8:
		c, err := models.ParseHex("#" + h[:6])
		if err != nil {
			return models.RGB{}, false
		}
		a, err := strconv.ParseUint(h[6:8], 16, 8)
		if err != nil {
			return models.RGB{}, false
		}
		return flattenAlpha(c, float64(a)/255)
	}
	return models.RGB{}, false
}

// parseRGBFunc handles rgb()/rgba() in both comma and space syntax,
// with integer or percentage channels.
func parseRGBFunc(v string) (models.RGB, bool) {
	args, ok := funcArgs(v)
	if !ok || len(args) < 3 {
		return models.RGB{}, false
	}

	parse := func(s string) (float64, bool) {
		if strings.HasSuffix(s, "%") {
			p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return 0, false
			}
			return p / 100 * 255, true
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, ok := parse(args[i])
		if !ok {
			return models.RGB{}, false
		}
		ch[i] = clampChannel(n)
	}
	c := models.RGB{R: ch[0], G: ch[1], B: ch[2]}

	if len(args) >= 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return models.RGB{}, false
		}
		return flattenAlpha(c, a)
	}
	return c, true
}

func parseHSLFunc(v string) (models.RGB, bool) {
	args, ok := funcArgs(v)
	if !ok || len(args) < 3 {
		return models.RGB{}, false
	}

	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return models.RGB{}, false
	}
	s, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
	if err != nil {
		return models.RGB{}, false
	}
	l, err := strconv.ParseFloat(strings.TrimSuffix(args[2], "%"), 64)
	if err != nil {
		return models.RGB{}, false
	}
	c := FromHSL(h, s/100, l/100)

	if len(args) >= 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return models.RGB{}, false
		}
		return flattenAlpha(c, a)
	}
	return c, true
}

// funcArgs strips "name(...)" and splits the arguments on commas,
// slashes or whitespace, whichever the syntax used.
func funcArgs(v string) ([]string, bool) {
	open := strings.IndexByte(v, '(')
	close := strings.LastIndexByte(v, ')')
	if open < 0 || close <= open {
		return nil, false
	}
	inner := v[open+1 : close]
	inner = strings.ReplaceAll(inner, ",", " ")
	inner = strings.ReplaceAll(inner, "/", " ")
	args := strings.Fields(inner)
	return args, len(args) > 0
}

func parseAlpha(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp01(p / 100), true
	}
	a, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(a), true
}

// flattenAlpha composites c over a white page. Near-invisible colors
// are dropped instead of resolving to white.
func flattenAlpha(c models.RGB, a float64) (models.RGB, bool) {
	if a < minVisibleAlpha {
		return models.RGB{}, false
	}
	if a >= 1 {
		return c, true
	}
	white := models.RGB{R: 255, G: 255, B: 255}
	return Mix(white, c, a), true
}

// ParseLength parses a CSS length into pixels. Only px, rem and em are
// meaningful for token extraction; rem/em assume the 16px root default.
// Percentages, keywords and unitless values return false.
func ParseLength(value string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || strings.Contains(v, "calc(") || strings.Contains(v, "var(") {
		return 0, false
	}
	if v == "0" {
		return 0, true
	}

	switch {
	case strings.HasSuffix(v, "px"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case strings.HasSuffix(v, "rem"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "rem"), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n * 16, true
	case strings.HasSuffix(v, "em"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "em"), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n * 16, true
	}
	return 0, false
}
