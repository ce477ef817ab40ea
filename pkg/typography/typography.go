// Package typography elects the base font family from source metadata
// and appends a script-aware fallback stack. The fallback stack is
// chosen by the detected page language so that a Japanese or Korean
// site does not end up with a latin-only stack in front of the
// browser default.
package typography

import (
	"sort"
	"strconv"
	"strings"

	"github.com/themescrape/themescrape/models"
)

// Result is the resolved font stack. Primary is empty when no family
// was observed anywhere and the stack is pure fallback.
type Result struct {
	Family   string
	Primary  string
	Language string
	Observed bool
	Agree    int
}

// Generic CSS families and keywords that cannot serve as the elected
// primary. They survive only as part of the fallback stack.
var genericFamilies = map[string]bool{
	"serif":         true,
	"sans-serif":    true,
	"monospace":     true,
	"cursive":       true,
	"fantasy":       true,
	"system-ui":     true,
	"ui-sans-serif": true,
	"ui-serif":      true,
	"ui-monospace":  true,
	"inherit":       true,
	"initial":       true,
	"unset":         true,
}

const latinStack = `system-ui, -apple-system, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif`

var scriptStacks = map[string]string{
	"zh": `"PingFang SC", "Hiragino Sans GB", "Microsoft YaHei", sans-serif`,
	"ja": `"Hiragino Kaku Gothic ProN", "Yu Gothic", Meiryo, sans-serif`,
	"ko": `"Apple SD Gothic Neo", "Malgun Gothic", sans-serif`,
	"ar": `"Segoe UI", Tahoma, "Geeza Pro", sans-serif`,
	"th": `"Leelawadee UI", Thonburi, sans-serif`,
}

// FallbackStack returns the script fallback for an ISO 639-1 language
// code. Unknown or latin-script languages share the latin stack.
func FallbackStack(lang string) string {
	if s, ok := scriptStacks[strings.ToLower(lang)]; ok {
		return s
	}
	return latinStack
}

// Resolve elects the most observed concrete family across sources and
// the most observed language, then assembles the full stack.
func Resolve(metas []models.SourceMetadata) Result {
	type familyTally struct {
		display string
		votes   int
		sources map[string]bool
	}
	families := map[string]*familyTally{}
	var familyOrder []string

	langVotes := map[string]int{}
	var langOrder []string

	for i, meta := range metas {
		src := meta.URL
		if src == "" {
			src = meta.FinalURL
		}
		if src == "" {
			src = "source-" + strconv.Itoa(i)
		}
		for _, raw := range meta.FontFamilies {
			name := CleanFamily(raw)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if genericFamilies[key] {
				continue
			}
			t := families[key]
			if t == nil {
				t = &familyTally{display: name, sources: map[string]bool{}}
				families[key] = t
				familyOrder = append(familyOrder, key)
			}
			t.votes++
			t.sources[src] = true
		}
		if meta.Language != "" {
			key := strings.ToLower(meta.Language)
			if _, seen := langVotes[key]; !seen {
				langOrder = append(langOrder, key)
			}
			langVotes[key]++
		}
	}

	r := Result{}

	sort.Strings(langOrder)
	for _, lang := range langOrder {
		if r.Language == "" || langVotes[lang] > langVotes[r.Language] {
			r.Language = lang
		}
	}

	sort.Strings(familyOrder)
	var winner *familyTally
	for _, key := range familyOrder {
		t := families[key]
		if winner == nil || t.votes > winner.votes {
			winner = t
		}
	}

	fallback := FallbackStack(r.Language)
	if winner == nil {
		r.Family = fallback
		return r
	}

	r.Primary = winner.display
	r.Observed = true
	r.Agree = len(winner.sources)
	r.Family = quoteFamily(winner.display) + ", " + fallback
	return r
}

// CleanFamily strips quotes and surrounding whitespace from one
// font-family list entry.
func CleanFamily(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// quoteFamily re-quotes names containing spaces for CSS output.
func quoteFamily(name string) string {
	if strings.ContainsAny(name, " /") {
		return `"` + name + `"`
	}
	return name
}
