// Package stylesheet samples author CSS. Declarations read here are
// values the author literally wrote, so the set carries stylesheet
// trust and Exact=true. Custom properties resolve one level of var()
// indirection and their names contribute role hints.
package stylesheet

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/themescrape/themescrape/models"
	"github.com/themescrape/themescrape/pkg/colormath"
	"github.com/themescrape/themescrape/pkg/frameworks"
	"github.com/themescrape/themescrape/pkg/sampler"
)

// Result is one stylesheet's harvest. Imports lists @import targets
// for the caller to fetch.
type Result struct {
	Set          models.ObservationSet
	FontFamilies []string
	Imports      []string
}

// Sample parses cssText into exact-provenance observations. A sheet
// that cannot be parsed at all is an error; a parseable sheet with
// unreadable values just yields fewer observations.
func Sample(source, cssText string, trust models.TrustConfig) (Result, error) {
	parsed, err := parser.Parse(cssText)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse stylesheet: %w", err)
	}

	s := &sheet{vars: map[string]string{}}
	s.rec.Set = &models.ObservationSet{
		SourceID:    source,
		CapturedAt:  time.Now().UTC(),
		TrustWeight: trust.Stylesheet,
		Exact:       true,
	}

	s.collectVars(parsed.Rules)
	s.customProperties()
	s.rules(parsed.Rules)

	return Result{
		Set:          *s.rec.Set,
		FontFamilies: s.rec.Fonts,
		Imports:      s.imports,
	}, nil
}

type sheet struct {
	rec     sampler.Recorder
	vars    map[string]string
	imports []string
}

// collectVars walks every rule, nested ones included, so var()
// references resolve regardless of declaration order.
func (s *sheet) collectVars(rules []*css.Rule) {
	for _, rule := range rules {
		for _, decl := range rule.Declarations {
			if strings.HasPrefix(decl.Property, "--") {
				s.vars[decl.Property] = strings.TrimSpace(decl.Value)
			}
		}
		s.collectVars(rule.Rules)
	}
}

func (s *sheet) rules(rules []*css.Rule) {
	for _, rule := range rules {
		if rule.Kind == css.AtRule {
			s.atRule(rule)
			continue
		}
		bg, fg, role := selectorContexts(rule.Selectors)
		for _, decl := range rule.Declarations {
			if strings.HasPrefix(decl.Property, "--") {
				continue
			}
			prop := strings.ToLower(strings.TrimSpace(decl.Property))
			value := s.resolve(strings.TrimSpace(decl.Value))
			if prop == "" || value == "" {
				continue
			}
			s.rec.Declaration(prop, value, bg, fg, role)
		}
	}
}

func (s *sheet) atRule(rule *css.Rule) {
	name := strings.ToLower(rule.Name)
	switch name {
	case "@import":
		if target, ok := parseImport(rule.Prelude); ok {
			s.imports = append(s.imports, target)
		}
	case "@keyframes", "@-webkit-keyframes", "@charset", "@namespace", "@page":
		// Animation frames and document plumbing say nothing about
		// the resting theme.
	case "@font-face":
		for _, decl := range rule.Declarations {
			if strings.EqualFold(decl.Property, "font-family") {
				if fam := strings.TrimSpace(decl.Value); fam != "" {
					s.rec.Fonts = append(s.rec.Fonts, fam)
				}
			}
		}
	default:
		// @media, @supports and friends wrap normal rules.
		s.rules(rule.Rules)
	}
}

var varRef = regexp.MustCompile(`var\(\s*(--[A-Za-z0-9_-]+)\s*(?:,\s*([^()]*))?\)`)

// resolve substitutes one level of var() indirection. Unknown names
// fall back to the declared fallback; a chain deeper than one level
// leaves a var() behind and the value is dropped downstream.
func (s *sheet) resolve(value string) string {
	if !strings.Contains(value, "var(") {
		return value
	}
	return varRef.ReplaceAllStringFunc(value, func(m string) string {
		sub := varRef.FindStringSubmatch(m)
		if v, ok := s.vars[sub[1]]; ok {
			return v
		}
		return strings.TrimSpace(sub[2])
	})
}

// customProperties turns declared variables into observations of
// their own. Names like --color-success are author statements of
// intent, so they carry role hints.
func (s *sheet) customProperties() {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := s.resolve(s.vars[name])
		lower := strings.ToLower(name)
		if c, ok := colormath.ParseColor(value); ok {
			s.rec.Set.AddColor(c, varColorContext(lower), varRole(lower))
			continue
		}
		if ctx, ok := varDimensionContext(lower); ok {
			if px, ok := colormath.ParseLength(value); ok && px > 0 {
				s.rec.Set.AddDimension(px, ctx)
			}
		}
	}
}

func varRole(name string) models.Role {
	for _, role := range models.Roles() {
		if strings.Contains(name, string(role)) {
			return role
		}
	}
	switch {
	case strings.Contains(name, "error"):
		return models.RoleDanger
	case strings.Contains(name, "accent"):
		return models.RoleSecondary
	case strings.Contains(name, "brand"):
		return models.RolePrimary
	}
	return models.RoleNone
}

func varColorContext(name string) models.Context {
	switch {
	case strings.Contains(name, "text") || strings.Contains(name, "foreground") || strings.Contains(name, "-fg"):
		return models.ContextBodyText
	case strings.Contains(name, "border"):
		return models.ContextBorder
	case strings.Contains(name, "background") || strings.Contains(name, "-bg") || strings.Contains(name, "surface"):
		return models.ContextSurface
	}
	return models.ContextUnknown
}

func varDimensionContext(name string) (models.Context, bool) {
	switch {
	case strings.Contains(name, "radius"):
		return models.ContextRadius, true
	case strings.Contains(name, "spacing") || strings.Contains(name, "space") ||
		strings.Contains(name, "gap") || strings.Contains(name, "padding") ||
		strings.Contains(name, "margin"):
		return models.ContextSpacing, true
	case strings.Contains(name, "font-size") || strings.Contains(name, "text-size"):
		return models.ContextFontSize, true
	}
	return models.ContextUnknown, false
}

// selectorContexts infers contexts from a rule's first selector. The
// subject compound (what the declarations actually style) decides.
func selectorContexts(selectors []string) (bg, fg models.Context, role models.Role) {
	if len(selectors) == 0 {
		return models.ContextSurface, models.ContextUnknown, models.RoleNone
	}
	tag, classes := subject(selectors[0])
	class := strings.Join(classes, " ")
	hints := frameworks.Hint(class)
	bg, fg = sampler.ContextsFor(tag, class, hints)
	return bg, fg, hints.Role
}

// subject returns the tag and classes of a selector's last compound,
// with pseudo-classes, IDs and attribute tests stripped.
func subject(selector string) (tag string, classes []string) {
	compounds := strings.FieldsFunc(selector, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '>' || r == '+' || r == '~'
	})
	if len(compounds) == 0 {
		return "", nil
	}
	compound := compounds[len(compounds)-1]
	if i := strings.IndexAny(compound, ":["); i >= 0 {
		compound = compound[:i]
	}

	rest := compound
	for rest != "" {
		next := strings.IndexAny(rest[1:], ".#")
		var part string
		if next < 0 {
			part, rest = rest, ""
		} else {
			part, rest = rest[:next+1], rest[next+1:]
		}
		switch {
		case strings.HasPrefix(part, "."):
			if name := part[1:]; name != "" {
				classes = append(classes, name)
			}
		case strings.HasPrefix(part, "#"), part == "*", part == "&":
			// IDs and wildcards carry no context on their own.
		default:
			tag = strings.ToLower(part)
		}
	}
	return tag, classes
}

var importTarget = regexp.MustCompile(`(?i)^\s*(?:url\(\s*)?["']?([^"')\s]+)["']?\s*\)?`)

func parseImport(prelude string) (string, bool) {
	m := importTarget.FindStringSubmatch(prelude)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}
