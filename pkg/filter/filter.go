// Package filter narrows observation sets before merge. A strategy is
// a comma-separated string of key:value parts, for example
// "kind:color,context:button-background|link-text,freq:>=2".
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/themescrape/themescrape/models"
)

// Strategy is a parsed filter. Nil criteria pass everything, so the
// zero value is a no-op.
type Strategy struct {
	MinFrequency int
	Kinds        map[models.ValueKind]struct{}
	Contexts     map[models.Context]struct{}
	Roles        map[models.Role]struct{}
}

// ParseStrategy parses a strategy string. The empty string is the
// no-op strategy.
func ParseStrategy(strategyStr string) (*Strategy, error) {
	strategy := &Strategy{}
	if strategyStr == "" {
		return strategy, nil
	}

	for _, part := range strings.Split(strategyStr, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid strategy part: %s", part)
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])

		switch key {
		case "freq":
			if !strings.HasPrefix(value, ">=") {
				return nil, fmt.Errorf("unsupported frequency operator in: %s", value)
			}
			n, err := strconv.Atoi(strings.TrimSpace(value[2:]))
			if err != nil {
				return nil, fmt.Errorf("invalid frequency value: %s", value)
			}
			strategy.MinFrequency = n
		case "kind":
			strategy.Kinds = make(map[models.ValueKind]struct{})
			for _, v := range strings.Split(value, "|") {
				kind := models.ValueKind(strings.TrimSpace(v))
				if kind != models.KindColor && kind != models.KindDimension {
					return nil, fmt.Errorf("unknown kind: %s", v)
				}
				strategy.Kinds[kind] = struct{}{}
			}
		case "context":
			strategy.Contexts = make(map[models.Context]struct{})
			for _, v := range strings.Split(value, "|") {
				ctx := models.Context(strings.TrimSpace(v))
				if !ctx.Known() {
					return nil, fmt.Errorf("unknown context: %s", v)
				}
				strategy.Contexts[ctx] = struct{}{}
			}
		case "role":
			strategy.Roles = make(map[models.Role]struct{})
			for _, v := range strings.Split(value, "|") {
				role := models.ParseRole(strings.TrimSpace(v))
				if role == models.RoleNone {
					return nil, fmt.Errorf("unknown role: %s", v)
				}
				strategy.Roles[role] = struct{}{}
			}
		default:
			return nil, fmt.Errorf("unknown strategy key: %s", key)
		}
	}

	return strategy, nil
}

// Apply returns a copy of set holding only observations the strategy
// passes. The input set is not modified.
func Apply(set models.ObservationSet, strategy *Strategy) models.ObservationSet {
	if strategy == nil {
		return set
	}

	filtered := set
	filtered.Observations = nil
	for _, o := range set.Observations {
		if strategy.passes(o) {
			filtered.Observations = append(filtered.Observations, o)
		}
	}
	return filtered
}

// ApplyAll filters every set in place order, dropping sets that end up
// empty.
func ApplyAll(sets []models.ObservationSet, strategy *Strategy) []models.ObservationSet {
	if strategy == nil {
		return sets
	}

	var out []models.ObservationSet
	for _, set := range sets {
		f := Apply(set, strategy)
		if len(f.Observations) > 0 {
			out = append(out, f)
		}
	}
	return out
}

func (s *Strategy) passes(o models.RawObservation) bool {
	if o.Frequency < s.MinFrequency {
		return false
	}
	if s.Kinds != nil {
		if _, ok := s.Kinds[o.Kind]; !ok {
			return false
		}
	}
	if s.Contexts != nil {
		if _, ok := s.Contexts[o.Context]; !ok {
			return false
		}
	}
	if s.Roles != nil {
		if _, ok := s.Roles[o.RoleHint]; !ok {
			return false
		}
	}
	return true
}
