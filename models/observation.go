package models

import "time"

// ValueKind discriminates what a raw observation carries.
type ValueKind string

const (
	KindColor     ValueKind = "color"
	KindDimension ValueKind = "dimension"
	// KindFont only appears on compiled tokens, never on observations.
	KindFont ValueKind = "font"
)

// RawObservation is a single sampled value: a color or a pixel length,
// tagged with where it was seen and how often.
type RawObservation struct {
	Kind      ValueKind `json:"kind" yaml:"kind"`
	Color     RGB       `json:"color" yaml:"color"`
	Px        float64   `json:"px" yaml:"px"`
	Context   Context   `json:"context" yaml:"context"`
	RoleHint  Role      `json:"role_hint,omitempty" yaml:"role_hint,omitempty"`
	Frequency int       `json:"frequency" yaml:"frequency"`
	Source    string    `json:"source,omitempty" yaml:"source,omitempty"`
}

// ObservationSet is everything one sampler pass produced from one
// source. TrustWeight scales the set's observation frequencies during
// merge; Exact marks values read out of author stylesheets rather than
// inferred from rendered markup.
type ObservationSet struct {
	SourceID     string           `json:"source_id" yaml:"source_id"`
	CapturedAt   time.Time        `json:"captured_at" yaml:"captured_at"`
	TrustWeight  float64          `json:"trust_weight" yaml:"trust_weight"`
	Exact        bool             `json:"exact" yaml:"exact"`
	Meta         SourceMetadata   `json:"meta,omitempty" yaml:"meta,omitempty"`
	Observations []RawObservation `json:"observations" yaml:"observations"`
}

// AddColor records one sighting of a color in a context, merging into
// an existing observation when kind, color, context and hint all match.
func (s *ObservationSet) AddColor(c RGB, ctx Context, hint Role) {
	for i := range s.Observations {
		o := &s.Observations[i]
		if o.Kind == KindColor && o.Color == c && o.Context == ctx && o.RoleHint == hint {
			o.Frequency++
			return
		}
	}
	s.Observations = append(s.Observations, RawObservation{
		Kind:      KindColor,
		Color:     c,
		Context:   ctx,
		RoleHint:  hint,
		Frequency: 1,
		Source:    s.SourceID,
	})
}

// AddDimension records one sighting of a pixel length in a context.
func (s *ObservationSet) AddDimension(px float64, ctx Context) {
	for i := range s.Observations {
		o := &s.Observations[i]
		if o.Kind == KindDimension && o.Px == px && o.Context == ctx {
			o.Frequency++
			return
		}
	}
	s.Observations = append(s.Observations, RawObservation{
		Kind:      KindDimension,
		Px:        px,
		Context:   ctx,
		Frequency: 1,
		Source:    s.SourceID,
	})
}

// Colors counts color observations in the set.
func (s *ObservationSet) Colors() int {
	n := 0
	for _, o := range s.Observations {
		if o.Kind == KindColor {
			n++
		}
	}
	return n
}

// Dimensions counts dimension observations in the set.
func (s *ObservationSet) Dimensions() int {
	n := 0
	for _, o := range s.Observations {
		if o.Kind == KindDimension {
			n++
		}
	}
	return n
}

// Fold merges another set's observations into s, combining frequencies
// when kind, value, context and role hint all match. Folded
// observations take on s's source ID; trust and exactness stay
// whatever s carries.
func (s *ObservationSet) Fold(other ObservationSet) {
	for _, o := range other.Observations {
		s.fold(o)
	}
}

func (s *ObservationSet) fold(o RawObservation) {
	for i := range s.Observations {
		d := &s.Observations[i]
		if d.Kind == o.Kind && d.Color == o.Color && d.Px == o.Px &&
			d.Context == o.Context && d.RoleHint == o.RoleHint {
			d.Frequency += o.Frequency
			return
		}
	}
	o.Source = s.SourceID
	s.Observations = append(s.Observations, o)
}

// SourceObservations bundles the sets one scrape of a page produced:
// the computed-style set sampled from rendered markup and, when the
// sample mode read CSS, an exact set of stylesheet literals. Both
// carry the page URL as source ID, so cross-source confidence counts
// pages, not provenance channels.
type SourceObservations struct {
	Computed ObservationSet  `json:"computed" yaml:"computed"`
	Exact    *ObservationSet `json:"exact,omitempty" yaml:"exact,omitempty"`
}

// Sets flattens the bundle for the resolution engine, computed first.
func (b SourceObservations) Sets() []ObservationSet {
	sets := []ObservationSet{b.Computed}
	if b.Exact != nil && len(b.Exact.Observations) > 0 {
		sets = append(sets, *b.Exact)
	}
	return sets
}

// Combined returns a single set holding every observation from the
// bundle, for consumers that want one view of the page: theme
// detection, observation counts, analytics. The bundle is not mutated.
func (b SourceObservations) Combined() ObservationSet {
	out := b.Computed
	out.Observations = append([]RawObservation(nil), b.Computed.Observations...)
	if b.Exact != nil {
		out.Fold(*b.Exact)
	}
	return out
}
