// Package spacing elects the dimension tokens: the base spacing unit,
// corner radius and body font size. Votes come from dimension
// observations across every source, weighted by frequency and source
// trust. Spacing additionally snaps to a 4px grid because authored
// spacing systems are overwhelmingly grid-based and sub-grid jitter in
// computed styles is sampling noise, not design intent.
package spacing

import (
	"math"
	"sort"

	"github.com/themescrape/themescrape/models"
)

// Accepted ranges per dimension class. Values outside are layout
// measurements (hero margins, banner heights) rather than tokens.
const (
	minSpacing = 4
	maxSpacing = 64
	minRadius  = 0
	maxRadius  = 32
	minFont    = 8
	maxFont    = 40
)

const (
	defaultBase   = 16
	defaultRadius = 4
	defaultFont   = 16
	gridPx        = 4
)

// Step is one named entry of the spacing scale.
type Step struct {
	Name string
	Px   float64
}

// Result carries the elected dimensions plus how many distinct sources
// voted for each winner, which feeds token confidence downstream.
type Result struct {
	BasePx   float64
	Unit     float64
	RadiusPx float64
	FontPx   float64

	BaseObserved   bool
	RadiusObserved bool
	FontObserved   bool

	BaseAgree   int
	RadiusAgree int
	FontAgree   int
}

// Steps expands the base unit into the five-step scale.
func (r Result) Steps() []Step {
	return []Step{
		{Name: "xs", Px: r.BasePx / 4},
		{Name: "sm", Px: r.BasePx / 2},
		{Name: "md", Px: r.BasePx},
		{Name: "lg", Px: r.BasePx * 1.5},
		{Name: "xl", Px: r.BasePx * 2},
	}
}

type tally struct {
	weight  float64
	sources map[string]bool
}

type ballot struct {
	votes map[float64]*tally
}

func newBallot() *ballot {
	return &ballot{votes: map[float64]*tally{}}
}

// add snaps to half pixels before counting so that fractional computed
// values like 15.994px collapse onto their authored neighbor.
func (b *ballot) add(px, weight float64, source string) {
	key := math.Round(px*2) / 2
	t := b.votes[key]
	if t == nil {
		t = &tally{sources: map[string]bool{}}
		b.votes[key] = t
	}
	t.weight += weight
	t.sources[source] = true
}

// winner elects the in-range value with the highest weight. Ties go to
// the smaller value so the result never depends on map order.
func (b *ballot) winner(lo, hi float64) (px float64, agree int, ok bool) {
	keys := make([]float64, 0, len(b.votes))
	for k := range b.votes {
		if k >= lo && k <= hi {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return 0, 0, false
	}
	sort.Float64s(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if b.votes[k].weight > b.votes[best].weight {
			best = k
		}
	}
	return best, len(b.votes[best].sources), true
}

// Resolve elects base spacing, radius and font size from every
// dimension observation in the given sets.
func Resolve(sets []models.ObservationSet) Result {
	spacingVotes := newBallot()
	radiusVotes := newBallot()
	fontVotes := newBallot()

	for _, set := range sets {
		trust := set.TrustWeight
		if trust <= 0 {
			trust = 1
		}
		for _, o := range set.Observations {
			if o.Kind != models.KindDimension {
				continue
			}
			freq := o.Frequency
			if freq <= 0 {
				freq = 1
			}
			w := float64(freq) * trust
			switch o.Context {
			case models.ContextSpacing:
				spacingVotes.add(o.Px, w, set.SourceID)
			case models.ContextRadius:
				radiusVotes.add(o.Px, w, set.SourceID)
			case models.ContextFontSize:
				fontVotes.add(o.Px, w, set.SourceID)
			}
		}
	}

	r := Result{BasePx: defaultBase, RadiusPx: defaultRadius, FontPx: defaultFont}

	if px, agree, ok := spacingVotes.winner(minSpacing, maxSpacing); ok {
		r.BasePx = snapToGrid(px)
		r.BaseObserved = true
		r.BaseAgree = agree
	}
	if px, agree, ok := radiusVotes.winner(minRadius, maxRadius); ok {
		r.RadiusPx = px
		r.RadiusObserved = true
		r.RadiusAgree = agree
	}
	if px, agree, ok := fontVotes.winner(minFont, maxFont); ok {
		r.FontPx = px
		r.FontObserved = true
		r.FontAgree = agree
	}

	if math.Mod(r.BasePx, 8) == 0 {
		r.Unit = 8
	} else {
		r.Unit = gridPx
	}
	return r
}

func snapToGrid(px float64) float64 {
	snapped := math.Round(px/gridPx) * gridPx
	if snapped < minSpacing {
		snapped = minSpacing
	}
	if snapped > maxSpacing {
		snapped = maxSpacing
	}
	return snapped
}
