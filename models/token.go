package models

import "sort"

// Token is one resolved design decision. Value is the canonical string
// form ("#0F79F3", "16px", a font stack) so consumers never repeat the
// color math that produced it.
type Token struct {
	Value      string    `json:"value" yaml:"value"`
	Kind       ValueKind `json:"kind" yaml:"kind"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
}

// TokenSet is the full resolved vocabulary for one run. The map always
// contains every canonical name; resolution failures surface as
// fallback values with zero confidence, never as missing keys.
type TokenSet struct {
	RunID  string           `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Tokens map[string]Token `json:"tokens" yaml:"tokens"`
}

// NewTokenSet returns an empty set ready for Put.
func NewTokenSet() TokenSet {
	return TokenSet{Tokens: make(map[string]Token)}
}

// Put stores a token under its canonical name.
func (ts *TokenSet) Put(name string, t Token) {
	if ts.Tokens == nil {
		ts.Tokens = make(map[string]Token)
	}
	ts.Tokens[name] = t
}

// Get looks a token up by canonical name.
func (ts TokenSet) Get(name string) (Token, bool) {
	t, ok := ts.Tokens[name]
	return t, ok
}

// Names returns every token name in sorted order.
func (ts TokenSet) Names() []string {
	names := make([]string, 0, len(ts.Tokens))
	for name := range ts.Tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tokens in the set.
func (ts TokenSet) Len() int {
	return len(ts.Tokens)
}

// AverageConfidence returns the mean confidence across all tokens,
// zero for an empty set.
func (ts TokenSet) AverageConfidence() float64 {
	if len(ts.Tokens) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range ts.Tokens {
		sum += t.Confidence
	}
	return sum / float64(len(ts.Tokens))
}

// LowConfidence returns the sorted names of tokens at or below the
// given confidence threshold.
func (ts TokenSet) LowConfidence(threshold float64) []string {
	var names []string
	for name, t := range ts.Tokens {
		if t.Confidence <= threshold {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Diagnostic severities.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Diagnostic codes. Resolution never aborts; problems are recorded
// against the run instead.
const (
	DiagUnresolvedRole     = "unresolved_role"
	DiagInvalidObservation = "invalid_observation"
	DiagScaleSynthesis     = "scale_synthesis_failure"
)

// Diagnostic records a non-fatal resolution problem.
type Diagnostic struct {
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
}
