package runs

import (
	"fmt"

	"github.com/themescrape/themescrape/models"
	dbpkg "github.com/themescrape/themescrape/pkg/db"
)

// TokenChange records a token whose value differs between two runs.
type TokenChange struct {
	Name          string  `json:"name" yaml:"name"`
	OldValue      string  `json:"old_value" yaml:"old_value"`
	NewValue      string  `json:"new_value" yaml:"new_value"`
	OldConfidence float64 `json:"old_confidence" yaml:"old_confidence"`
	NewConfidence float64 `json:"new_confidence" yaml:"new_confidence"`
}

// DiffResponse is the data returned by the DIFF verb. "Added" means
// present in the newer run only; "removed" means present in the base
// run only.
type DiffResponse struct {
	BaseRun   string        `json:"base_run" yaml:"base_run"`
	OtherRun  string        `json:"other_run" yaml:"other_run"`
	Added     []TokenEntry  `json:"added,omitempty" yaml:"added,omitempty"`
	Removed   []TokenEntry  `json:"removed,omitempty" yaml:"removed,omitempty"`
	Changed   []TokenChange `json:"changed,omitempty" yaml:"changed,omitempty"`
	Unchanged int           `json:"unchanged" yaml:"unchanged"`
}

// ExecuteDiff compares two runs token by token. req.RunID is the base,
// req.CompareID the other run; either may be a unique ID prefix.
func ExecuteDiff(db *dbpkg.DB, req models.Request) (models.Response, error) {
	if req.RunID == "" || req.CompareID == "" {
		return models.Response{}, fmt.Errorf("diff requires two run IDs")
	}

	base, err := db.GetRun(req.RunID)
	if err != nil {
		return models.Response{}, err
	}
	other, err := db.GetRun(req.CompareID)
	if err != nil {
		return models.Response{}, err
	}

	baseSet, err := db.LoadTokens(base.RunID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to load tokens for %s: %w", dbpkg.ShortRunID(base.RunID), err)
	}
	otherSet, err := db.LoadTokens(other.RunID)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to load tokens for %s: %w", dbpkg.ShortRunID(other.RunID), err)
	}

	diff := DiffResponse{
		BaseRun:  base.RunID,
		OtherRun: other.RunID,
	}

	for _, name := range baseSet.Names() {
		bt, _ := baseSet.Get(name)
		ot, ok := otherSet.Get(name)
		if !ok {
			diff.Removed = append(diff.Removed, TokenEntry{
				Name: name, Value: bt.Value, Kind: string(bt.Kind), Confidence: bt.Confidence,
			})
			continue
		}
		if bt.Value != ot.Value {
			diff.Changed = append(diff.Changed, TokenChange{
				Name:          name,
				OldValue:      bt.Value,
				NewValue:      ot.Value,
				OldConfidence: bt.Confidence,
				NewConfidence: ot.Confidence,
			})
			continue
		}
		diff.Unchanged++
	}

	for _, name := range otherSet.Names() {
		if _, ok := baseSet.Get(name); !ok {
			ot, _ := otherSet.Get(name)
			diff.Added = append(diff.Added, TokenEntry{
				Name: name, Value: ot.Value, Kind: string(ot.Kind), Confidence: ot.Confidence,
			})
		}
	}

	return models.Response{Verb: VerbDIFF, Data: diff}, nil
}
