package semantic

import "github.com/themescrape/themescrape/models"

// fallbackBases are emitted with zero confidence when no candidate
// resolves a role. Consumers always see a complete palette.
var fallbackBases = map[models.Role]models.RGB{
	models.RolePrimary:   models.MustHex("#3B82F6"),
	models.RoleSecondary: models.MustHex("#64748B"),
	models.RoleTertiary:  models.MustHex("#8B5CF6"),
	models.RoleSuccess:   models.MustHex("#22C55E"),
	models.RoleWarning:   models.MustHex("#F59E0B"),
	models.RoleDanger:    models.MustHex("#EF4444"),
	models.RoleInfo:      models.MustHex("#0EA5E9"),
}

// FallbackBase returns the builtin base color for a role.
func FallbackBase(r models.Role) models.RGB {
	return fallbackBases[r]
}

// hueBand is a wedge of the hue circle a status role gravitates to.
type hueBand struct {
	lo, hi float64
	wraps  bool
}

func (b hueBand) contains(h float64) bool {
	if b.wraps {
		return h >= b.lo || h < b.hi
	}
	return h >= b.lo && h < b.hi
}

// statusBands map feedback roles onto conventional hue wedges: red for
// danger, amber for warning, green for success, blue-cyan for info.
var statusBands = map[models.Role]hueBand{
	models.RoleDanger:  {lo: 345, hi: 25, wraps: true},
	models.RoleWarning: {lo: 25, hi: 70},
	models.RoleSuccess: {lo: 90, hi: 170},
	models.RoleInfo:    {lo: 190, hi: 260},
}

// minStatusSaturation filters washed-out colors from hue-band
// assignment; a status color must be recognizably colored.
const minStatusSaturation = 0.25
