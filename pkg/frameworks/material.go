package frameworks

import (
	"strings"

	"github.com/themescrape/themescrape/models"
)

// Material implementations (MDC, MDL, Angular Material, MUI) prefix
// component classes and name palettes rather than roles. "warn" is
// Material's danger palette and "accent" its secondary.
var materialRoles = map[string]models.Role{
	"mdc-theme--primary":    models.RolePrimary,
	"mdc-theme--secondary":  models.RoleSecondary,
	"mdl-color--primary":    models.RolePrimary,
	"mdl-color--accent":     models.RoleSecondary,
	"mat-primary":           models.RolePrimary,
	"mat-accent":            models.RoleSecondary,
	"mat-warn":              models.RoleDanger,
	"mdc-theme--error":      models.RoleDanger,
	"mdl-color-text--error": models.RoleDanger,
}

func materialHints(tokens []string, h *Hints) {
	for _, tok := range tokens {
		if role, ok := materialRoles[tok]; ok && h.Role == models.RoleNone {
			h.Role = role
		}

		base := tok
		for _, prefix := range []string{"mdc-", "mdl-", "mat-", "mui"} {
			if !strings.HasPrefix(tok, prefix) {
				continue
			}
			base = strings.TrimPrefix(tok, prefix)
			break
		}
		if base == tok {
			continue
		}

		switch {
		case strings.HasPrefix(base, "button"), strings.HasPrefix(base, "fab"), strings.HasPrefix(base, "icon-button"):
			h.Button = true
		case strings.HasPrefix(base, "chip"), strings.HasPrefix(base, "snackbar"), strings.HasPrefix(base, "badge"):
			h.Badge = true
		case strings.HasPrefix(base, "card"), strings.HasPrefix(base, "dialog"), strings.HasPrefix(base, "drawer"),
			strings.HasPrefix(base, "top-app-bar"), strings.HasPrefix(base, "paper"), strings.HasPrefix(base, "appbar"):
			h.Surface = true
		}
	}
}

func detectMaterial(classes, assets string) bool {
	for _, marker := range []string{"material-components", "material.io", "materialize", "@material", "mui"} {
		if strings.Contains(assets, marker) {
			return true
		}
	}
	prefixed := strings.Count(classes, " mdc-") + strings.Count(classes, " mdl-") +
		strings.Count(classes, " mat-") + strings.Count(classes, " muibutton") + strings.Count(classes, " muipaper")
	return prefixed >= 3
}
