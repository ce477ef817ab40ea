package frameworks

import (
	"regexp"
	"strings"

	"github.com/themescrape/themescrape/models"
)

// Bootstrap names roles directly in its contextual classes: btn-danger,
// badge-success, alert-info, text-warning, bg-primary and the outline
// variants all carry the role as a suffix.
var bootstrapRole = regexp.MustCompile(`^(?:btn|badge|alert|text|bg|border|link|table|list-group-item)-(?:outline-)?(primary|secondary|success|danger|warning|info)$`)

var bootstrapComponent = regexp.MustCompile(`^(btn|badge|alert|card|navbar|modal|toast|list-group|jumbotron|accordion)(?:-[\w-]+)?$`)

func bootstrapHints(tokens []string, h *Hints) {
	for _, tok := range tokens {
		if m := bootstrapRole.FindStringSubmatch(tok); m != nil {
			if role := models.ParseRole(m[1]); role != models.RoleNone && h.Role == models.RoleNone {
				h.Role = role
			}
		}
		if m := bootstrapComponent.FindStringSubmatch(tok); m != nil {
			switch m[1] {
			case "btn":
				h.Button = true
			case "badge", "alert", "toast":
				h.Badge = true
			case "card", "navbar", "modal", "list-group", "jumbotron", "accordion":
				h.Surface = true
			}
		}
		if tok == "text-muted" || tok == "text-body-secondary" {
			h.Muted = true
		}
	}
}

func detectBootstrap(classes, assets string) bool {
	if strings.Contains(assets, "bootstrap") {
		return true
	}
	hits := 0
	for _, marker := range []string{" btn ", " btn-", " container ", " container-fluid ", " row ", " col-", " navbar ", " card "} {
		if strings.Contains(classes, marker) {
			hits++
		}
	}
	return hits >= 2
}
