package models

// Role is a semantic slot in the resolved palette. Brand roles carry
// the site's identity; status roles carry feedback states.
type Role string

const (
	RoleNone      Role = ""
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
	RoleTertiary  Role = "tertiary"
	RoleSuccess   Role = "success"
	RoleWarning   Role = "warning"
	RoleDanger    Role = "danger"
	RoleInfo      Role = "info"
)

// Roles returns every resolvable role in resolution order. Brand roles
// resolve before status roles so frequency ranking cannot hand a brand
// color to a status slot first.
func Roles() []Role {
	return []Role{
		RolePrimary, RoleSecondary, RoleTertiary,
		RoleSuccess, RoleWarning, RoleDanger, RoleInfo,
	}
}

// ParseRole maps a string onto a role, RoleNone when unrecognized.
func ParseRole(s string) Role {
	switch Role(s) {
	case RolePrimary, RoleSecondary, RoleTertiary,
		RoleSuccess, RoleWarning, RoleDanger, RoleInfo:
		return Role(s)
	}
	return RoleNone
}

// Status reports whether r is a feedback role rather than a brand role.
func (r Role) Status() bool {
	switch r {
	case RoleSuccess, RoleWarning, RoleDanger, RoleInfo:
		return true
	}
	return false
}
