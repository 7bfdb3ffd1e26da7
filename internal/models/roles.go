package models

// Role names used in script permission sets and JWT claims.
const (
	RoleAdmin    = "admin"
	RoleDirector = "director"
	RoleEditor   = "editor"
	RoleViewer   = "viewer"
)

// AllRoles returns every defined role; the boundary layer validates submitted
// permission sets against it.
func AllRoles() []string {
	return []string{RoleAdmin, RoleDirector, RoleEditor, RoleViewer}
}

// HasRole reports whether userRoles contains targetRole.
func HasRole(userRoles []string, targetRole string) bool {
	for _, role := range userRoles {
		if role == targetRole {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the two role sets intersect.
func HasAnyRole(userRoles, allowedRoles []string) bool {
	for _, allowed := range allowedRoles {
		if HasRole(userRoles, allowed) {
			return true
		}
	}
	return false
}
