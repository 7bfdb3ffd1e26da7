package service

import (
	"github.com/google/uuid"

	"scaenahub/internal/models"
)

// Permission predicates. Pure functions over a script's permission sets and
// the caller's identity; every read path filters on CanView and every
// mutation gates on CanEdit. Both are monotone: adding a user or role to a
// set never revokes previously granted access.

// CanView reports whether the caller may see the script: admins, the owner,
// listed view users, and holders of a view role.
func CanView(script *models.Script, userID uuid.UUID, roles []string) bool {
	if models.HasRole(roles, models.RoleAdmin) {
		return true
	}
	if script.CreatedBy == userID {
		return true
	}
	for _, allowed := range script.ViewUsers {
		if allowed == userID {
			return true
		}
	}
	return models.HasAnyRole(roles, script.ViewRoles)
}

// CanEdit is CanView's shape over the edit sets.
func CanEdit(script *models.Script, userID uuid.UUID, roles []string) bool {
	if models.HasRole(roles, models.RoleAdmin) {
		return true
	}
	if script.CreatedBy == userID {
		return true
	}
	for _, allowed := range script.EditUsers {
		if allowed == userID {
			return true
		}
	}
	return models.HasAnyRole(roles, script.EditRoles)
}

// CanDelete is stricter than CanEdit: only admins and the script's owner may
// delete it.
func CanDelete(script *models.Script, userID uuid.UUID, roles []string) bool {
	return models.HasRole(roles, models.RoleAdmin) || script.CreatedBy == userID
}
