package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"scaenahub/internal/models"
	"scaenahub/internal/service"
)

func TestCanView(t *testing.T) {
	owner := uuid.New()
	listed := uuid.New()
	stranger := uuid.New()

	script := testScript(owner)
	script.ViewUsers = []uuid.UUID{listed}
	script.ViewRoles = []string{models.RoleDirector}

	assert.True(t, service.CanView(script, owner, nil), "owner always views")
	assert.True(t, service.CanView(script, stranger, []string{models.RoleAdmin}), "admin always views")
	assert.True(t, service.CanView(script, listed, nil), "listed user views")
	assert.True(t, service.CanView(script, stranger, []string{models.RoleDirector}), "role holder views")
	assert.False(t, service.CanView(script, stranger, []string{models.RoleViewer}), "unlisted role does not view")
	assert.False(t, service.CanView(script, stranger, nil))
}

func TestCanEdit(t *testing.T) {
	owner := uuid.New()
	editor := uuid.New()
	viewer := uuid.New()

	script := testScript(owner)
	script.EditUsers = []uuid.UUID{editor}
	script.ViewUsers = []uuid.UUID{viewer}

	assert.True(t, service.CanEdit(script, owner, nil))
	assert.True(t, service.CanEdit(script, editor, nil))
	assert.True(t, service.CanEdit(script, uuid.New(), []string{models.RoleEditor}))
	assert.False(t, service.CanEdit(script, viewer, nil), "view grant does not imply edit")
}

func TestCanDelete(t *testing.T) {
	owner := uuid.New()
	editor := uuid.New()

	script := testScript(owner)
	script.EditUsers = []uuid.UUID{editor}

	assert.True(t, service.CanDelete(script, owner, nil))
	assert.True(t, service.CanDelete(script, uuid.New(), []string{models.RoleAdmin}))
	assert.False(t, service.CanDelete(script, editor, nil), "edit grant does not imply delete")
	assert.False(t, service.CanDelete(script, editor, []string{models.RoleEditor}))
}

func TestPermissionsMonotone(t *testing.T) {
	owner := uuid.New()
	user := uuid.New()

	script := testScript(owner)
	script.ViewRoles = []string{}
	assert.False(t, service.CanView(script, user, []string{models.RoleViewer}))

	// Widening a permission set never revokes an existing grant.
	script.ViewRoles = []string{models.RoleViewer}
	assert.True(t, service.CanView(script, user, []string{models.RoleViewer}))

	script.ViewRoles = append(script.ViewRoles, models.RoleDirector)
	assert.True(t, service.CanView(script, user, []string{models.RoleViewer}))

	script.ViewUsers = append(script.ViewUsers, uuid.New())
	assert.True(t, service.CanView(script, user, []string{models.RoleViewer}))
}
