package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models"
)

func TestSplitPermissions(t *testing.T) {
	split := SplitPermissions(models.StringList{
		"reports",
		"users-create",
		"billing",
		"roles-update",
	})
	assert.Equal(t, []string{"reports", "billing"}, split.FeaturePermissions)
	assert.Equal(t, []string{"users-create", "roles-update"}, split.ControllerPermissions)
}

func TestSplitPermissionsDedupes(t *testing.T) {
	split := SplitPermissions(models.StringList{"reports", "reports", "users-create", "users-create"})
	assert.Equal(t, []string{"reports"}, split.FeaturePermissions)
	assert.Equal(t, []string{"users-create"}, split.ControllerPermissions)
}

func TestSplitPermissionsEmpty(t *testing.T) {
	split := SplitPermissions(nil)
	assert.Empty(t, split.FeaturePermissions)
	assert.Empty(t, split.ControllerPermissions)
}

func TestUpdateThenGetPermissionsIsStable(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	role := &models.Role{Name: "editor"}
	require.NoError(t, svc.Create(ctx, role))

	want := RolePermissions{
		FeaturePermissions:    []string{"reports", "billing"},
		ControllerPermissions: []string{"users-create"},
	}
	_, err := svc.UpdatePermissions(ctx, role.ID, want)
	require.NoError(t, err)

	got, err := svc.GetPermissions(ctx, role.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, want.FeaturePermissions, got.FeaturePermissions)
	assert.ElementsMatch(t, want.ControllerPermissions, got.ControllerPermissions)

	// Applying the result again changes nothing
	_, err = svc.UpdatePermissions(ctx, role.ID, *got)
	require.NoError(t, err)
	again, err := svc.GetPermissions(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestUpdatePermissionsReplacesNotMerges(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	role := &models.Role{Name: "editor", Permissions: models.StringList{"old-perm", "legacy"}}
	require.NoError(t, svc.Create(ctx, role))

	updated, err := svc.UpdatePermissions(ctx, role.ID, RolePermissions{
		FeaturePermissions: []string{"reports"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"reports"}, updated.Permissions)
}

func TestUpdatePermissionsCollapsesDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	role := &models.Role{Name: "editor"}
	require.NoError(t, svc.Create(ctx, role))

	updated, err := svc.UpdatePermissions(ctx, role.ID, RolePermissions{
		FeaturePermissions:    []string{"reports", "reports"},
		ControllerPermissions: []string{"users-create", "users-create"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"reports", "users-create"}, updated.Permissions)
}

func TestResolvePermissionsUnions(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Role{
		Name:        "editor",
		Permissions: models.StringList{"reports", "users-create"},
	}))
	require.NoError(t, svc.Create(ctx, &models.Role{
		Name:        "viewer",
		Permissions: models.StringList{"reports", "billing"},
	}))

	granted, err := svc.ResolvePermissions(ctx, []string{"editor", "viewer"})
	require.NoError(t, err)
	assert.Len(t, granted, 3)
	assert.Contains(t, granted, "reports")
	assert.Contains(t, granted, "users-create")
	assert.Contains(t, granted, "billing")
}

// Unknown role names resolve to nothing rather than erroring: user role
// claims may be stale relative to the registry.
func TestResolvePermissionsUnknownRoles(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	granted, err := svc.ResolvePermissions(ctx, []string{"ghost"})
	require.NoError(t, err)
	assert.Empty(t, granted)

	granted, err = svc.ResolvePermissions(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestResolvePermissionsSkipsDeletedRoles(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	role := &models.Role{Name: "editor", Permissions: models.StringList{"reports"}}
	require.NoError(t, svc.Create(ctx, role))
	require.NoError(t, svc.SoftDelete(ctx, role.ID))

	granted, err := svc.ResolvePermissions(ctx, []string{"editor"})
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestZeroPermissionRoleGrantsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Role{Name: "intern"}))

	granted, err := svc.ResolvePermissions(ctx, []string{"intern"})
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestFindByName(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Role{Name: "editor"}))

	role, err := svc.FindByName(ctx, " editor ")
	require.NoError(t, err)
	assert.Equal(t, "editor", role.Name)
}
