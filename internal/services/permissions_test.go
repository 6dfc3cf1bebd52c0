package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models"
)

func TestPermissionCreateValidatesShape(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	ctx := context.Background()

	valid := &models.Permission{
		Type:     models.PermissionTypeFeature,
		Name:     "reports",
		Category: "analytics",
	}
	require.NoError(t, svc.Create(ctx, valid))
	assert.NotZero(t, valid.ID)

	invalid := &models.Permission{
		Type: models.PermissionTypeFeature,
		Name: "orphan",
	}
	assert.Error(t, svc.Create(ctx, invalid))

	mixed := &models.Permission{
		Type:       models.PermissionTypeController,
		Controller: "users",
		Action:     "create",
		Route:      "/api/users",
		Category:   "analytics",
	}
	assert.Error(t, svc.Create(ctx, mixed))
}

func TestPermissionListByType(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Permission{
		Type: models.PermissionTypeFeature, Name: "reports", Category: "analytics",
	}))
	require.NoError(t, svc.Create(ctx, &models.Permission{
		Type: models.PermissionTypeController, Controller: "users", Action: "create", Route: "/api/users",
	}))

	features, total, err := svc.List(ctx, 1, 10, map[string]interface{}{"type": models.PermissionTypeFeature}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, features, 1)
	assert.Equal(t, "reports", features[0].Identifier())
}
