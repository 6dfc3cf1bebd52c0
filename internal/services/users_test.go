package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backoffice/internal/models"
)

func TestFindByEmailNormalizes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user := newUser("Mixed.Case@Example.com")
	require.NoError(t, svc.Create(ctx, user))

	// Hook lowercases on save; lookup lowercases the needle
	found, err := svc.FindByEmail(ctx, "  MIXED.CASE@EXAMPLE.COM ")
	require.NoError(t, err)
	assert.Equal(t, "mixed.case@example.com", found.Email)

	_, err = svc.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateDefaultsRoles(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user := &models.User{Name: "No Roles", Email: "none@example.com", Password: "x", Active: true}
	require.NoError(t, svc.Create(ctx, user))
	assert.Equal(t, models.StringList{models.RoleUser}, user.Roles)
}

func TestCreateDedupesRoles(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user := newUser("dupes@example.com")
	user.Roles = models.StringList{"admin", "user", "admin"}
	require.NoError(t, svc.Create(ctx, user))
	assert.Equal(t, models.StringList{"admin", "user"}, user.Roles)
}

func TestCountCreatedSince(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	old := newUser("old@example.com")
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, db.Create(old).Error)

	fresh := newUser("fresh@example.com")
	require.NoError(t, svc.Create(ctx, fresh))

	count, err := svc.CountCreatedSince(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFindRecentOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	first := newUser("first@example.com")
	first.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, db.Create(first).Error)

	second := newUser("second@example.com")
	second.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Create(second).Error)

	users, err := svc.FindRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "second@example.com", users[0].Email)
}
