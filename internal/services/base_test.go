package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backoffice/internal/models"
)

func newUser(email string) *models.User {
	return &models.User{
		Name:     "Test User",
		Email:    email,
		Password: "hashed",
		Roles:    models.StringList{"user"},
		Active:   true,
	}
}

func TestSoftDeleteAndRestoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user := newUser("round@example.com")
	user.Phone = "555-0100"
	require.NoError(t, svc.Create(ctx, user))

	require.NoError(t, svc.SoftDelete(ctx, user.ID))

	// Gone from default reads
	_, err := svc.Get(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Still reachable for admins inspecting the trash
	deleted, err := svc.GetAny(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted())

	require.NoError(t, svc.Restore(ctx, user.ID))

	restored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, "round@example.com", restored.Email)
	assert.Equal(t, "555-0100", restored.Phone)
	assert.Equal(t, models.StringList{"user"}, restored.Roles)
}

func TestSoftDeleteMissingRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	err := svc.SoftDelete(context.Background(), 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSoftDeleteTwice(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user := newUser("twice@example.com")
	require.NoError(t, svc.Create(ctx, user))
	require.NoError(t, svc.SoftDelete(ctx, user.ID))

	// Already deleted rows are not re-deletable
	assert.ErrorIs(t, svc.SoftDelete(ctx, user.ID), gorm.ErrRecordNotFound)
}

func TestRestoreLiveRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user := newUser("live@example.com")
	require.NoError(t, svc.Create(ctx, user))

	assert.ErrorIs(t, svc.Restore(ctx, user.ID), gorm.ErrRecordNotFound)
}

func TestListExcludesDeleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	keep := newUser("keep@example.com")
	drop := newUser("drop@example.com")
	require.NoError(t, svc.Create(ctx, keep))
	require.NoError(t, svc.Create(ctx, drop))
	require.NoError(t, svc.SoftDelete(ctx, drop.ID))

	users, total, err := svc.List(ctx, 1, 10, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "keep@example.com", users[0].Email)

	trashed, total, err := svc.ListDeleted(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, trashed, 1)
	assert.Equal(t, "drop@example.com", trashed[0].Email)
}

func TestDuplicateEmailConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, newUser("dup@example.com")))

	err := svc.Create(ctx, newUser("dup@example.com"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCountWithFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	active := newUser("active@example.com")
	inactive := newUser("inactive@example.com")
	inactive.Active = false
	require.NoError(t, svc.Create(ctx, active))
	require.NoError(t, svc.Create(ctx, inactive))

	total, err := svc.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	activeCount, err := svc.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), activeCount)
}
