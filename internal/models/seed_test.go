package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&User{}, &Role{}))
	return db
}

func TestEnsureDefaultRolesIdempotent(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, EnsureDefaultRoles(db))
	require.NoError(t, EnsureDefaultRoles(db))

	var count int64
	require.NoError(t, db.Model(&Role{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSeedSampleUsersIdempotent(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, SeedSampleUsers(db))
	require.NoError(t, SeedSampleUsers(db))

	var count int64
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	var admin User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.True(t, admin.HasRole(RoleAdmin))
}

func TestCreateAdminFromEnv(t *testing.T) {
	db := newSeedDB(t)
	t.Setenv("ADMIN_EMAIL", "root@example.com")
	t.Setenv("ADMIN_PASSWORD", "changeme1")
	t.Setenv("ADMIN_NAME", "Root")

	require.NoError(t, CreateAdminFromEnv(db))
	// A second run sees the existing admin and does nothing
	require.NoError(t, CreateAdminFromEnv(db))

	var count int64
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
