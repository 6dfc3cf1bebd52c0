package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models"
)

func TestRecordPersistsEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityLogService(db)
	ctx := context.Background()

	err := svc.Record(ctx, Entry{
		UserID:      7,
		UserName:    "Jane Admin",
		Action:      models.ActionUserCreate,
		Module:      "users",
		Description: "Created user bob@example.com",
		Details:     map[string]interface{}{"createdUserId": 12},
		IPAddress:   "10.0.0.1",
		UserAgent:   "test-agent",
	})
	require.NoError(t, err)

	rows, total, err := svc.Page(ctx, ActivityFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(7), row.UserID)
	assert.Equal(t, "Jane Admin", row.UserName)
	assert.Equal(t, models.ActionUserCreate, row.Action)
	assert.Equal(t, "system", row.CreatedBy)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Details, &details))
	assert.EqualValues(t, 12, details["createdUserId"])
}

func TestPagePaginatesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityLogService(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= 25; i++ {
		row := models.ActivityLog{
			UserID: 1,
			Action: models.ActionLogin,
		}
		row.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&row).Error)
	}

	rows, total, err := svc.Page(ctx, ActivityFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, rows, 10)

	// Page 2 of 25 newest-first entries holds entries 15 down to 6
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].CreatedAt.After(rows[i-1].CreatedAt))
	}
	assert.Equal(t, base.Add(15*time.Minute).Unix(), rows[0].CreatedAt.Unix())
	assert.Equal(t, base.Add(6*time.Minute).Unix(), rows[9].CreatedAt.Unix())
}

func TestPageFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityLogService(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, Entry{UserID: 1, Action: models.ActionLogin}))
	}
	require.NoError(t, svc.Record(ctx, Entry{UserID: 2, Action: models.ActionLogout}))

	rows, total, err := svc.Page(ctx, ActivityFilter{UserID: 1}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 3)

	rows, total, err = svc.Page(ctx, ActivityFilter{Action: models.ActionLogout}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].UserID)
}

func TestRecentLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityLogService(db)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, svc.Record(ctx, Entry{UserID: 1, Action: fmt.Sprintf("ACTION_%d", i)}))
	}

	rows, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	// Zero limit falls back to the default page size
	rows, err = svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 10)
}

func TestPurgeDeletedBefore(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityLogService(db)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	recent := time.Now().UTC().Add(-time.Hour)

	oldDeleted := models.ActivityLog{UserID: 1, Action: models.ActionLogin}
	oldDeleted.DeletedAt = &old
	require.NoError(t, db.Create(&oldDeleted).Error)

	recentDeleted := models.ActivityLog{UserID: 1, Action: models.ActionLogin}
	recentDeleted.DeletedAt = &recent
	require.NoError(t, db.Create(&recentDeleted).Error)

	live := models.ActivityLog{UserID: 1, Action: models.ActionLogin}
	require.NoError(t, db.Create(&live).Error)

	purged, err := svc.PurgeDeletedBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	// Live entries and recently deleted ones survive
	var remaining int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestSoftDeleteAndRestoreEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityLogService(db)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, Entry{UserID: 1, Action: models.ActionLogin}))
	rows, _, err := svc.Page(ctx, ActivityFilter{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	id := rows[0].ID

	require.NoError(t, svc.SoftDelete(ctx, id))
	_, total, err := svc.Page(ctx, ActivityFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, svc.Restore(ctx, id))
	restored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ActionLogin, restored.Action)
}
