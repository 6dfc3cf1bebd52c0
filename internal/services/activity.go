package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"backoffice/internal/models"
	console "backoffice/internal/utils/logger"
)

// ActivityFilter narrows an audit page to one actor or one action code.
// Zero values mean no filter.
type ActivityFilter struct {
	UserID int64
	Action string
}

// ActivityLogService is the audit trail. Record is best-effort: failures are
// logged to the operational channel and returned so the caller can discard
// them; a failed audit write never aborts the primary operation.
type ActivityLogService struct {
	*BaseServiceImpl[models.ActivityLog]
	db  *gorm.DB
	log *console.Logger
}

// NewActivityLogService creates a new activity log service.
func NewActivityLogService(db *gorm.DB) *ActivityLogService {
	return &ActivityLogService{
		BaseServiceImpl: NewBaseService(db, models.ActivityLog{}),
		db:              db,
		log:             console.New("ACTIVITY"),
	}
}

// Entry is what a write path reports about itself. Details is marshalled
// into the log row's JSON column.
type Entry struct {
	UserID      int64
	UserName    string
	Action      string
	Module      string
	Description string
	Details     map[string]interface{}
	IPAddress   string
	UserAgent   string
}

// Record appends one audit entry. The returned error is informational only;
// every caller discards it.
func (s *ActivityLogService) Record(ctx context.Context, entry Entry) error {
	row := models.ActivityLog{
		UserID:      entry.UserID,
		UserName:    entry.UserName,
		Action:      entry.Action,
		Module:      entry.Module,
		Description: entry.Description,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		CreatedBy:   "system",
	}
	if entry.Details != nil {
		payload, err := json.Marshal(entry.Details)
		if err != nil {
			s.log.Warn("Dropping unmarshalable audit details for %s: %v", entry.Action, err)
		} else {
			row.Details = payload
		}
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.log.Warn("Failed to record %s activity: %v", entry.Action, err)
		return err
	}
	return nil
}

// Page returns one page of audit entries, newest first, with the total count
// of matching rows.
func (s *ActivityLogService) Page(ctx context.Context, filter ActivityFilter, page, limit int) ([]models.ActivityLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	filters := map[string]interface{}{}
	if filter.UserID != 0 {
		filters["user_id"] = filter.UserID
	}
	if filter.Action != "" {
		filters["action"] = filter.Action
	}
	return s.List(ctx, page, limit, filters, "created_at DESC")
}

// Recent returns the newest entries without paging, for the dashboard feed.
func (s *ActivityLogService) Recent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.ActivityLog
	err := s.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PurgeDeletedBefore hard-deletes soft-deleted entries whose deletion is
// older than the cutoff. Used by the retention task only; live entries are
// never touched.
func (s *ActivityLogService) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.ActivityLog{})
	return result.RowsAffected, result.Error
}
