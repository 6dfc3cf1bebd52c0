package tasks

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"backoffice/internal/config"
	"backoffice/internal/models"
	"backoffice/internal/services"
	"backoffice/internal/utils/logger"
)

// TaskHandler processes background tasks.
type TaskHandler struct {
	db       *gorm.DB
	activity *services.ActivityLogService
	cfg      *config.Config
	logger   *logger.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(db *gorm.DB, cfg *config.Config) *TaskHandler {
	return &TaskHandler{
		db:       db,
		activity: services.NewActivityLogService(db),
		cfg:      cfg,
		logger:   logger.New("TASK-HANDLER"),
	}
}

// HandleAuditPurge hard-deletes soft-deleted audit entries older than the
// retention window. Live entries are never touched.
func (h *TaskHandler) HandleAuditPurge(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().UTC().Add(-h.cfg.Retention.AuditLogAge)
	purged, err := h.activity.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		h.logger.Warn("audit purge failed: %v", err)
		return err
	}
	h.logger.Info("audit purge removed %d entries older than %s", purged, cutoff.Format(time.RFC3339))
	return nil
}

// HandleSessionPrune removes session records whose tokens have long expired.
// Sessions are audit records, not live state, so pruning them never logs
// anyone out.
func (h *TaskHandler) HandleSessionPrune(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	result := h.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.AuthSession{})
	if result.Error != nil {
		h.logger.Warn("session prune failed: %v", result.Error)
		return result.Error
	}
	h.logger.Info("session prune removed %d expired sessions", result.RowsAffected)
	return nil
}
