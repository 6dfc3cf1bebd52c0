package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice/internal/models"
	"backoffice/internal/services"
)

// AuditPurgeEnqueuer submits the retention purge of soft-deleted audit
// entries to the background worker.
type AuditPurgeEnqueuer interface {
	EnqueueAuditPurge(ctx context.Context) error
}

// AdminHandler serves the dashboard aggregates and maintenance triggers.
type AdminHandler struct {
	users       *services.UserService
	roles       *services.RoleService
	permissions *services.PermissionService
	activity    *services.ActivityLogService
	purger      AuditPurgeEnqueuer
}

// NewAdminHandler creates a new admin handler. purger may be nil when no
// task backend is configured; the purge endpoint then reports unavailable.
func NewAdminHandler(db *gorm.DB, purger AuditPurgeEnqueuer) *AdminHandler {
	return &AdminHandler{
		users:       services.NewUserService(db),
		roles:       services.NewRoleService(db),
		permissions: services.NewPermissionService(db),
		activity:    services.NewActivityLogService(db),
		purger:      purger,
	}
}

// DashboardStats is the headline numbers block.
type DashboardStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	ActiveUsers   int64 `json:"activeUsers"`
	NewUsersToday int64 `json:"newUsersToday"`
	TotalRoles    int64 `json:"totalRoles"`
	Permissions   int64 `json:"permissions"`
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Success 200 {object} DashboardStats
// @Router /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	stats := DashboardStats{}

	var err error
	if stats.TotalUsers, err = h.users.Count(ctx, nil); err != nil {
		return err
	}
	if stats.ActiveUsers, err = h.users.CountActive(ctx); err != nil {
		return err
	}
	if stats.NewUsersToday, err = h.users.CountCreatedSince(ctx, startOfToday()); err != nil {
		return err
	}
	if stats.TotalRoles, err = h.roles.Count(ctx, nil); err != nil {
		return err
	}
	if stats.Permissions, err = h.permissions.Count(ctx, nil); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// FeedItem is one dashboard activity row, the audit entry reduced to what the
// UI renders.
type FeedItem struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	UserName    string    `json:"userName"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Feed godoc
// @Summary Recent activity for the dashboard
// @Tags admin
// @Produce json
// @Param limit query int false "Entry count"
// @Success 200 {array} FeedItem
// @Router /api/admin/activity [get]
func (h *AdminHandler) Feed(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	logs, err := h.activity.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	feed := make([]FeedItem, 0, len(logs))
	for _, row := range logs {
		feed = append(feed, FeedItem{
			ID:          row.ID,
			Type:        feedType(row.Action),
			UserName:    row.UserName,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, feed)
}

// PurgeAudit godoc
// @Summary Queue a purge of soft-deleted audit entries
// @Description Runs the same retention task the nightly schedule does, now.
// @Tags admin
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 503 {object} echo.HTTPError
// @Router /api/admin/audit-purge [post]
func (h *AdminHandler) PurgeAudit(c echo.Context) error {
	if h.purger == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Background tasks are not configured")
	}
	ctx := c.Request().Context()
	if err := h.purger.EnqueueAuditPurge(ctx); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionAuditPurge
	entry.Module = "admin"
	entry.Description = "Queued audit retention purge"
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Audit purge queued"})
}

// feedType buckets action codes into the categories the dashboard renders
// with distinct icons.
func feedType(action string) string {
	switch action {
	case models.ActionLogin, models.ActionLoginFailed, models.ActionLogout, models.ActionRegister:
		return "auth"
	case models.ActionUserCreate, models.ActionUserUpdate, models.ActionUserDelete, models.ActionUserRestore:
		return "user"
	case models.ActionRoleCreate, models.ActionRoleUpdate, models.ActionRoleDelete,
		models.ActionRoleRestore, models.ActionRolePermsUpdate:
		return "role"
	case models.ActionPermCreate, models.ActionPermUpdate, models.ActionPermDelete, models.ActionPermRestore:
		return "permission"
	default:
		return "other"
	}
}

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
