package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice/internal/models"
	"backoffice/internal/services"
)

// ActivityHandler exposes the audit trail. Entries are append-only: the only
// mutations allowed are soft delete and restore, and the restore itself is
// audited.
type ActivityHandler struct {
	activity *services.ActivityLogService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{activity: services.NewActivityLogService(db)}
}

// List godoc
// @Summary Page through the audit trail
// @Tags activity
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param action query string false "Filter by action code"
// @Param userId query int false "Filter by actor"
// @Success 200 {object} ListResponse
// @Router /api/activity [get]
func (h *ActivityHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	filter := services.ActivityFilter{Action: c.QueryParam("action")}
	if raw := c.QueryParam("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid userId parameter")
		}
		filter.UserID = id
	}
	logs, total, err := h.activity.Page(c.Request().Context(), filter, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: logs, Total: total, Page: page, Limit: limit})
}

// ByUser godoc
// @Summary One user's audit entries
// @Description Admins may read anyone's trail; other principals only their own.
// @Tags activity
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} ListResponse
// @Failure 403 {object} echo.HTTPError
// @Router /api/activity/user/{id} [get]
func (h *ActivityHandler) ByUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if id != p.UserID && !contains(p.Roles, models.RoleAdmin) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot read another user's activity")
	}

	page, limit := pageParams(c)
	logs, total, err := h.activity.Page(c.Request().Context(), services.ActivityFilter{UserID: id}, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: logs, Total: total, Page: page, Limit: limit})
}

// Recent godoc
// @Summary Newest audit entries for the dashboard feed
// @Tags activity
// @Produce json
// @Param limit query int false "Entry count"
// @Success 200 {array} models.ActivityLog
// @Router /api/activity/recent [get]
func (h *ActivityHandler) Recent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	logs, err := h.activity.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logs)
}

// Delete godoc
// @Summary Soft-delete an audit entry
// @Tags activity
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]string
// @Router /api/activity/{id} [delete]
func (h *ActivityHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.activity.SoftDelete(c.Request().Context(), id); err != nil {
		return notFound(err, "activity log", id)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Activity entry deleted"})
}

// Restore godoc
// @Summary Restore a soft-deleted audit entry
// @Tags activity
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} models.ActivityLog
// @Router /api/activity/{id}/restore [post]
func (h *ActivityHandler) Restore(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.activity.Restore(ctx, id); err != nil {
		return notFound(err, "activity log", id)
	}
	row, err := h.activity.Get(ctx, id)
	if err != nil {
		return notFound(err, "activity log", id)
	}

	entry := actor(c)
	entry.Action = models.ActionLogRestore
	entry.Module = "activity"
	entry.Description = "Restored audit entry"
	entry.Details = map[string]interface{}{"restoredLogId": id}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, row)
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
