package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice/internal/models"
	"backoffice/internal/services"
)

// PermissionHandler manages the permission catalog. Definitions here are
// referenced from roles by identifier string only; deleting a definition does
// not touch the roles that grant it.
type PermissionHandler struct {
	permissions *services.PermissionService
	activity    *services.ActivityLogService
}

// NewPermissionHandler creates a new permission handler.
func NewPermissionHandler(db *gorm.DB) *PermissionHandler {
	return &PermissionHandler{
		permissions: services.NewPermissionService(db),
		activity:    services.NewActivityLogService(db),
	}
}

// List godoc
// @Summary List permission definitions
// @Tags permissions
// @Produce json
// @Param type query string false "Filter by type (feature or controller)"
// @Success 200 {object} ListResponse
// @Router /api/permissions [get]
func (h *PermissionHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	filters := map[string]interface{}{}
	if t := c.QueryParam("type"); t != "" {
		filters["type"] = t
	}
	perms, total, err := h.permissions.List(c.Request().Context(), page, limit, filters, "type ASC, id ASC")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: perms, Total: total, Page: page, Limit: limit})
}

// ListDeleted godoc
// @Summary List soft-deleted permission definitions
// @Tags permissions
// @Produce json
// @Success 200 {object} ListResponse
// @Router /api/permissions/deleted [get]
func (h *PermissionHandler) ListDeleted(c echo.Context) error {
	page, limit := pageParams(c)
	perms, total, err := h.permissions.ListDeleted(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: perms, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Fetch one permission definition
// @Tags permissions
// @Produce json
// @Param id path int true "Permission ID"
// @Success 200 {object} models.Permission
// @Router /api/permissions/{id} [get]
func (h *PermissionHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	perm, err := h.permissions.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err, "permission", id)
	}
	return c.JSON(http.StatusOK, perm)
}

// PermissionRequest is the create/update payload. Shape rules per type are
// enforced by the model: feature carries name+category, controller carries
// controller+action+route, never both.
type PermissionRequest struct {
	Type        string `json:"type" validate:"required,permission_type"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Controller  string `json:"controller"`
	Action      string `json:"action"`
	Route       string `json:"route"`
	Description string `json:"description"`
}

func (r *PermissionRequest) toModel() models.Permission {
	return models.Permission{
		Type:        r.Type,
		Name:        r.Name,
		Category:    r.Category,
		Controller:  r.Controller,
		Action:      r.Action,
		Route:       r.Route,
		Description: r.Description,
	}
}

// Create godoc
// @Summary Create a permission definition
// @Tags permissions
// @Accept json
// @Produce json
// @Param request body PermissionRequest true "Permission fields"
// @Success 201 {object} models.Permission
// @Failure 400 {object} echo.HTTPError
// @Router /api/permissions [post]
func (h *PermissionHandler) Create(c echo.Context) error {
	var req PermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	perm := req.toModel()
	if err := perm.ValidateShape(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.permissions.Create(ctx, &perm); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionPermCreate
	entry.Module = "permissions"
	entry.Description = fmt.Sprintf("Created %s permission %s", perm.Type, perm.Identifier())
	entry.Details = map[string]interface{}{
		"createdPermissionId": perm.ID,
		"identifier":          perm.Identifier(),
		"type":                perm.Type,
	}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusCreated, perm)
}

// Update godoc
// @Summary Update a permission definition
// @Tags permissions
// @Accept json
// @Produce json
// @Param id path int true "Permission ID"
// @Param request body PermissionRequest true "Permission fields"
// @Success 200 {object} models.Permission
// @Router /api/permissions/{id} [put]
func (h *PermissionHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req PermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	perm, err := h.permissions.Get(ctx, id)
	if err != nil {
		return notFound(err, "permission", id)
	}
	previous := perm.Identifier()

	next := req.toModel()
	if err := next.ValidateShape(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	perm.Type = next.Type
	perm.Name = next.Name
	perm.Category = next.Category
	perm.Controller = next.Controller
	perm.Action = next.Action
	perm.Route = next.Route
	perm.Description = next.Description
	if err := h.permissions.Save(ctx, perm); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionPermUpdate
	entry.Module = "permissions"
	entry.Description = fmt.Sprintf("Updated permission %s", perm.Identifier())
	entry.Details = map[string]interface{}{
		"updatedPermissionId": perm.ID,
		"from":                previous,
		"to":                  perm.Identifier(),
	}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, perm)
}

// Delete godoc
// @Summary Soft-delete a permission definition
// @Tags permissions
// @Produce json
// @Param id path int true "Permission ID"
// @Success 200 {object} map[string]string
// @Router /api/permissions/{id} [delete]
func (h *PermissionHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	perm, err := h.permissions.Get(ctx, id)
	if err != nil {
		return notFound(err, "permission", id)
	}
	if err := h.permissions.SoftDelete(ctx, id); err != nil {
		return notFound(err, "permission", id)
	}

	entry := actor(c)
	entry.Action = models.ActionPermDelete
	entry.Module = "permissions"
	entry.Description = fmt.Sprintf("Deleted permission %s", perm.Identifier())
	entry.Details = map[string]interface{}{"deletedPermissionId": id, "identifier": perm.Identifier()}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, map[string]string{"message": "Permission deleted"})
}

// Restore godoc
// @Summary Restore a soft-deleted permission definition
// @Tags permissions
// @Produce json
// @Param id path int true "Permission ID"
// @Success 200 {object} models.Permission
// @Router /api/permissions/{id}/restore [post]
func (h *PermissionHandler) Restore(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.permissions.Restore(ctx, id); err != nil {
		return notFound(err, "permission", id)
	}
	perm, err := h.permissions.Get(ctx, id)
	if err != nil {
		return notFound(err, "permission", id)
	}

	entry := actor(c)
	entry.Action = models.ActionPermRestore
	entry.Module = "permissions"
	entry.Description = fmt.Sprintf("Restored permission %s", perm.Identifier())
	entry.Details = map[string]interface{}{"restoredPermissionId": id, "identifier": perm.Identifier()}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, perm)
}
