package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice/internal/models"
	"backoffice/internal/services"
)

// RoleHandler manages the role registry. Users reference roles by name, so
// renaming or deleting a role here does not rewrite user records; stale names
// on users simply resolve to nothing.
type RoleHandler struct {
	roles    *services.RoleService
	activity *services.ActivityLogService
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(db *gorm.DB) *RoleHandler {
	return &RoleHandler{
		roles:    services.NewRoleService(db),
		activity: services.NewActivityLogService(db),
	}
}

// List godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {object} ListResponse
// @Router /api/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	roles, total, err := h.roles.List(c.Request().Context(), page, limit, nil, "name ASC")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: roles, Total: total, Page: page, Limit: limit})
}

// ListDeleted godoc
// @Summary List soft-deleted roles
// @Tags roles
// @Produce json
// @Success 200 {object} ListResponse
// @Router /api/roles/deleted [get]
func (h *RoleHandler) ListDeleted(c echo.Context) error {
	page, limit := pageParams(c)
	roles, total, err := h.roles.ListDeleted(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: roles, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Fetch one role
// @Tags roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} models.Role
// @Router /api/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	role, err := h.roles.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err, "role", id)
	}
	return c.JSON(http.StatusOK, role)
}

// RoleRequest is the create/update payload.
type RoleRequest struct {
	Name        string   `json:"name" validate:"required,min=2"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// Create godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Param request body RoleRequest true "Role fields"
// @Success 201 {object} models.Role
// @Failure 409 {object} echo.HTTPError
// @Router /api/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	role := &models.Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: models.StringList(req.Permissions),
	}
	if err := h.roles.Create(ctx, role); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionRoleCreate
	entry.Module = "roles"
	entry.Description = fmt.Sprintf("Created role %s", role.Name)
	entry.Details = map[string]interface{}{"createdRoleId": role.ID, "roleName": role.Name}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusCreated, role)
}

// Update godoc
// @Summary Update a role's name and description
// @Tags roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param request body RoleRequest true "Role fields"
// @Success 200 {object} models.Role
// @Router /api/roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	role, err := h.roles.Get(ctx, id)
	if err != nil {
		return notFound(err, "role", id)
	}
	changes := map[string]interface{}{}
	if req.Name != role.Name {
		changes["name"] = map[string]interface{}{"from": role.Name, "to": req.Name}
		role.Name = req.Name
	}
	if req.Description != role.Description {
		changes["description"] = map[string]interface{}{"from": role.Description, "to": req.Description}
		role.Description = req.Description
	}
	if err := h.roles.Save(ctx, role); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionRoleUpdate
	entry.Module = "roles"
	entry.Description = fmt.Sprintf("Updated role %s", role.Name)
	entry.Details = map[string]interface{}{"updatedRoleId": role.ID, "changes": changes}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, role)
}

// Delete godoc
// @Summary Soft-delete a role
// @Tags roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} map[string]string
// @Router /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	role, err := h.roles.Get(ctx, id)
	if err != nil {
		return notFound(err, "role", id)
	}
	if err := h.roles.SoftDelete(ctx, id); err != nil {
		return notFound(err, "role", id)
	}

	entry := actor(c)
	entry.Action = models.ActionRoleDelete
	entry.Module = "roles"
	entry.Description = fmt.Sprintf("Deleted role %s", role.Name)
	entry.Details = map[string]interface{}{"deletedRoleId": id, "roleName": role.Name}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, map[string]string{"message": "Role deleted"})
}

// Restore godoc
// @Summary Restore a soft-deleted role
// @Tags roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} models.Role
// @Router /api/roles/{id}/restore [post]
func (h *RoleHandler) Restore(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.roles.Restore(ctx, id); err != nil {
		return notFound(err, "role", id)
	}
	role, err := h.roles.Get(ctx, id)
	if err != nil {
		return notFound(err, "role", id)
	}

	entry := actor(c)
	entry.Action = models.ActionRoleRestore
	entry.Module = "roles"
	entry.Description = fmt.Sprintf("Restored role %s", role.Name)
	entry.Details = map[string]interface{}{"restoredRoleId": id, "roleName": role.Name}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, role)
}

// GetPermissions godoc
// @Summary A role's permissions split by kind
// @Tags roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} services.RolePermissions
// @Router /api/roles/{id}/permissions [get]
func (h *RoleHandler) GetPermissions(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	perms, err := h.roles.GetPermissions(c.Request().Context(), id)
	if err != nil {
		return notFound(err, "role", id)
	}
	return c.JSON(http.StatusOK, perms)
}

// UpdatePermissions godoc
// @Summary Replace a role's permission set
// @Tags roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param request body services.RolePermissions true "Complete desired set"
// @Success 200 {object} models.Role
// @Router /api/roles/{id}/permissions [put]
func (h *RoleHandler) UpdatePermissions(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req services.RolePermissions
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	ctx := c.Request().Context()

	before, err := h.roles.Get(ctx, id)
	if err != nil {
		return notFound(err, "role", id)
	}
	previous := append([]string(nil), before.Permissions...)

	role, err := h.roles.UpdatePermissions(ctx, id, req)
	if err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionRolePermsUpdate
	entry.Module = "roles"
	entry.Description = fmt.Sprintf("Updated permissions for role %s", role.Name)
	entry.Details = map[string]interface{}{
		"roleId":   role.ID,
		"roleName": role.Name,
		"from":     previous,
		"to":       role.Permissions,
	}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, role)
}
