package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"backoffice/internal/models"
	"backoffice/internal/services"
)

// UserHandler is the admin-only account management surface. Every mutation
// writes exactly one audit entry.
type UserHandler struct {
	users    *services.UserService
	activity *services.ActivityLogService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		users:    services.NewUserService(db),
		activity: services.NewActivityLogService(db),
	}
}

// ListResponse is the paged collection envelope.
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// List godoc
// @Summary List accounts
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	filters := map[string]interface{}{}
	if active := c.QueryParam("active"); active == "true" {
		filters["active"] = true
	} else if active == "false" {
		filters["active"] = false
	}
	users, total, err := h.users.List(c.Request().Context(), page, limit, filters, "created_at DESC")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: users, Total: total, Page: page, Limit: limit})
}

// ListDeleted godoc
// @Summary List soft-deleted accounts
// @Tags users
// @Produce json
// @Success 200 {object} ListResponse
// @Router /api/users/deleted [get]
func (h *UserHandler) ListDeleted(c echo.Context) error {
	page, limit := pageParams(c)
	users, total, err := h.users.ListDeleted(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: users, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Fetch one account
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err, "user", id)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUserRequest is the admin account-creation payload.
type CreateUserRequest struct {
	Name     string   `json:"name" validate:"required,min=2"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Roles    []string `json:"roles" validate:"omitempty,dive,min=1"`
	Active   *bool    `json:"active"`
	Phone    string   `json:"phone"`
}

// Create godoc
// @Summary Create an account
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "Account fields"
// @Success 201 {object} models.User
// @Failure 409 {object} echo.HTTPError
// @Router /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Roles:    models.StringList(req.Roles),
		Active:   active,
		Phone:    req.Phone,
	}
	if err := h.users.Create(ctx, user); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionUserCreate
	entry.Module = "users"
	entry.Description = fmt.Sprintf("Created user %s", user.Email)
	entry.Details = map[string]interface{}{
		"createdUserId": user.ID,
		"userEmail":     user.Email,
		"roles":         user.Roles,
	}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusCreated, user)
}

// UpdateUserRequest is the admin account-update payload. Nil pointers leave
// the field untouched.
type UpdateUserRequest struct {
	Name   *string   `json:"name" validate:"omitempty,min=2"`
	Email  *string   `json:"email" validate:"omitempty,email"`
	Roles  *[]string `json:"roles"`
	Active *bool     `json:"active"`
	Phone  *string   `json:"phone"`
}

// Update godoc
// @Summary Update an account
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Changed fields"
// @Success 200 {object} models.User
// @Router /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.users.Get(ctx, id)
	if err != nil {
		return notFound(err, "user", id)
	}

	changes := map[string]interface{}{}
	if req.Name != nil && *req.Name != user.Name {
		changes["name"] = map[string]interface{}{"from": user.Name, "to": *req.Name}
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		changes["email"] = map[string]interface{}{"from": user.Email, "to": *req.Email}
		user.Email = *req.Email
	}
	if req.Roles != nil {
		changes["roles"] = map[string]interface{}{"from": user.Roles, "to": *req.Roles}
		user.Roles = models.StringList(*req.Roles)
	}
	if req.Active != nil && *req.Active != user.Active {
		changes["active"] = map[string]interface{}{"from": user.Active, "to": *req.Active}
		user.Active = *req.Active
	}
	if req.Phone != nil && *req.Phone != user.Phone {
		changes["phone"] = map[string]interface{}{"from": user.Phone, "to": *req.Phone}
		user.Phone = *req.Phone
	}
	if err := h.users.Save(ctx, user); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionUserUpdate
	entry.Module = "users"
	entry.Description = fmt.Sprintf("Updated user %s", user.Email)
	entry.Details = map[string]interface{}{
		"updatedUserId": user.ID,
		"changes":       changes,
	}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Soft-delete an account
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.users.Get(ctx, id)
	if err != nil {
		return notFound(err, "user", id)
	}
	if err := h.users.SoftDelete(ctx, id); err != nil {
		return notFound(err, "user", id)
	}

	entry := actor(c)
	entry.Action = models.ActionUserDelete
	entry.Module = "users"
	entry.Description = fmt.Sprintf("Deleted user %s", user.Email)
	entry.Details = map[string]interface{}{"deletedUserId": id, "userEmail": user.Email}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted"})
}

// Restore godoc
// @Summary Restore a soft-deleted account
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Router /api/users/{id}/restore [post]
func (h *UserHandler) Restore(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.users.Restore(ctx, id); err != nil {
		return notFound(err, "user", id)
	}
	user, err := h.users.Get(ctx, id)
	if err != nil {
		return notFound(err, "user", id)
	}

	entry := actor(c)
	entry.Action = models.ActionUserRestore
	entry.Module = "users"
	entry.Description = fmt.Sprintf("Restored user %s", user.Email)
	entry.Details = map[string]interface{}{"restoredUserId": id, "userEmail": user.Email}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, user)
}
