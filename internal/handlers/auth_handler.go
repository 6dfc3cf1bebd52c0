package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"backoffice/internal/api/middleware"
	"backoffice/internal/authz"
	"backoffice/internal/models"
	"backoffice/internal/services"
	"backoffice/internal/utils"
	"backoffice/internal/utils/logger"
)

// AuthHandler owns the authentication surface: register, login, logout,
// profile self-service and the permission check endpoint.
type AuthHandler struct {
	users    *services.UserService
	sessions *services.BaseServiceImpl[models.AuthSession]
	activity *services.ActivityLogService
	engine   *authz.Engine
	issuer   *utils.TokenIssuer
	limiter  *middleware.LoginLimiter
	log      *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(db *gorm.DB, issuer *utils.TokenIssuer, limiter *middleware.LoginLimiter) *AuthHandler {
	roles := services.NewRoleService(db)
	return &AuthHandler{
		users:    services.NewUserService(db),
		sessions: services.NewBaseService(db, models.AuthSession{}),
		activity: services.NewActivityLogService(db),
		engine:   authz.NewEngine(roles),
		issuer:   issuer,
		limiter:  limiter,
		log:      logger.New("AUTH"),
	}
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Signup payload"
// @Success 201 {object} AuthResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Phone:    req.Phone,
		Active:   true,
	}
	if err := h.users.Create(c.Request().Context(), user); err != nil {
		return err
	}

	entry := actor(c)
	entry.UserID = user.ID
	entry.UserName = user.Name
	entry.Action = models.ActionRegister
	entry.Module = "auth"
	entry.Description = "New account registered"
	_ = h.activity.Record(c.Request().Context(), entry)

	token, err := h.establishSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login godoc
// @Summary Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} echo.HTTPError
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	if allowed, err := h.limiter.Allow(ctx, req.Email); err != nil {
		h.log.Warn("Login limiter unavailable: %v", err)
	} else if !allowed {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts, try again later")
	}

	user, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}
	if !user.Active {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		entry := actor(c)
		entry.UserID = user.ID
		entry.UserName = user.Name
		entry.Action = models.ActionLoginFailed
		entry.Module = "auth"
		entry.Description = "Failed login attempt"
		_ = h.activity.Record(ctx, entry)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.establishSession(c, user)
	if err != nil {
		return err
	}

	entry := actor(c)
	entry.UserID = user.ID
	entry.UserName = user.Name
	entry.Action = models.ActionLogin
	entry.Module = "auth"
	entry.Description = "User logged in"
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// establishSession issues a token, records the session row for auditing and
// sets the http-only cookie.
func (h *AuthHandler) establishSession(c echo.Context, user *models.User) (string, error) {
	token, claims, err := h.issuer.Issue(user)
	if err != nil {
		return "", err
	}

	session := &models.AuthSession{
		UserID:    user.ID,
		TokenID:   claims.ID,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := h.sessions.Create(c.Request().Context(), session); err != nil {
		h.log.Warn("Failed to record session for user %d: %v", user.ID, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.issuer.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	entry := actor(c)
	entry.Action = models.ActionLogout
	entry.Module = "auth"
	entry.Description = "User logged out"
	_ = h.activity.Record(c.Request().Context(), entry)

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetProfile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), p.UserID)
	if err != nil {
		return notFound(err, "user", p.UserID)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfileRequest carries the self-service profile fields.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty"`
}

// UpdateProfile godoc
// @Summary Update own name, email and phone
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.User
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.users.Get(ctx, p.UserID)
	if err != nil {
		return notFound(err, "user", p.UserID)
	}
	old := map[string]interface{}{"name": user.Name, "email": user.Email, "phone": user.Phone}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	if err := h.users.Save(ctx, user); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionProfileUpdate
	entry.Module = "auth"
	entry.Description = "Profile updated"
	entry.Details = map[string]interface{}{
		"old": old,
		"new": map[string]interface{}{"name": user.Name, "email": user.Email, "phone": user.Phone},
	}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, user)
}

// ChangePasswordRequest carries the current and replacement passwords.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ChangePassword godoc
// @Summary Change own password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} map[string]string
// @Router /api/auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.users.Get(ctx, p.UserID)
	if err != nil {
		return notFound(err, "user", p.UserID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if err := h.users.Save(ctx, user); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionPasswordChange
	entry.Module = "auth"
	entry.Description = "Password changed"
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

// UpdateAvatarRequest carries the new avatar location.
type UpdateAvatarRequest struct {
	AvatarURL string `json:"avatarUrl" validate:"required,url"`
}

// UpdateAvatar godoc
// @Summary Update own avatar URL
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdateAvatarRequest true "Avatar URL"
// @Success 200 {object} models.User
// @Router /api/auth/avatar [put]
func (h *AuthHandler) UpdateAvatar(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req UpdateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.users.Get(ctx, p.UserID)
	if err != nil {
		return notFound(err, "user", p.UserID)
	}
	old := user.AvatarURL
	user.AvatarURL = req.AvatarURL
	if err := h.users.Save(ctx, user); err != nil {
		return err
	}

	entry := actor(c)
	entry.Action = models.ActionAvatarUpdate
	entry.Module = "auth"
	entry.Description = "Avatar updated"
	entry.Details = map[string]interface{}{"old": old, "new": user.AvatarURL}
	_ = h.activity.Record(ctx, entry)

	return c.JSON(http.StatusOK, user)
}

// CheckPermission godoc
// @Summary Check whether the caller holds a permission
// @Tags auth
// @Produce json
// @Param permission query string true "Permission identifier"
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/check-permission [get]
func (h *AuthHandler) CheckPermission(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	permission := c.QueryParam("permission")
	if permission == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "permission query parameter is required")
	}
	allowed, err := h.engine.HasPermission(c.Request().Context(), p, permission)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"permission": permission,
		"allowed":    allowed,
	})
}
