package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-advanced-admin/admin"
	admingorm "github.com/go-advanced-admin/orm-gorm"
	adminecho "github.com/go-advanced-admin/web-echo"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"backoffice/internal/api/middleware"
	"backoffice/internal/api/validator"
	"backoffice/internal/authz"
	"backoffice/internal/config"
	"backoffice/internal/models"
	"backoffice/internal/tasks"
	"backoffice/internal/utils"
	console "backoffice/internal/utils/logger"
)

// Server is the HTTP front of the application.
type Server struct {
	echo   *echo.Echo
	config *config.Config
	db     *gorm.DB
	issuer *utils.TokenIssuer
}

var log = console.New("API-Server")

// NewServer @title Backoffice API
// @version 1.0
// @description Account, role and audit administration API.
// @host localhost:8080
// @BasePath /api
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, taskClient *tasks.TaskClient) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Validator = validator.NewValidator()

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.Server.PublicURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
		AllowCredentials: true,
	}))
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(echomw.TimeoutWithConfig(echomw.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
	e.Use(echomw.GzipWithConfig(echomw.GzipConfig{
		Level: 5,
	}))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(20))))

	e.HTTPErrorHandler = HTTPErrorHandler

	s := &Server{
		echo:   e,
		config: cfg,
		db:     db,
		issuer: utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
	}

	if err := models.EnsureDefaultRoles(db); err != nil {
		log.Warn("Failed to seed default roles: %v", err)
	}
	if err := models.CreateAdminFromEnv(db); err != nil {
		log.Warn("Failed to create admin account: %v", err)
	}

	s.mountAdminPanel()
	s.registerRoutes(redisClient, taskClient)
	return s
}

// mountAdminPanel wires the generated admin UI behind the same role check as
// the REST admin surface.
func (s *Server) mountAdminPanel() {
	gormIntegrator := admingorm.NewIntegrator(s.db)
	echoIntegrator := adminecho.NewIntegrator(s.echo.Group("/panel"))

	permissionChecker := func(request admin.PermissionRequest, ctx interface{}) (bool, error) {
		c, ok := ctx.(echo.Context)
		if !ok {
			return false, nil
		}
		token := middleware.ExtractToken(c)
		if token == "" {
			return false, nil
		}
		principal, err := s.issuer.Validate(token)
		if err != nil {
			return false, nil
		}
		return authz.Authorize(*principal, []string{models.RoleAdmin}), nil
	}

	adminPanel, err := admin.NewPanel(gormIntegrator, echoIntegrator, permissionChecker, nil)
	if err != nil {
		log.Warn("Failed to create admin panel: %v", err)
		return
	}
	if _, err := adminPanel.RegisterApp("Backoffice", "Backoffice Admin", nil); err != nil {
		log.Warn("Failed to register admin app: %v", err)
	}
}

// Start begins serving. Blocks until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router, for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// HTTPErrorHandler maps internal failures onto the API's status vocabulary:
// 400 validation, 401 unauthenticated, 403 forbidden, 404 missing, 409
// uniqueness conflict, 500 everything else.
func HTTPErrorHandler(err error, c echo.Context) {
	var (
		code    = http.StatusInternalServerError
		message interface{} = http.StatusText(http.StatusInternalServerError)
	)

	var httpErr *echo.HTTPError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		message = formatValidationErrors(validationErrs)
	case errors.Is(err, gorm.ErrRecordNotFound):
		code = http.StatusNotFound
		message = "Resource not found"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		code = http.StatusConflict
		message = "Resource already exists"
	}

	if !c.Response().Committed {
		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, map[string]interface{}{
				"error": message,
				"code":  code,
				"time":  time.Now().Format(time.RFC3339),
			})
		}
		if writeErr != nil {
			c.Echo().Logger.Error(writeErr)
		}
	}
}

// formatValidationErrors flattens field errors into a field→message map.
func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errMap := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			errMap[field] = fmt.Sprintf("%s is required", field)
		case "email":
			errMap[field] = fmt.Sprintf("%s must be a valid email", field)
		case "min":
			errMap[field] = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			errMap[field] = fmt.Sprintf("%s must be at most %s", field, param)
		case "url":
			errMap[field] = fmt.Sprintf("%s must be a valid URL", field)
		case "permission_type":
			errMap[field] = fmt.Sprintf("%s must be either 'feature' or 'controller'", field)
		case "action_code":
			errMap[field] = fmt.Sprintf("%s must be an uppercase action code", field)
		default:
			errMap[field] = fmt.Sprintf("%s failed validation: %s", field, tag)
		}
	}
	return errMap
}
