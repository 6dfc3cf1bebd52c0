package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "backoffice/docs/swagger"

	"backoffice/internal/handlers"
	"backoffice/internal/routes"
	"backoffice/internal/tasks"
)

func (s *Server) registerRoutes(redisClient *redis.Client, taskClient *tasks.TaskClient) {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Backoffice API")
	})
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	routes.SetupAuthRoutes(s.echo, s.db, s.issuer, redisClient)
	routes.SetupUserRoutes(s.echo, s.db, s.issuer)
	routes.SetupRoleRoutes(s.echo, s.db, s.issuer)
	routes.SetupPermissionRoutes(s.echo, s.db, s.issuer)
	routes.SetupActivityRoutes(s.echo, s.db, s.issuer)

	// Typed-nil guard: a nil *TaskClient must stay a nil interface so the
	// handler can detect the missing backend.
	var purger handlers.AuditPurgeEnqueuer
	if taskClient != nil {
		purger = taskClient
	}
	routes.SetupAdminRoutes(s.echo, s.db, s.issuer, purger)
}
