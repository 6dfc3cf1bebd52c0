package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice/internal/api/middleware"
	"backoffice/internal/handlers"
	"backoffice/internal/models"
	"backoffice/internal/utils"
)

// adminGroup builds a route group that requires an authenticated admin.
func adminGroup(e *echo.Echo, issuer *utils.TokenIssuer, prefix string) *echo.Group {
	g := e.Group(prefix)
	g.Use(middleware.NewAuthMiddleware(issuer).Middleware())
	g.Use(middleware.RequireRoles(models.RoleAdmin))
	return g
}

// SetupUserRoutes mounts admin account management.
func SetupUserRoutes(e *echo.Echo, db *gorm.DB, issuer *utils.TokenIssuer) {
	h := handlers.NewUserHandler(db)
	users := adminGroup(e, issuer, "/api/users")

	users.GET("", h.List)
	users.GET("/deleted", h.ListDeleted)
	users.GET("/:id", h.Get)
	users.POST("", h.Create)
	users.PUT("/:id", h.Update)
	users.DELETE("/:id", h.Delete)
	users.POST("/:id/restore", h.Restore)
}

// SetupRoleRoutes mounts the role registry.
func SetupRoleRoutes(e *echo.Echo, db *gorm.DB, issuer *utils.TokenIssuer) {
	h := handlers.NewRoleHandler(db)
	roles := adminGroup(e, issuer, "/api/roles")

	roles.GET("", h.List)
	roles.GET("/deleted", h.ListDeleted)
	roles.GET("/:id", h.Get)
	roles.POST("", h.Create)
	roles.PUT("/:id", h.Update)
	roles.DELETE("/:id", h.Delete)
	roles.POST("/:id/restore", h.Restore)
	roles.GET("/:id/permissions", h.GetPermissions)
	roles.PUT("/:id/permissions", h.UpdatePermissions)
}

// SetupPermissionRoutes mounts the permission catalog.
func SetupPermissionRoutes(e *echo.Echo, db *gorm.DB, issuer *utils.TokenIssuer) {
	h := handlers.NewPermissionHandler(db)
	perms := adminGroup(e, issuer, "/api/permissions")

	perms.GET("", h.List)
	perms.GET("/deleted", h.ListDeleted)
	perms.GET("/:id", h.Get)
	perms.POST("", h.Create)
	perms.PUT("/:id", h.Update)
	perms.DELETE("/:id", h.Delete)
	perms.POST("/:id/restore", h.Restore)
}

// SetupActivityRoutes mounts the audit trail. The per-user read is available
// to any authenticated principal (the handler enforces self-or-admin); the
// rest is admin-only.
func SetupActivityRoutes(e *echo.Echo, db *gorm.DB, issuer *utils.TokenIssuer) {
	h := handlers.NewActivityHandler(db)
	auth := middleware.NewAuthMiddleware(issuer).Middleware()

	self := e.Group("/api/activity/user")
	self.Use(auth)
	self.GET("/:id", h.ByUser)

	activity := e.Group("/api/activity")
	activity.Use(auth)
	activity.Use(middleware.RequireRoles(models.RoleAdmin))
	activity.GET("", h.List)
	activity.GET("/recent", h.Recent)
	activity.DELETE("/:id", h.Delete)
	activity.POST("/:id/restore", h.Restore)
}

// SetupAdminRoutes mounts the dashboard aggregates and the on-demand
// retention trigger.
func SetupAdminRoutes(e *echo.Echo, db *gorm.DB, issuer *utils.TokenIssuer, purger handlers.AuditPurgeEnqueuer) {
	h := handlers.NewAdminHandler(db, purger)
	dash := adminGroup(e, issuer, "/api/admin")

	dash.GET("/stats", h.Stats)
	dash.GET("/activity", h.Feed)
	dash.POST("/audit-purge", h.PurgeAudit)
}
