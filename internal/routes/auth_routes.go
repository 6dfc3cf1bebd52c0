package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"backoffice/internal/api/middleware"
	"backoffice/internal/handlers"
	"backoffice/internal/utils"
)

// SetupAuthRoutes mounts registration, login and profile self-service.
func SetupAuthRoutes(e *echo.Echo, db *gorm.DB, issuer *utils.TokenIssuer, redisClient *redis.Client) {
	limiter := middleware.NewLoginLimiter(redisClient, 15*time.Minute, 10)
	authHandler := handlers.NewAuthHandler(db, issuer, limiter)

	auth := e.Group("/api/auth")

	// Public routes
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes: any authenticated principal
	protected := auth.Group("")
	protected.Use(middleware.NewAuthMiddleware(issuer).Middleware())
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.PUT("/password", authHandler.ChangePassword)
	protected.PUT("/avatar", authHandler.UpdateAvatar)
	protected.GET("/check-permission", authHandler.CheckPermission)
}
