package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"backoffice/docs/swagger"
	"backoffice/internal/api"
	"backoffice/internal/config"
	"backoffice/internal/db"
	"backoffice/internal/events"
	"backoffice/internal/models"
	"backoffice/internal/tasks"
	"backoffice/internal/utils/logger"
)

// @title Backoffice API
// @version 1.0
// @description Account, role and audit administration API
// @host localhost:8080
// @BasePath /api
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	console := logger.New("backoffice")

	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		console.Info("No .env file found, skipping environment variable loading")
	} else {
		console.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		console.Fatal("Invalid configuration: %v", err)
	}

	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			console.Warn("Failed to close database connection: %v", err)
		}
	}()
	dbInstance := db.GetDB()

	events.On("users.created", func(data interface{}) {
		if user, ok := data.(*models.User); ok {
			console.Info("Account created: %s", user.Email)
		}
	})
	events.On("users.deleted", func(data interface{}) {
		console.Info("Account soft-deleted: id=%v", data)
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			console.Warn("Failed to close redis connection: %v", err)
		}
	}()

	// Background retention tasks
	taskHandler := tasks.NewTaskHandler(dbInstance, cfg)
	taskServer := tasks.NewServer(cfg.Redis, taskHandler)
	go func() {
		if err := taskServer.Start(); err != nil {
			_ = console.Error("Task server error", err)
		}
	}()

	taskScheduler := tasks.NewScheduler(cfg.Redis)
	go func() {
		if err := taskScheduler.Start(); err != nil {
			_ = console.Error("Task scheduler error", err)
		}
	}()

	taskClient := tasks.NewTaskClient(cfg.Redis)
	defer func() {
		if err := taskClient.Close(); err != nil {
			console.Warn("Failed to close task client: %v", err)
		}
	}()

	apiServer := api.NewServer(cfg, dbInstance, redisClient, taskClient)
	go func() {
		swagger.SwaggerInfo.Title = "Backoffice API"
		swagger.SwaggerInfo.Description = "Account, role and audit administration API"
		swagger.SwaggerInfo.Version = "1.0"
		swagger.SwaggerInfo.Host = cfg.Server.Host
		swagger.SwaggerInfo.Schemes = []string{"http"}

		console.Success("API server started")
		if err := apiServer.Start(); err != nil {
			_ = console.Error("API server error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the servers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taskScheduler.Stop()
	taskServer.Shutdown()

	if err := apiServer.Shutdown(ctx); err != nil {
		_ = console.Error("Failed to shutdown API server", err)
	}
	console.Info("Servers shutdown gracefully")
}
