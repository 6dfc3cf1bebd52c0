package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"backoffice/internal/config"
	"backoffice/internal/db"
	"backoffice/internal/models"
	"backoffice/internal/utils/logger"
)

// Seeds the database with the default roles and demo accounts. Safe to rerun:
// existing rows are left alone.
func main() {
	console := logger.New("seed")

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			console.Warn("Failed to close database connection: %v", err)
		}
	}()

	conn := db.GetDB()
	if err := models.EnsureDefaultRoles(conn); err != nil {
		log.Fatalf("Failed to seed default roles: %v", err)
	}
	if err := models.SeedSampleUsers(conn); err != nil {
		log.Fatalf("Failed to seed sample users: %v", err)
	}
	if err := models.CreateAdminFromEnv(conn); err != nil {
		console.Warn("Skipped admin account: %v", err)
	}
	console.Success("Seeding complete")
}
