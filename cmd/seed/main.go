package main

import (
	"hellfire/internal/config"
	"hellfire/internal/db"
	"hellfire/internal/services"
	"hellfire/pkg/logger"
	"log"
	"os"

	"go.uber.org/zap"
)

// seed creates the admin account, or promotes it if the username exists.
func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminUsername == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_PASSWORD")
	}

	conn, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	admin, created, err := services.NewAuthService(conn).EnsureAdmin(adminUsername, adminPassword)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	if created {
		logger.Log.Info("Admin user created", zap.String("username", admin.Username))
	} else {
		logger.Log.Info("Admin user already exists", zap.String("username", admin.Username))
	}
}
