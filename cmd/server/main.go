package main

import (
	"hellfire/internal/config"
	"hellfire/internal/db"
	"hellfire/internal/router"
	"hellfire/internal/services"
	"hellfire/internal/storage"
	"hellfire/pkg/logger"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	conn, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	uploads, err := storage.NewStore(cfg.UploadDir, cfg.MaxUploadBytes())
	if err != nil {
		logger.Log.Fatal("Failed to prepare upload directory", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	// Initialize services
	svc := &router.Services{
		Auth:       services.NewAuthService(conn),
		Content:    services.NewContentService(conn),
		Reactions:  services.NewReactionService(conn),
		Moderation: services.NewModerationService(conn),
		Profiles:   services.NewProfileService(conn, uploads),
	}

	r, err := router.NewEngine(svc, router.Options{
		SessionSecret:  cfg.SessionSecret,
		SecureCookies:  cfg.IsProduction(),
		TemplatesDir:   cfg.TemplatesDir,
		StaticDir:      "./web/static",
		UploadDir:      uploads.Dir(),
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})
	if err != nil {
		logger.Log.Fatal("Failed to build router", zap.Error(err))
	}

	logger.Log.Info("Hellfire server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server stopped", zap.Error(err))
	}
}
