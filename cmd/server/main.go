package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/socialhub/internal/config"
	"github.com/socialhub/internal/handler"
	"github.com/socialhub/internal/middleware"
	"github.com/socialhub/internal/models"
	"github.com/socialhub/internal/repository"
	"github.com/socialhub/internal/service"
	"github.com/socialhub/internal/storage"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	if err := middleware.InitLogger(cfg.Log.Dir, cfg.Server.Mode); err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"version":    Version,
		"commit":     Commit,
		"build_time": BuildTime,
	}).Info("starting socialhub")

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// Auto migrate database
	if err := autoMigrate(db); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis
	rdb := initRedis(cfg)

	// Uploaded files live on local disk
	files, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.PublicPath)
	if err != nil {
		logrus.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	revocationRepo := repository.NewRevocationRepository(rdb)

	// Initialize services
	authService := service.NewAuthService(userRepo, adminRepo, revocationRepo, cfg.JWT)
	profileService := service.NewProfileService(userRepo, files)
	adminService := service.NewAdminService(userRepo, adminRepo, files, cfg.Admin)

	// The admin account must exist before the first request is served
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 30*time.Second)
	created, err := adminService.EnsureDefaultAdmin(bootstrapCtx)
	cancelBootstrap()
	if err != nil {
		logrus.Fatalf("Failed to create default admin: %v", err)
	}
	if !created {
		logrus.WithField("username", cfg.Admin.Username).Info("bootstrap: default admin already present")
	}

	router := handler.NewRouter(handler.RouterConfig{
		AuthService:    authService,
		ProfileService: profileService,
		AdminService:   adminService,
		UploadDir:      files.Dir(),
		PublicPath:     files.PublicPath(),
		MaxFiles:       cfg.Storage.MaxFiles,
		Version:        Version,
	})

	// Create HTTP server
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		logrus.Errorf("Error closing Redis connection: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("Error closing database: %v", err)
		}
	}

	logrus.Info("Server exited properly")
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == gin.ReleaseMode {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Admin{},
	)
}
