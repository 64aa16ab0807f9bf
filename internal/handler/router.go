package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialhub/internal/middleware"
	"github.com/socialhub/internal/service"
)

// RouterConfig carries everything NewRouter wires together
type RouterConfig struct {
	AuthService    *service.AuthService
	ProfileService *service.ProfileService
	AdminService   *service.AdminService

	// UploadDir is served read-only under PublicPath
	UploadDir  string
	PublicPath string
	MaxFiles   int

	Version string
}

// NewRouter builds the gin engine with every API route
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": cfg.Version,
			"time":    time.Now().Unix(),
		})
	})

	if cfg.UploadDir != "" {
		router.Static(cfg.PublicPath, cfg.UploadDir)
	}

	userAuth := middleware.AuthMiddleware(cfg.AuthService)
	adminAuth := middleware.AdminAuthMiddleware(cfg.AuthService)

	api := router.Group("/api")
	{
		NewAuthHandler(cfg.AuthService).RegisterRoutes(api, userAuth, adminAuth)
		NewProfileHandler(cfg.ProfileService, cfg.MaxFiles).RegisterRoutes(api, userAuth)
		NewAdminHandler(cfg.AdminService).RegisterRoutes(api, adminAuth)
	}

	return router
}
