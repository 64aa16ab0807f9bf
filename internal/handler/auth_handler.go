package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialhub/internal/middleware"
	"github.com/socialhub/internal/service"
	"github.com/socialhub/pkg/response"
)

// AuthHandler handles authentication API requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// POST /api/users/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), &req); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(c, "email already registered")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "user registered successfully")
}

// Login handles user login
// POST /api/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.LoginUser(c.Request.Context(), &req)
	h.respondToken(c, token, err)
}

// AdminLogin handles admin login
// POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req service.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.LoginAdmin(c.Request.Context(), &req)
	h.respondToken(c, token, err)
}

// Logout revokes the token the request was authenticated with
// POST /api/users/logout, POST /api/admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Unauthorized(c, "not authenticated")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "logged out")
}

func (h *AuthHandler) respondToken(c *gin.Context, token string, err error) {
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Token(c, token)
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, userAuth, adminAuth gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/logout", userAuth, h.Logout)
	}

	admin := rg.Group("/admin")
	{
		admin.POST("/login", h.AdminLogin)
		admin.POST("/logout", adminAuth, h.Logout)
	}
}
