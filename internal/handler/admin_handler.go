package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/socialhub/internal/service"
	"github.com/socialhub/pkg/response"
)

// AdminHandler handles admin console API requests
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// DeleteImageRequest names the image to remove by its public path
type DeleteImageRequest struct {
	ImagePath string `json:"imagePath" binding:"required"`
}

// DeleteSocialHandleRequest names the platform whose handle is removed
type DeleteSocialHandleRequest struct {
	Platform string `json:"platform" binding:"required"`
}

// ListUsers handles listing every user, newest first
// GET /api/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, users)
}

// DeleteUser handles deleting a user and their uploaded files
// DELETE /api/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "user deleted successfully")
}

// DeleteUserImage handles removing one image from a user
// DELETE /api/users/:id/images
func (h *AdminHandler) DeleteUserImage(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req DeleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.adminService.DeleteUserImage(c.Request.Context(), userID, req.ImagePath); err != nil {
		h.respondError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "image deleted successfully")
}

// DeleteSocialHandle handles removing one social handle from a user
// DELETE /api/users/:id/social-handles
func (h *AdminHandler) DeleteSocialHandle(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req DeleteSocialHandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.adminService.DeleteSocialHandle(c.Request.Context(), userID, req.Platform); err != nil {
		h.respondError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "social handle deleted successfully")
}

func (h *AdminHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "user not found")
	case errors.Is(err, service.ErrVersionConflict):
		response.Conflict(c, "user was modified concurrently, retry")
	default:
		response.InternalError(c, err)
	}
}

// RegisterRoutes registers admin console routes
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, adminAuth gin.HandlerFunc) {
	users := rg.Group("/users", adminAuth)
	{
		users.GET("", h.ListUsers)
		users.DELETE("/:id", h.DeleteUser)
		users.DELETE("/:id/images", h.DeleteUserImage)
		users.DELETE("/:id/social-handles", h.DeleteSocialHandle)
	}
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return 0, false
	}
	return uint(id), true
}
