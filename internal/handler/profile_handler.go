package handler

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/socialhub/internal/middleware"
	"github.com/socialhub/internal/service"
	"github.com/socialhub/pkg/response"
)

// imagesField is the multipart field uploaded files are read from
const imagesField = "images"

// ProfileHandler handles a user's own profile requests
type ProfileHandler struct {
	profileService *service.ProfileService
	maxFiles       int
}

// NewProfileHandler creates a new ProfileHandler. maxFiles caps the number of
// files per upload request.
func NewProfileHandler(profileService *service.ProfileService, maxFiles int) *ProfileHandler {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &ProfileHandler{
		profileService: profileService,
		maxFiles:       maxFiles,
	}
}

// Upload handles image upload and social handle linking
// POST /api/users/upload (multipart/form-data: images[], platform, handle)
func (h *ProfileHandler) Upload(c *gin.Context) {
	user := middleware.GetUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	headers := form.File[imagesField]
	if len(headers) > h.maxFiles {
		response.BadRequest(c, fmt.Sprintf("at most %d files per upload", h.maxFiles))
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		files = append(files, service.UploadFile{Filename: fh.Filename, Content: f})
	}

	req := &service.UploadRequest{
		Files:    files,
		Platform: firstValue(form.Value["platform"]),
		Handle:   firstValue(form.Value["handle"]),
	}

	updated, err := h.profileService.UploadAssets(c.Request.Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrVersionConflict) {
			response.Conflict(c, "profile was modified concurrently, retry")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Created(c, updated)
}

// Me returns the authenticated user's document
// GET /api/users/me
func (h *ProfileHandler) Me(c *gin.Context) {
	user, err := h.profileService.GetProfile(c.Request.Context(), middleware.GetUser(c).ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, user)
}

// RegisterRoutes registers profile routes
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup, userAuth gin.HandlerFunc) {
	users := rg.Group("/users", userAuth)
	{
		users.POST("/upload", h.Upload)
		users.GET("/me", h.Me)
	}
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
