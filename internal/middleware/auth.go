package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/socialhub/internal/models"
	"github.com/socialhub/internal/service"
	"github.com/socialhub/pkg/response"
)

const (
	// ContextKeyUser is the key for the authenticated user in gin context
	ContextKeyUser = "user"
	// ContextKeyAdmin is the key for the authenticated admin in gin context
	ContextKeyAdmin = "admin"
	// ContextKeyClaims is the key for the verified token claims in gin context
	ContextKeyClaims = "token_claims"
)

// AuthMiddleware admits requests carrying a valid user token
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		user, claims, err := authService.VerifyUser(c.Request.Context(), tokenString)
		if err != nil {
			abortVerify(c, err)
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// AdminAuthMiddleware admits requests carrying a valid admin token
func AdminAuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		admin, claims, err := authService.VerifyAdmin(c.Request.Context(), tokenString)
		if err != nil {
			abortVerify(c, err)
			return
		}

		c.Set(ContextKeyAdmin, admin)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header. On failure
// it has already aborted the request.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, "missing authorization header")
		c.Abort()
		return "", false
	}

	// Check Bearer prefix
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		response.Unauthorized(c, "invalid authorization header format")
		c.Abort()
		return "", false
	}

	return strings.TrimSpace(parts[1]), true
}

func abortVerify(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnauthorized) {
		response.Unauthorized(c, "invalid or expired token")
	} else {
		response.InternalError(c, err)
	}
	c.Abort()
}

// GetUser gets the authenticated user from the gin context
func GetUser(c *gin.Context) *models.User {
	v, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	return v.(*models.User)
}

// GetAdmin gets the authenticated admin from the gin context
func GetAdmin(c *gin.Context) *models.Admin {
	v, exists := c.Get(ContextKeyAdmin)
	if !exists {
		return nil
	}
	return v.(*models.Admin)
}

// GetClaims gets the verified token claims from the gin context
func GetClaims(c *gin.Context) *service.JWTClaims {
	v, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	return v.(*service.JWTClaims)
}
