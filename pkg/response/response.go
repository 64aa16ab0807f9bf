package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MessageBody is the body of every message-only response, success or error
type MessageBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// TokenBody is returned by the login endpoints
type TokenBody struct {
	Token string `json:"token"`
}

// Success sends data as a 200 response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends data as a 201 response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends {"message": ...} with the given status
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, MessageBody{Message: message})
}

// Token sends {"token": ...} as a 200 response
func Token(c *gin.Context, token string) {
	c.JSON(http.StatusOK, TokenBody{Token: token})
}

// BadRequest sends a 400 error response
func BadRequest(c *gin.Context, message string) {
	Message(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response
func Unauthorized(c *gin.Context, message string) {
	Message(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 error response
func NotFound(c *gin.Context, message string) {
	Message(c, http.StatusNotFound, message)
}

// Conflict sends a 409 error response
func Conflict(c *gin.Context, message string) {
	Message(c, http.StatusConflict, message)
}

// InternalError sends a 500 error response carrying the raw error text
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, MessageBody{
		Message: "server error",
		Error:   err.Error(),
	})
}
