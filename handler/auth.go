package handler

import (
	"net/http"

	"hearthbutler/entity"
	"hearthbutler/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler interface {
	Login(c *gin.Context)
	Register(c *gin.Context)
}

type authHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates and returns a new AuthHandler.
func NewAuthHandler(authService service.AuthService) AuthHandler {
	return &authHandler{authService: authService}
}

// Login authenticates a member and returns a signed token.
func (h *authHandler) Login(c *gin.Context) {
	var loginRequest entity.LoginRequest
	if err := c.ShouldBindJSON(&loginRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, token, err := h.authService.Login(c.Request.Context(), loginRequest.Email, loginRequest.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member": member,
		"token":  token,
	})
}

// Register creates a new household member account.
func (h *authHandler) Register(c *gin.Context) {
	var member entity.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.Register(c.Request.Context(), &member); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}
