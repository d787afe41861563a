// Package handler contains the Gin route handlers and route registration
// for the identity service.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity-service/auth"
	"github.com/skillsenselab/identity-service/auth/principal"
	apperrors "github.com/skillsenselab/identity-service/errors"
	"github.com/skillsenselab/identity-service/server"
)

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(authsvc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authsvc}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.MissingCredentials())
		return
	}

	account, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, account)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.MissingCredentials())
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, pair)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.MissingRefreshToken())
		return
	}

	access, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, access)
}

// Me handles GET /auth/me. Mounted behind the auth gate, so the Principal
// is always present.
func (h *AuthHandler) Me(c *gin.Context) {
	p := principal.MustFromContext(c.Request.Context())
	server.RespondOK(c, p)
}
