package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/identity"
)

// AuthService is the identity use case surface used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, input identity.RegisterInput) (*identity.AuthResult, error)
	Login(ctx context.Context, input identity.LoginInput) (*identity.AuthResult, error)
	AdminLogin(ctx context.Context, input identity.LoginInput) (*identity.AuthResult, error)
	Profile(ctx context.Context, userID uuid.UUID) (*identity.UserInfo, error)
}

// AuthHandler serves customer registration, login and the admin login
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest is the storefront sign-up form
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest carries credentials for customer and admin login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by every login flow
type TokenResponse struct {
	Token     string             `json:"token"`
	TokenType string             `json:"tokenType"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      *identity.UserInfo `json:"user,omitempty"`
}

func toTokenResponse(r *identity.AuthResult) TokenResponse {
	return TokenResponse{Token: r.Token, TokenType: r.TokenType, ExpiresAt: r.ExpiresAt, User: r.User}
}

// Register handles POST /api/user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTokenResponse(result))
}

// Login handles POST /api/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTokenResponse(result))
}

// AdminLogin handles POST /api/user/admin
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.AdminLogin(c.Request.Context(), identity.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTokenResponse(result))
}

// Profile handles GET /api/user/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}

	user, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
