package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/auth"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/logger"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey = "jwt_claims"
	JWTUserIDKey = "jwt_user_id"
	JWTRoleKey   = "jwt_role"

	AuthHeaderKey = "Authorization"
	// LegacyTokenHeader is the bare token header sent by the storefront and admin panel
	LegacyTokenHeader = "token"
	BearerPrefix      = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// RequireAdmin rejects valid customer tokens with 403
	RequireAdmin bool
	// OnError replaces the default 401/403 response
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

var errAdminRequired = errors.New("admin role required")

// JWTAuthMiddleware authenticates customers and admins alike
func JWTAuthMiddleware(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: jwtService, Logger: log})
}

// AdminAuthMiddleware only admits tokens issued by the admin login
func AdminAuthMiddleware(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: jwtService, RequireAdmin: true, Logger: log})
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}
		if cfg.RequireAdmin && !claims.IsAdmin() {
			handleAuthError(c, cfg, errAdminRequired, "Customer token on admin route")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTRoleKey, string(claims.Role))
		userID := ""
		if !claims.IsAdmin() {
			userID = claims.UserID
			c.Set(JWTUserIDKey, userID)
		}

		ctx, _ := logger.WithPrincipal(c.Request.Context(), logger.FromContext(c.Request.Context()), userID, string(claims.Role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractToken reads a Bearer token, falling back to the legacy token header
func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader(AuthHeaderKey); header != "" {
		if !strings.HasPrefix(header, BearerPrefix) {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		return token, token != ""
	}
	token := strings.TrimSpace(c.GetHeader(LegacyTokenHeader))
	return token, token != ""
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	cfg.Logger.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", message),
		zap.String("path", c.Request.URL.Path),
	)

	status := http.StatusUnauthorized
	code := dto.ErrCodeUnauthorized
	msg := "Not authorized. Login again"
	switch {
	case errors.Is(err, errAdminRequired):
		status = http.StatusForbidden
		code = dto.ErrCodeForbidden
		msg = "Admin access required"
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		msg = "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID), errors.Is(err, auth.ErrUnknownRole),
		errors.Is(err, auth.ErrTokenNotYetValid):
		code = dto.ErrCodeTokenInvalid
		msg = "Invalid token"
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, msg, c.GetString(logger.GinRequestIDKey)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID returns the customer ID of the caller. Admin requests have none.
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(JWTUserIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// IsAdmin reports whether the request carries an admin token
func IsAdmin(c *gin.Context) bool {
	return c.GetString(JWTRoleKey) == string(auth.RoleAdmin)
}
