package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/logger"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/dto"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser simulates the JWT middleware for a customer
func asUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Set(middleware.JWTRoleKey, "user")
		c.Next()
	}
}

// asAdmin simulates the JWT middleware for the admin panel
func asAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTRoleKey, "admin")
		c.Next()
	}
}

func withRequestID(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(logger.GinRequestIDKey, id)
		c.Next()
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

// decodeData decodes the data member of a success envelope into out
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.True(t, resp.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error, rec.Body.String())
	return resp.Error.Code
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantLogs    int
	}{
		{"validation", shared.NewDomainError("CART_EMPTY", "Your cart is empty"), http.StatusBadRequest, "CART_EMPTY", "Your cart is empty", 0},
		{"wrapped not found", fmt.Errorf("load: %w", shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")), http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", 0},
		{"conflict", shared.NewDomainError("USER_EXISTS", "User already exists"), http.StatusConflict, "USER_EXISTS", "User already exists", 0},
		{"upstream keeps message", shared.NewDomainError("PAYMENT_GATEWAY_ERROR", "Payment provider unavailable"), http.StatusBadGateway, "PAYMENT_GATEWAY_ERROR", "Payment provider unavailable", 1},
		{"internal hides message", shared.NewDomainError("INTERNAL_ERROR", "pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", 1},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			h := &BaseHandler{}
			router := gin.New()
			router.GET("/test", withRequestID("req-9"), func(c *gin.Context) {
				c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), zap.New(core)))
				h.HandleError(c, tt.err)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Equal(t, "req-9", resp.Error.RequestID)
			assert.Equal(t, tt.wantLogs, logs.Len())
		})
	}
}

func TestRequireUser(t *testing.T) {
	h := &BaseHandler{}
	userID := uuid.New()

	t.Run("customer", func(t *testing.T) {
		router := gin.New()
		router.GET("/test", asUser(userID), func(c *gin.Context) {
			id, ok := h.RequireUser(c)
			require.True(t, ok)
			h.Success(c, id)
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got uuid.UUID
		decodeData(t, rec, &got)
		assert.Equal(t, userID, got)
	})

	t.Run("admin has no customer", func(t *testing.T) {
		router := gin.New()
		router.GET("/test", asAdmin(), func(c *gin.Context) {
			_, ok := h.RequireUser(c)
			assert.False(t, ok)
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, rec))
	})
}
