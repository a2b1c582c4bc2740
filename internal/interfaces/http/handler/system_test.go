package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/telemetry"
)

func setupSystemRouter(h *SystemHandler) *gin.Engine {
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/health/ready", h.Ready)
	router.GET("/metrics", h.Metrics)
	return router
}

func okCheck(name string) Check {
	return Check{Name: name, Ping: func(context.Context) error { return nil }}
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler(nil)
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	setupSystemRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","time":"2026-03-01T12:00:00Z"}`, rec.Body.String())
}

func TestSystemHandler_Ready(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewSystemHandler(nil, okCheck("database"), okCheck("redis"))
		rec := httptest.NewRecorder()
		setupSystemRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body.Status)
		assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, body.Checks)
	})

	t.Run("one check fails", func(t *testing.T) {
		var redisCalled bool
		h := NewSystemHandler(nil,
			Check{Name: "database", Ping: func(context.Context) error { return errors.New("connection refused") }},
			Check{Name: "redis", Ping: func(ctx context.Context) error {
				redisCalled = true
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return nil
			}},
		)
		rec := httptest.NewRecorder()
		setupSystemRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.True(t, redisCalled)
		assert.Contains(t, rec.Body.String(), `"database":"error"`)
		assert.Contains(t, rec.Body.String(), `"status":"unavailable"`)
	})
}

func TestSystemHandler_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	setupSystemRouter(NewSystemHandler(nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	metrics := telemetry.NewMetrics()
	metrics.ObserveHTTP(http.MethodGet, "/api/product/list", http.StatusOK, 15*time.Millisecond)

	rec = httptest.NewRecorder()
	setupSystemRouter(NewSystemHandler(metrics.Handler())).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "store_http_requests_total")
}
