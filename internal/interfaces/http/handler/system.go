package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// Check is one readiness probe, such as a database or Redis ping
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// SystemHandler serves liveness, readiness and metrics
type SystemHandler struct {
	BaseHandler
	checks  []Check
	metrics http.Handler
	now     func() time.Time
}

// NewSystemHandler creates a system handler. A nil metrics handler
// answers /metrics with 404.
func NewSystemHandler(metrics http.Handler, checks ...Check) *SystemHandler {
	return &SystemHandler{checks: checks, metrics: metrics, now: time.Now}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /health/ready. Every check runs; any failure yields 503.
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			logger.FromContext(c.Request.Context()).Warn("Readiness check failed",
				zap.String("check", check.Name),
				zap.Error(err))
			results[check.Name] = "error"
			status = http.StatusServiceUnavailable
			continue
		}
		results[check.Name] = "ok"
	}

	body := gin.H{
		"status": "ready",
		"time":   h.now().UTC().Format(time.RFC3339),
		"checks": results,
	}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	c.JSON(status, body)
}

// Metrics handles GET /metrics
func (h *SystemHandler) Metrics(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.metrics.ServeHTTP(c.Writer, c.Request)
}
