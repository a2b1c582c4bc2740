package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are served without a server span
	SkipPaths []string
}

// Tracing returns the server span middleware followed by SpanAnnotator.
// Register both with router.Use(Tracing(cfg)...).
func Tracing(cfg TracingConfig) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	base := otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, skipped := skip[r.URL.Path]
		return !skipped
	}))
	return []gin.HandlerFunc{base, SpanAnnotator()}
}

// SpanAnnotator runs inside the server span. Once the handlers finish it tags
// the span with the request and principal, and marks 5xx responses as errors.
func SpanAnnotator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := c.GetString(logger.GinRequestIDKey); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		ctx := c.Request.Context()
		if userID := logger.GetUserID(ctx); userID != "" {
			span.SetAttributes(attribute.String("enduser.id", userID))
		}
		if role := logger.GetRole(ctx); role != "" {
			span.SetAttributes(attribute.String("enduser.role", role))
		}

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
