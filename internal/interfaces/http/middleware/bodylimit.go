package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/logger"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. Multipart uploads get
// maxUploadBytes instead; zero means the same cap.
func BodyLimit(maxBytes, maxUploadBytes int64) gin.HandlerFunc {
	if maxUploadBytes <= 0 {
		maxUploadBytes = maxBytes
	}
	return func(c *gin.Context) {
		limit := maxBytes
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = maxUploadBytes
		}

		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				c.GetString(logger.GinRequestIDKey),
			))
			return
		}

		// Streaming bodies without Content-Length fail on read past the limit
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
