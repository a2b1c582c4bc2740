package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/dto"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows burst up to limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("client1"), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow("client1"))
	})

	t.Run("separate buckets per client", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("clientA"))
		assert.True(t, limiter.Allow("clientA"))
		assert.False(t, limiter.Allow("clientA"))

		assert.True(t, limiter.Allow("clientB"))
	})

	t.Run("refills over the window", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)
		now := time.Now()
		limiter.now = func() time.Time { return now }

		assert.True(t, limiter.Allow("client3"))
		assert.True(t, limiter.Allow("client3"))
		assert.False(t, limiter.Allow("client3"))

		now = now.Add(30 * time.Second)
		assert.True(t, limiter.Allow("client3"), "one token refills every half window")
		assert.False(t, limiter.Allow("client3"))
	})

	t.Run("evicts idle clients", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Second)
		now := time.Now()
		limiter.now = func() time.Time { return now }

		limiter.Allow("old")
		now = now.Add(5 * time.Second)
		limiter.Allow("new")

		assert.Equal(t, 1, limiter.Len())
	})

	t.Run("concurrent access", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)
		frozen := time.Now()
		limiter.now = func() time.Time { return frozen }
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)
	router := gin.New()
	router.Use(RateLimit(limiter))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		last = httptest.NewRecorder()
		router.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, dto.ErrCodeRateLimited, decodeError(t, last).Code)
}
