package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, DefaultBasePath, r.basePath)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithBasePath("store/v2/"))
	assert.Equal(t, "/store/v2", r.basePath)
}

func TestDomainGroup(t *testing.T) {
	engine := gin.New()
	var order []string
	mw := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	group := NewDomainGroup("cart", "/cart").Use(mw("group")).
		POST("/get", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	group.Group("admin", "/admin").
		GET("/stats", mw("route"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "cart", group.Name())
	assert.Equal(t, "/cart", group.Prefix())
	require.Len(t, group.Routes(), 1)

	NewRouter(engine).Register(group).Setup()

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/get", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	order = nil
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart/admin/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"group", "route"}, order)
}

func storeEngine() *gin.Engine {
	engine := gin.New()
	h := Handlers{
		Auth:         handler.NewAuthHandler(nil),
		Product:      handler.NewProductHandler(nil),
		Cart:         handler.NewCartHandler(nil),
		Order:        handler.NewOrderHandler(nil),
		Notification: handler.NewNotificationHandler(nil),
		Outbox:       handler.NewOutboxHandler(nil),
	}
	g := Guards{
		User:  func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) },
		Admin: func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) },
	}
	NewRouter(engine).Register(StoreRoutes(h, g)...).Setup()
	RegisterSystemRoutes(engine, handler.NewSystemHandler(nil))
	return engine
}

func TestStoreRoutes(t *testing.T) {
	engine := storeEngine()

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/user/register",
		"POST /api/user/login",
		"POST /api/user/admin",
		"GET /api/user/profile",
		"GET /api/product/list",
		"POST /api/product/single",
		"POST /api/product/add",
		"POST /api/product/remove",
		"POST /api/cart/get",
		"POST /api/cart/add",
		"POST /api/cart/update",
		"PUT /api/cart/sync",
		"POST /api/cart/merge",
		"POST /api/order/place",
		"POST /api/order/stripe",
		"POST /api/order/verifyStripe",
		"POST /api/order/userorders",
		"POST /api/order/list",
		"POST /api/order/status",
		"POST /api/order/webhook/stripe",
		"POST /api/newsletter/subscribe",
		"POST /api/sendOrderEmail",
		"GET /api/admin/outbox/stats",
		"GET /api/admin/outbox/dead",
		"GET /api/admin/outbox/entries/:id",
		"POST /api/admin/outbox/dead/retry",
		"POST /api/admin/outbox/dead/:id/retry",
		"GET /health",
		"GET /health/ready",
		"GET /metrics",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestStoreRoutesGuards(t *testing.T) {
	engine := storeEngine()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/user/profile", http.StatusUnauthorized},
		{http.MethodPost, "/api/cart/get", http.StatusUnauthorized},
		{http.MethodPut, "/api/cart/sync", http.StatusUnauthorized},
		{http.MethodPost, "/api/order/place", http.StatusUnauthorized},
		{http.MethodPost, "/api/sendOrderEmail", http.StatusUnauthorized},
		{http.MethodPost, "/api/product/add", http.StatusForbidden},
		{http.MethodPost, "/api/order/list", http.StatusForbidden},
		{http.MethodPost, "/api/order/status", http.StatusForbidden},
		{http.MethodGet, "/api/admin/outbox/stats", http.StatusForbidden},
		{http.MethodPost, "/api/admin/outbox/dead/retry", http.StatusForbidden},
		{http.MethodGet, "/health", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestStoreRoutesWithoutOutbox(t *testing.T) {
	h := Handlers{
		Auth:         handler.NewAuthHandler(nil),
		Product:      handler.NewProductHandler(nil),
		Cart:         handler.NewCartHandler(nil),
		Order:        handler.NewOrderHandler(nil),
		Notification: handler.NewNotificationHandler(nil),
	}
	registrars := StoreRoutes(h, Guards{})
	for _, r := range registrars {
		assert.NotEqual(t, "outbox", r.(*DomainGroup).Name())
	}
}

func TestServeUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "products"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products", "a.png"), []byte("img"), 0o644))

	engine := gin.New()
	ServeUploads(engine, "/uploads", dir)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/products/a.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "img", rec.Body.String())
}
