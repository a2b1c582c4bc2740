package router

import (
	"github.com/gin-gonic/gin"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/handler"
)

// Handlers are the storefront's HTTP handlers
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Notification *handler.NotificationHandler
	// Outbox is optional; the admin console is mounted only when set
	Outbox *handler.OutboxHandler
}

// Guards authenticate a request. User admits signed-in customers and
// Admin admits the admin token only.
type Guards struct {
	User  gin.HandlerFunc
	Admin gin.HandlerFunc
}

// StoreRoutes declares the storefront API. Mount it with Router.Register.
func StoreRoutes(h Handlers, g Guards) []RouteRegistrar {
	user := NewDomainGroup("user", "/user").
		POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login).
		POST("/admin", h.Auth.AdminLogin).
		GET("/profile", g.User, h.Auth.Profile)

	product := NewDomainGroup("product", "/product").
		GET("/list", h.Product.List).
		POST("/single", h.Product.Single).
		POST("/add", g.Admin, h.Product.Add).
		POST("/remove", g.Admin, h.Product.Remove)

	cart := NewDomainGroup("cart", "/cart").
		Use(g.User).
		POST("/get", h.Cart.Get).
		POST("/add", h.Cart.Add).
		POST("/update", h.Cart.Update).
		PUT("/sync", h.Cart.Sync).
		POST("/merge", h.Cart.Merge)

	order := NewDomainGroup("order", "/order").
		POST("/place", g.User, h.Order.PlaceCOD).
		POST("/stripe", g.User, h.Order.PlaceStripe).
		POST("/verifyStripe", g.User, h.Order.VerifyStripe).
		POST("/userorders", g.User, h.Order.UserOrders).
		POST("/list", g.Admin, h.Order.AllOrders).
		POST("/status", g.Admin, h.Order.UpdateStatus)
	order.Group("webhook", "/webhook").
		POST("/stripe", h.Order.StripeWebhook)

	newsletter := NewDomainGroup("newsletter", "/newsletter").
		POST("/subscribe", h.Notification.Subscribe)

	mail := NewDomainGroup("mail", "").
		POST("/sendOrderEmail", g.User, h.Notification.SendOrderEmail)

	registrars := []RouteRegistrar{user, product, cart, order, newsletter, mail}
	if h.Outbox != nil {
		registrars = append(registrars, outboxRoutes(h.Outbox, g.Admin))
	}
	return registrars
}

func outboxRoutes(h *handler.OutboxHandler, admin gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("outbox", "/admin/outbox").
		Use(admin).
		GET("/stats", h.Stats).
		GET("/dead", h.DeadLetters).
		GET("/entries/:id", h.Entry).
		POST("/dead/retry", h.RetryAll).
		POST("/dead/:id/retry", h.Retry)
}

// RegisterSystemRoutes mounts health and metrics outside the API prefix
func RegisterSystemRoutes(engine *gin.Engine, sys *handler.SystemHandler) {
	engine.GET("/health", sys.Health)
	engine.GET("/health/ready", sys.Ready)
	engine.GET("/metrics", sys.Metrics)
}

// ServeUploads exposes images written by the local storage driver
func ServeUploads(engine *gin.Engine, urlPath, dir string) {
	engine.Static(urlPath, dir)
}
