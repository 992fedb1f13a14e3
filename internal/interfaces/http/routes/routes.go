// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/config"
	"github.com/your-org/eventhub-storefront/internal/domain/cart"
	"github.com/your-org/eventhub-storefront/internal/domain/catalog"
	"github.com/your-org/eventhub-storefront/internal/domain/checkout"
	"github.com/your-org/eventhub-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/eventhub-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/eventhub-storefront/internal/pkg/session"
)

// Services bundles what the route groups need
type Services struct {
	// MockResolver answers the mock API; nil disables it
	MockResolver *catalog.Resolver
	Catalog      *catalog.Service
	Cart         *cart.Service
	Checkout     *checkout.Service
	PDF          handlers.ReceiptRenderer
	Sessions     *session.Manager
	Logger       *logrus.Logger
}

// SetupMockRoutes sets up the mock event API and the named-query endpoint.
// limiter may be nil; it never applies to loopback callers, which is how
// the storefront reaches this API in live mode.
func SetupMockRoutes(r gin.IRouter, svc *Services, cfg *config.Config, limiter gin.HandlerFunc) {
	eventHandler := handlers.NewMockEventHandler(svc.MockResolver, svc.Logger)
	queryHandler := handlers.NewQueryHandler(svc.MockResolver, svc.Logger)

	var chain []gin.HandlerFunc
	if limiter != nil {
		chain = append(chain, middleware.ExceptLoopback(limiter))
	}
	chain = append(chain, middleware.MockLatency(cfg.Mock.LatencyMin, cfg.Mock.LatencyMax))

	api := r.Group("/api")
	api.Use(chain...)
	{
		api.GET("/events", eventHandler.ListEvents)
		api.POST("/events", eventHandler.CreateEvent)
		api.GET("/events/:id", eventHandler.GetEvent)
		api.GET("/events/category/:category", eventHandler.EventsByCategory)
		api.GET("/categories", eventHandler.Categories)
		api.GET("/stats", eventHandler.Stats)
		api.GET("/search", eventHandler.Search)
	}

	r.Group("/graphql", chain...).POST("", queryHandler.Execute)
}

// SetupStoreRoutes sets up the session-scoped storefront API. limiter may
// be nil.
func SetupStoreRoutes(r gin.IRouter, svc *Services, cfg *config.Config, limiter gin.HandlerFunc) {
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, svc.Logger)
	cartHandler := handlers.NewCartHandler(svc.Cart, svc.Catalog, svc.Logger)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Cart, svc.Checkout, svc.PDF, svc.Logger)

	store := r.Group("/store")
	if limiter != nil {
		store.Use(limiter)
	}
	store.Use(middleware.Session(cfg, svc.Sessions, svc.Logger))
	{
		// Catalog
		store.GET("/events", catalogHandler.GetEvents)
		store.POST("/events", catalogHandler.CreateEvent)
		store.GET("/events/:id", catalogHandler.GetEvent)
		store.GET("/events/:id/details", catalogHandler.GetEventDetails)
		store.GET("/events/:id/attendees", catalogHandler.GetAttendees)
		store.GET("/categories", catalogHandler.GetCategories)
		store.GET("/categories/:category/events", catalogHandler.GetEventsByCategory)
		store.GET("/search", catalogHandler.SearchEvents)
		store.GET("/organizers/search", catalogHandler.SearchByOrganizer)
		store.GET("/upcoming", catalogHandler.GetUpcomingEvents)
		store.GET("/stats", catalogHandler.GetStats)

		// Cart
		cartGroup := store.Group("/cart")
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.DELETE("", cartHandler.ClearCart)
			cartGroup.POST("/items", cartHandler.AddToCart)
			cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
			cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
			cartGroup.POST("/toggle", cartHandler.ToggleCart)
			cartGroup.PUT("/open", cartHandler.SetCartOpen)
		}

		// Checkout
		store.POST("/checkout", checkoutHandler.Checkout)
		store.GET("/orders/:id", checkoutHandler.GetOrder)
	}
}

// SetupRoutes sets up all API routes behind the per-client limiter. A nil
// limiter disables rate limiting.
func SetupRoutes(r gin.IRouter, svc *Services, cfg *config.Config, limiter gin.HandlerFunc) {
	if svc.MockResolver != nil {
		SetupMockRoutes(r, svc, cfg, limiter)
	}
	SetupStoreRoutes(r, svc, cfg, limiter)
}
