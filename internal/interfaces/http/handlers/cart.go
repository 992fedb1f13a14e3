// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/domain/cart"
	"github.com/your-org/eventhub-storefront/internal/domain/catalog"
	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// AddToCartRequest is the body of POST /store/cart/items
type AddToCartRequest struct {
	EventID  event.ID `json:"eventId" binding:"required"`
	Quantity int      `json:"quantity" binding:"required,min=1,max=100"`
}

// UpdateCartItemRequest is the body of PUT /store/cart/items/:id. Zero
// removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=100"`
}

// SetCartOpenRequest is the body of PUT /store/cart/open
type SetCartOpenRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService    *cart.Service
	catalogService *catalog.Service
	logger         *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, catalogService *catalog.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		catalogService: catalogService,
		logger:         logger,
	}
}

// GetCart handles GET /store/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    store.View(),
	})
}

// AddToCart handles POST /store/cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.catalogService.GetEventByID(c.Request.Context(), req.EventID)
	if err != nil {
		respondError(c, h.logger, "Failed to look up event", err)
		return
	}
	if !resp.Success || resp.Data == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
		return
	}

	store, ok := h.openCart(c)
	if !ok {
		return
	}

	if err := store.AddToCart(c.Request.Context(), *resp.Data, req.Quantity); err != nil {
		respondError(c, h.logger, "Failed to add item to cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    store.View(),
	})
}

// UpdateCartItem handles PUT /store/cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store, ok := h.openCart(c)
	if !ok {
		return
	}

	if err := store.UpdateQuantity(c.Request.Context(), event.ID(c.Param("id")), *req.Quantity); err != nil {
		respondError(c, h.logger, "Failed to update cart item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    store.View(),
	})
}

// RemoveFromCart handles DELETE /store/cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}

	if err := store.RemoveFromCart(c.Request.Context(), event.ID(c.Param("id"))); err != nil {
		respondError(c, h.logger, "Failed to remove item from cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    store.View(),
	})
}

// ClearCart handles DELETE /store/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}

	if err := store.ClearCart(c.Request.Context()); err != nil {
		respondError(c, h.logger, "Failed to clear cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    store.View(),
	})
}

// ToggleCart handles POST /store/cart/toggle
func (h *CartHandler) ToggleCart(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}

	if err := store.ToggleCart(c.Request.Context()); err != nil {
		respondError(c, h.logger, "Failed to toggle cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart toggled successfully",
		"data":    store.View(),
	})
}

// SetCartOpen handles PUT /store/cart/open
func (h *CartHandler) SetCartOpen(c *gin.Context) {
	var req SetCartOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store, ok := h.openCart(c)
	if !ok {
		return
	}

	if err := store.SetOpen(c.Request.Context(), *req.Open); err != nil {
		respondError(c, h.logger, "Failed to update cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated successfully",
		"data":    store.View(),
	})
}

func (h *CartHandler) openCart(c *gin.Context) (*cart.Store, bool) {
	sid, ok := sessionID(c)
	if !ok {
		return nil, false
	}

	store, err := h.cartService.Open(c.Request.Context(), sid)
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve cart", err)
		return nil, false
	}
	return store, true
}
