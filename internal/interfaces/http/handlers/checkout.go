// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/domain/cart"
	"github.com/your-org/eventhub-storefront/internal/domain/checkout"
)

// ReceiptRenderer turns an order into a PDF receipt
type ReceiptRenderer interface {
	GenerateReceipt(order *checkout.Order) (*bytes.Buffer, error)
}

// CheckoutHandler handles checkout and order confirmation endpoints
type CheckoutHandler struct {
	cartService     *cart.Service
	checkoutService *checkout.Service
	pdfService      ReceiptRenderer
	logger          *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(cartService *cart.Service, checkoutService *checkout.Service, pdfService ReceiptRenderer, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		pdfService:      pdfService,
		logger:          logger,
	}
}

// Checkout handles POST /store/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store, err := h.cartService.Open(c.Request.Context(), sid)
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve cart", err)
		return
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), sid, store, form)
	if err != nil {
		respondError(c, h.logger, "Failed to place order", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    order,
	})
}

// GetOrder handles GET /store/orders/:id. Only the session that placed the
// order can read it, and only once; ?format=pdf returns the receipt instead
// of JSON. A receipt that fails to render leaves the order readable.
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	order, err := h.checkoutService.ConsumeOrder(c.Request.Context(), sid, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve order", err)
		return
	}

	if c.Query("format") != "pdf" {
		c.JSON(http.StatusOK, gin.H{
			"message": "Order retrieved successfully",
			"data":    order,
		})
		return
	}

	pdfBuffer, err := h.pdfService.GenerateReceipt(order)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
		}).WithError(err).Error("Failed to generate receipt")

		if err := h.checkoutService.RestoreOrder(c.Request.Context(), sid, order); err != nil {
			h.logger.WithFields(logrus.Fields{
				"order_id": order.ID,
			}).WithError(err).Error("Failed to restore order after receipt failure")
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", order.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}
