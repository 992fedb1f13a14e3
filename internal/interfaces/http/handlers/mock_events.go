// internal/interfaces/http/handlers/mock_events.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/domain/catalog"
	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// MockEventHandler serves the flat-style event API backed by a Resolver
type MockEventHandler struct {
	resolver *catalog.Resolver
	logger   *logrus.Logger
}

// NewMockEventHandler creates a new mock event handler
func NewMockEventHandler(resolver *catalog.Resolver, logger *logrus.Logger) *MockEventHandler {
	return &MockEventHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// ListEvents handles GET /api/events
func (h *MockEventHandler) ListEvents(c *gin.Context) {
	resp, err := h.resolver.ListEvents(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to retrieve events", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetEvent handles GET /api/events/:id
func (h *MockEventHandler) GetEvent(c *gin.Context) {
	resp, err := h.resolver.GetEvent(c.Request.Context(), event.ID(c.Param("id")))
	if err != nil {
		h.fail(c, "Failed to retrieve event", err)
		return
	}

	if !resp.Success {
		c.JSON(http.StatusNotFound, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EventsByCategory handles GET /api/events/category/:category
func (h *MockEventHandler) EventsByCategory(c *gin.Context) {
	resp, err := h.resolver.EventsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.fail(c, "Failed to retrieve events", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search handles GET /api/search?q=
func (h *MockEventHandler) Search(c *gin.Context) {
	resp, err := h.resolver.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, "Failed to search events", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateEvent handles POST /api/events
func (h *MockEventHandler) CreateEvent(c *gin.Context) {
	var draft event.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, catalog.EventResponse{
			Success: false,
			Message: "Invalid request data",
		})
		return
	}

	resp, err := h.resolver.CreateEvent(c.Request.Context(), draft)
	if err != nil {
		h.fail(c, "Failed to create event", err)
		return
	}

	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Categories handles GET /api/categories
func (h *MockEventHandler) Categories(c *gin.Context) {
	resp, err := h.resolver.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to retrieve categories", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /api/stats
func (h *MockEventHandler) Stats(c *gin.Context) {
	resp, err := h.resolver.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to compute stats", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MockEventHandler) fail(c *gin.Context, message string, err error) {
	h.logger.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
	})
}
