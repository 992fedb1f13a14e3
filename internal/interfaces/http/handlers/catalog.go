// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/domain/catalog"
	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// CatalogHandler exposes the catalog facade to storefront sessions
type CatalogHandler struct {
	catalogService *catalog.Service
	logger         *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// GetEvents handles GET /store/events with optional category, q and sort
func (h *CatalogHandler) GetEvents(c *gin.Context) {
	var opts catalog.ListOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.catalogService.ListEvents(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve events", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Events retrieved successfully",
		"data":    resp.Data,
		"count":   resp.Count,
	})
}

// GetEvent handles GET /store/events/:id
func (h *CatalogHandler) GetEvent(c *gin.Context) {
	resp, err := h.catalogService.GetEventByID(c.Request.Context(), event.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve event", err)
		return
	}

	if !resp.Success || resp.Data == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event retrieved successfully",
		"data":    resp.Data,
	})
}

// GetEventDetails handles GET /store/events/:id/details
func (h *CatalogHandler) GetEventDetails(c *gin.Context) {
	result, err := h.catalogService.GetEventDetails(c.Request.Context(), event.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve event details", err)
		return
	}
	if queryFailed(c, result) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event details retrieved successfully",
		"data":    result.Data.Event,
	})
}

// GetAttendees handles GET /store/events/:id/attendees
func (h *CatalogHandler) GetAttendees(c *gin.Context) {
	result, err := h.catalogService.GetAttendees(c.Request.Context(), event.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve attendees", err)
		return
	}
	if queryFailed(c, result) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attendees retrieved successfully",
		"data":    result.Data.Attendees,
	})
}

// GetCategories handles GET /store/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	resp, err := h.catalogService.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve categories", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    resp.Data,
		"count":   resp.Count,
	})
}

// GetEventsByCategory handles GET /store/categories/:category/events
func (h *CatalogHandler) GetEventsByCategory(c *gin.Context) {
	resp, err := h.catalogService.GetEventsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve events", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Events retrieved successfully",
		"data":    resp.Data,
		"count":   resp.Count,
	})
}

// SearchEvents handles GET /store/search?q=. Searches are sequenced per
// session: a newer search makes an in-flight one answer 409.
func (h *CatalogHandler) SearchEvents(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	resp, err := h.catalogService.SearchLatest(c.Request.Context(), "search:"+sid, c.Query("q"))
	if err != nil {
		respondError(c, h.logger, "Failed to search events", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data":    resp.Data,
		"count":   resp.Count,
	})
}

// SearchByOrganizer handles GET /store/organizers/search?name=
func (h *CatalogHandler) SearchByOrganizer(c *gin.Context) {
	result, err := h.catalogService.SearchByOrganizer(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, h.logger, "Failed to search organizers", err)
		return
	}
	if queryFailed(c, result) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data":    result.Data.Events,
		"count":   len(result.Data.Events),
	})
}

// GetUpcomingEvents handles GET /store/upcoming
func (h *CatalogHandler) GetUpcomingEvents(c *gin.Context) {
	result, err := h.catalogService.GetUpcomingEvents(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve upcoming events", err)
		return
	}
	if queryFailed(c, result) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upcoming events retrieved successfully",
		"data":    result.Data.UpcomingEvents,
		"count":   len(result.Data.UpcomingEvents),
	})
}

// GetStats handles GET /store/stats
func (h *CatalogHandler) GetStats(c *gin.Context) {
	resp, err := h.catalogService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stats retrieved successfully",
		"data":    resp.Data,
	})
}

// CreateEvent handles POST /store/events
func (h *CatalogHandler) CreateEvent(c *gin.Context) {
	var draft event.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.catalogService.CreateEvent(c.Request.Context(), draft)
	if err != nil {
		respondError(c, h.logger, "Failed to create event", err)
		return
	}

	if !resp.Success || resp.Data == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Event was not created",
			"details": resp.Message,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully",
		"data":    resp.Data,
	})
}

// queryFailed writes the response for a named-query result carrying
// errors or no data, and reports whether it did
func queryFailed[T any](c *gin.Context, result *catalog.QueryResult[T]) bool {
	if !result.HasErrors() {
		if result.Data == nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Catalog returned an empty result",
			})
			return true
		}
		return false
	}

	status := http.StatusBadRequest
	if result.ErrorCode() == catalog.CodeNotFound {
		status = http.StatusNotFound
	}

	c.JSON(status, gin.H{
		"error":   result.Errors[0].Message,
		"details": result.Errors,
	})
	return true
}
