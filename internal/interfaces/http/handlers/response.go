// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/domain/catalog"
	"github.com/your-org/eventhub-storefront/internal/domain/checkout"
	"github.com/your-org/eventhub-storefront/internal/interfaces/http/middleware"
)

// CodeSuperseded marks a search answered by a newer request
const CodeSuperseded = "SUPERSEDED"

// respondError maps domain errors onto storefront status codes
func respondError(c *gin.Context, logger *logrus.Logger, message string, err error) {
	var (
		validationErr *catalog.ValidationError
		formErr       *checkout.FormError
		transportErr  *catalog.TransportError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   message,
			"details": validationErr.Fields,
		})
	case errors.As(err, &formErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   message,
			"details": formErr.Fields,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, checkout.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
	case errors.Is(err, catalog.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Request superseded by a newer one",
			"code":  CodeSuperseded,
		})
	case errors.As(err, &transportErr):
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"op":         transportErr.Op,
			"status":     transportErr.StatusCode,
		}).WithError(err).Error("Catalog backend unavailable")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   message,
			"details": "catalog backend unavailable",
		})
	default:
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
		}).WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": message,
		})
	}
}

// sessionID reads the session set by the session middleware
func sessionID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Session required",
		})
	}
	return id, ok
}
