// internal/interfaces/http/handlers/graphql.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/domain/catalog"
)

// QueryHandler serves the named-query endpoint
type QueryHandler struct {
	resolver *catalog.Resolver
	logger   *logrus.Logger
}

// NewQueryHandler creates a new named-query handler
func NewQueryHandler(resolver *catalog.Resolver, logger *logrus.Logger) *QueryHandler {
	return &QueryHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// Execute handles POST /graphql
func (h *QueryHandler) Execute(c *gin.Context) {
	var req catalog.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, catalog.QueryResult[struct{}]{
			Errors: []catalog.QueryError{{
				Message:    "request body must be a JSON object with a query",
				Extensions: catalog.QueryErrorExtensions{Code: catalog.CodeBadUserInput},
			}},
		})
		return
	}

	result, err := h.resolver.Execute(c.Request.Context(), req)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"operation": catalog.OperationName(req),
		}).WithError(err).Error("Named query failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"errors": []catalog.QueryError{{
				Message:    "internal error",
				Extensions: catalog.QueryErrorExtensions{Code: "INTERNAL_SERVER_ERROR"},
			}},
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
