package handler

import (
	"net/http"

	"homesearch/internal/model"
	"homesearch/internal/service"

	"github.com/gin-gonic/gin"
)

// IngestHandler accepts listings from the acquisition pipeline
type IngestHandler struct {
	searchService *service.SearchService
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(searchService *service.SearchService) *IngestHandler {
	return &IngestHandler{
		searchService: searchService,
	}
}

// BatchUpsert handles POST /api/v1/properties/batch
func (h *IngestHandler) BatchUpsert(c *gin.Context) {
	var req model.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.searchService.IngestProperties(c.Request.Context(), req.Properties)
	if err != nil {
		writeError(c, "Ingest failed", err)
		return
	}

	if len(response.Errors) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}
