package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"homesearch/internal/logger"
	"homesearch/internal/model"
	"homesearch/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// List handles GET /api/properties?searchTerm=&limit=&page=
func (h *SearchHandler) List(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	h.search(c, &req)
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	h.search(c, &req)
}

func (h *SearchHandler) search(c *gin.Context, req *model.SearchRequest) {
	response, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		writeError(c, "Search failed", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SearchStream handles POST /api/v1/search/stream - SSE: translation first, then results
func (h *SearchHandler) SearchStream(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{"query": req.Query})
	flusher.Flush()

	plan := h.searchService.Plan(req.Query)
	sendSSE(c, "translation", plan)
	flusher.Flush()

	response, err := h.searchService.Execute(c.Request.Context(), &req, plan)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("stream search failed", zap.Error(err))
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	sendSSE(c, "results", response)
	flusher.Flush()

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}

// Translate handles GET /api/v1/translate?q=
func (h *SearchHandler) Translate(c *gin.Context) {
	c.JSON(http.StatusOK, h.searchService.Translate(c.Query("q")))
}

// GetProperty handles GET /api/v1/properties/:id
func (h *SearchHandler) GetProperty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	property, err := h.searchService.GetProperty(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to get property", err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// writeError maps service errors onto status codes.
func writeError(c *gin.Context, prefix string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error(prefix, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": prefix + ": " + err.Error()})
}
