package handler

import (
	"net/http"

	"homesearch/internal/logger"
	"homesearch/internal/model"
	"homesearch/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeedbackHandler records what users did with a search hit.
type FeedbackHandler struct {
	searchService *service.SearchService
}

func NewFeedbackHandler(searchService *service.SearchService) *FeedbackHandler {
	return &FeedbackHandler{searchService: searchService}
}

// Submit handles POST /api/v1/feedback. Action and search id are validated by
// the service; unknown actions come back as 400.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.searchService.LogFeedback(ctx, req.SearchID, req.PropertyID, req.Action); err != nil {
		writeError(c, "Failed to log feedback", err)
		return
	}

	logger.FromContext(ctx).Debug("feedback recorded",
		zap.String("search_id", req.SearchID),
		zap.Int64("property_id", req.PropertyID),
		zap.String("action", req.Action),
	)
	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "feedback recorded for " + req.Action,
	})
}
