package model

import "homesearch/internal/predicate"

// SearchRequest represents a free-text search request
type SearchRequest struct {
	Query string `json:"query" form:"searchTerm"`
	Page  int    `json:"page" form:"page"`
	Limit int    `json:"limit" form:"limit"`
}

// SearchResponse represents a page of search results
type SearchResponse struct {
	SearchID   string                 `json:"search_id"`
	Properties []PropertySearchResult `json:"properties"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	HasMore    bool                   `json:"has_more"`
	QueryUsed  predicate.Condition    `json:"queryUsed"` // Exposed for debugging, not a stable contract
	Fallback   bool                   `json:"fallback"`
	Cached     bool                   `json:"cached"`
	Took       int64                  `json:"took_ms"` // Response time in milliseconds
}

// ResultPage is the cacheable part of a search response
type ResultPage struct {
	Total      int        `json:"total"`
	Properties []Property `json:"properties"`
}

// SearchLog is one row of the search audit log
type SearchLog struct {
	SearchID       string
	Query          string
	Predicate      predicate.Condition
	Fallback       bool
	ResultCount    int
	PropertyIDs    []int64
	ResponseTimeMs int
}

// IngestRequest represents a batch of listings to upsert
type IngestRequest struct {
	Properties []PropertyInput `json:"properties" binding:"required,dive"`
}

// IngestResponse represents the outcome of a batch upsert
type IngestResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// FeedbackRequest represents user feedback/action on a search hit
type FeedbackRequest struct {
	SearchID   string `json:"search_id" binding:"required"`
	PropertyID int64  `json:"property_id" binding:"required"`
	Action     string `json:"action" binding:"required"` // click, contact, view_details
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
