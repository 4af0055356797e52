package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homesearch/internal/logger"
	"homesearch/internal/metrics"
	"homesearch/internal/model"
	"homesearch/internal/predicate"
	"homesearch/internal/translator"
)

var (
	// ErrStoreUnavailable wraps any failure of the record store.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrNotFound is returned when a property does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest marks input the service refuses to process.
	ErrInvalidRequest = errors.New("invalid request")
)

// PropertyRepository is the record store contract the service depends on.
type PropertyRepository interface {
	Count(ctx context.Context, cond predicate.Condition) (int, error)
	Find(ctx context.Context, cond predicate.Condition, offset, limit int) ([]model.Property, error)
	GetPropertyByID(ctx context.Context, id int64) (*model.Property, error)
	UpsertProperties(ctx context.Context, items []model.PropertyInput) (int, []string)
	LogSearch(ctx context.Context, entry model.SearchLog) error
	LogFeedback(ctx context.Context, searchID string, propertyID int64, action string) error
}

// ResultCache caches result pages by predicate.
type ResultCache interface {
	Get(ctx context.Context, cond predicate.Condition, offset, limit int) (*model.ResultPage, bool, error)
	Set(ctx context.Context, cond predicate.Condition, offset, limit int, page *model.ResultPage) error
	Invalidate(ctx context.Context) error
}

// Options tunes paging and ingestion limits.
type Options struct {
	DefaultLimit        int
	MaxLimit            int
	EmbeddingDimensions int
	MaxBatchSize        int
}

// FeedbackActions are the accepted feedback action names.
var FeedbackActions = map[string]bool{
	"click":        true,
	"contact":      true,
	"view_details": true,
}

// SearchService handles search business logic
type SearchService struct {
	repo       PropertyRepository
	translator *translator.Translator
	cache      ResultCache // nil disables caching
	opts       Options
	logger     *zap.Logger

	// background search logging; replaced in tests
	runAsync func(func())
}

// NewSearchService creates a new search service
func NewSearchService(
	repo PropertyRepository,
	tr *translator.Translator,
	cache ResultCache,
	opts Options,
	log *zap.Logger,
) *SearchService {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SearchService{
		repo:       repo,
		translator: tr,
		cache:      cache,
		opts:       opts,
		logger:     log,
		runAsync:   func(f func()) { go f() },
	}
}

// Translate runs the translator and records translation metrics.
func (s *SearchService) Translate(query string) *translator.Result {
	res := s.translator.Translate(query)

	outcome := "classified"
	if res.Fallback {
		outcome = "fallback"
	}
	metrics.TranslationsTotal.WithLabelValues(outcome).Inc()
	metrics.PredicateConditions.Observe(float64(res.Predicate.Len()))
	for _, clause := range res.Clauses {
		for _, name := range clause.Classifiers {
			metrics.ClassifierHitsTotal.WithLabelValues(name).Inc()
		}
	}
	return res
}

// Plan translates a search query. A blank query yields match-all with an empty
// trace; the translator's own empty-input fallback is reserved for queries
// that had text.
func (s *SearchService) Plan(query string) *translator.Result {
	if strings.TrimSpace(query) == "" {
		metrics.TranslationsTotal.WithLabelValues("match_all").Inc()
		return &translator.Result{
			Query:     query,
			Locations: []string{},
			Clauses:   []translator.ClauseTrace{},
			Predicate: predicate.MatchAll(),
		}
	}
	return s.Translate(query)
}

// Search translates the query, runs it against the store and annotates the page.
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	return s.Execute(ctx, req, s.Plan(req.Query))
}

// Execute runs an already planned search. plan must come from Plan(req.Query).
func (s *SearchService) Execute(ctx context.Context, req *model.SearchRequest, plan *translator.Result) (*model.SearchResponse, error) {
	startTime := time.Now()
	log := logger.FromContext(ctx)

	page, limit := s.window(req.Page, req.Limit)
	offset := (page - 1) * limit

	cond, fallback := plan.Predicate, plan.Fallback
	log.Debug("query translated",
		zap.String("query", req.Query),
		zap.Stringer("predicate", cond),
		zap.Bool("fallback", fallback),
	)

	result, cached, err := s.fetch(ctx, cond, offset, limit)
	if err != nil {
		return nil, err
	}

	properties := Annotate(cond, result.Properties)
	took := time.Since(startTime).Milliseconds()
	searchID := uuid.NewString()

	// Log search (non-blocking)
	entry := model.SearchLog{
		SearchID:       searchID,
		Query:          req.Query,
		Predicate:      cond,
		Fallback:       fallback,
		ResultCount:    result.Total,
		PropertyIDs:    propertyIDs(result.Properties),
		ResponseTimeMs: int(took),
	}
	s.runAsync(func() {
		if err := s.repo.LogSearch(context.Background(), entry); err != nil {
			s.logger.Warn("failed to log search", zap.String("search_id", searchID), zap.Error(err))
		}
	})

	totalPages := (result.Total + limit - 1) / limit
	return &model.SearchResponse{
		SearchID:   searchID,
		Properties: properties,
		Total:      result.Total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
		QueryUsed:  cond,
		Fallback:   fallback,
		Cached:     cached,
		Took:       took,
	}, nil
}

// fetch reads a page from the cache or the store. Cache failures are logged
// and otherwise ignored.
func (s *SearchService) fetch(ctx context.Context, cond predicate.Condition, offset, limit int) (*model.ResultPage, bool, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		page, ok, err := s.cache.Get(ctx, cond, offset, limit)
		switch {
		case err != nil:
			metrics.CacheTotal.WithLabelValues("error").Inc()
			log.Warn("result cache read failed", zap.Error(err))
		case ok:
			metrics.CacheTotal.WithLabelValues("hit").Inc()
			return page, true, nil
		default:
			metrics.CacheTotal.WithLabelValues("miss").Inc()
		}
	}

	start := time.Now()
	total, err := s.repo.Count(ctx, cond)
	metrics.ObserveStore("count", start, err)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	properties := []model.Property{}
	if offset < total {
		start = time.Now()
		properties, err = s.repo.Find(ctx, cond, offset, limit)
		metrics.ObserveStore("find", start, err)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
	}

	page := &model.ResultPage{Total: total, Properties: properties}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cond, offset, limit, page); err != nil {
			log.Warn("result cache write failed", zap.Error(err))
		}
	}
	return page, false, nil
}

// window applies paging defaults: page starts at 1, limit is clamped to
// MaxLimit, and page is capped so the offset cannot overflow.
func (s *SearchService) window(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}
	return page, limit
}

// GetProperty retrieves a single property by ID
func (s *SearchService) GetProperty(ctx context.Context, id int64) (*model.Property, error) {
	start := time.Now()
	p, err := s.repo.GetPropertyByID(ctx, id)
	metrics.ObserveStore("get", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if p == nil {
		return nil, fmt.Errorf("property %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// IngestProperties upserts a batch of listings and drops cached pages.
// Items with a wrong-sized embedding are rejected individually.
func (s *SearchService) IngestProperties(ctx context.Context, items []model.PropertyInput) (*model.IngestResponse, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no properties", ErrInvalidRequest)
	}
	if s.opts.MaxBatchSize > 0 && len(items) > s.opts.MaxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit %d", ErrInvalidRequest, len(items), s.opts.MaxBatchSize)
	}

	resp := &model.IngestResponse{}
	valid := make([]model.PropertyInput, 0, len(items))
	for _, item := range items {
		if dims := s.opts.EmbeddingDimensions; dims > 0 && len(item.Embedding) > 0 && len(item.Embedding) != dims {
			resp.Failed++
			resp.Errors = append(resp.Errors, fmt.Sprintf("link %s: embedding has %d dimensions, want %d", item.Link, len(item.Embedding), dims))
			continue
		}
		valid = append(valid, item)
	}

	if len(valid) > 0 {
		start := time.Now()
		success, errs := s.repo.UpsertProperties(ctx, valid)
		metrics.ObserveStore("upsert", start, nil)
		resp.Success = success
		resp.Failed += len(valid) - success
		resp.Errors = append(resp.Errors, errs...)
	}

	if resp.Success > 0 && s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate result cache", zap.Error(err))
		}
	}

	s.logger.Info("properties ingested",
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

// LogFeedback logs user feedback/action
func (s *SearchService) LogFeedback(ctx context.Context, searchID string, propertyID int64, action string) error {
	if !FeedbackActions[action] {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidRequest, action)
	}
	if _, err := uuid.Parse(searchID); err != nil {
		return fmt.Errorf("%w: search_id is not a uuid", ErrInvalidRequest)
	}
	if err := s.repo.LogFeedback(ctx, searchID, propertyID, action); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func propertyIDs(properties []model.Property) []int64 {
	ids := make([]int64, len(properties))
	for i, p := range properties {
		ids[i] = p.ID
	}
	return ids
}
