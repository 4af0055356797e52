package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"homesearch/internal/model"
	"homesearch/internal/predicate"
)

// MemoryRepository keeps properties in process and evaluates predicates with
// predicate.Eval. It backs local development and tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	nextID     int64
	properties []model.Property // sorted by ID
	byLink     map[string]int
	searches   map[string]*searchEntry
}

type searchEntry struct {
	log       model.SearchLog
	clickedID int64
	action    string
}

// NewMemoryRepository creates an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:   1,
		byLink:   make(map[string]int),
		searches: make(map[string]*searchEntry),
	}
}

// LoadSeedFile upserts the listings in a JSON file holding an array of
// property inputs.
func (r *MemoryRepository) LoadSeedFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var items []model.PropertyInput
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	n, errs := r.UpsertProperties(ctx, items)
	if len(errs) > 0 {
		return n, fmt.Errorf("seed file %s: %d invalid entries, first: %s", path, len(errs), errs[0])
	}
	return n, nil
}

// Close is a no-op.
func (r *MemoryRepository) Close() error { return nil }

// Count returns the number of properties matching cond.
func (r *MemoryRepository) Count(ctx context.Context, cond predicate.Condition) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for i := range r.properties {
		if predicate.Eval(cond, &r.properties[i]) {
			total++
		}
	}
	return total, nil
}

// Find returns one page of properties matching cond in id order.
func (r *MemoryRepository) Find(ctx context.Context, cond predicate.Condition, offset, limit int) ([]model.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Property{}
	skipped := 0
	for i := range r.properties {
		if len(out) >= limit {
			break
		}
		if !predicate.Eval(cond, &r.properties[i]) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, clone(r.properties[i]))
	}
	return out, nil
}

// GetPropertyByID returns nil, nil when no property has the id.
func (r *MemoryRepository) GetPropertyByID(ctx context.Context, id int64) (*model.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := sort.Search(len(r.properties), func(i int) bool { return r.properties[i].ID >= id })
	if i == len(r.properties) || r.properties[i].ID != id {
		return nil, nil
	}
	p := clone(r.properties[i])
	return &p, nil
}

// UpsertProperties inserts or replaces listings keyed by link.
func (r *MemoryRepository) UpsertProperties(ctx context.Context, items []model.PropertyInput) (int, []string) {
	if err := ctx.Err(); err != nil {
		return 0, []string{err.Error()}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	success := 0
	var errs []string
	now := time.Now().UTC()
	for _, item := range items {
		if item.Link == "" {
			errs = append(errs, "link is required")
			continue
		}
		p := item.ToProperty()
		p.UpdatedAt = now
		if i, ok := r.byLink[item.Link]; ok {
			p.ID = r.properties[i].ID
			p.CreatedAt = r.properties[i].CreatedAt
			r.properties[i] = p
		} else {
			p.ID = r.nextID
			p.CreatedAt = now
			r.nextID++
			r.byLink[item.Link] = len(r.properties)
			r.properties = append(r.properties, p)
		}
		success++
	}
	return success, errs
}

// LogSearch records a search in memory.
func (r *MemoryRepository) LogSearch(ctx context.Context, entry model.SearchLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches[entry.SearchID] = &searchEntry{log: entry}
	return nil
}

// LogFeedback attaches an action to a logged search. Unknown ids are ignored,
// as an UPDATE matching no rows would be.
func (r *MemoryRepository) LogFeedback(ctx context.Context, searchID string, propertyID int64, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.searches[searchID]; ok {
		s.clickedID = propertyID
		s.action = action
	}
	return nil
}

// SearchLog returns a logged search and its feedback, if any.
func (r *MemoryRepository) SearchLog(searchID string) (model.SearchLog, int64, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.searches[searchID]
	if !ok {
		return model.SearchLog{}, 0, "", false
	}
	return s.log, s.clickedID, s.action, true
}

func clone(p model.Property) model.Property {
	if p.Features != nil {
		p.Features = append(model.JSONArray(nil), p.Features...)
	}
	return p
}
