package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homesearch/internal/model"
	"homesearch/internal/predicate"
	"homesearch/internal/translator"
)

const seedFile = "testdata/properties.json"

// storeCases run against every store implementation; ids follow seed order.
var storeCases = []struct {
	query string
	ids   []int64
}{
	{query: "", ids: []int64{1, 2, 3}},
	{query: "dublin", ids: []int64{1, 2}},
	{query: "cork", ids: []int64{3}},
	{query: "3 bed", ids: []int64{1}},
	{query: "3+ bed", ids: []int64{1, 2}},
	{query: "under 300k", ids: []int64{3}},
	{query: "over 400k", ids: []int64{2}},
	{query: "between 300k and 400k", ids: []int64{1}},
	{query: "dublin 3 bed under 400k", ids: []int64{1}},
	{query: "house with garden", ids: []int64{1, 2}},
	{query: "terraced", ids: []int64{3}},
	{query: "garage", ids: []int64{2}},
	{query: "fireplace", ids: []int64{2}},
	{query: "central heating", ids: []int64{1}},
	{query: "apartment", ids: nil},
}

func predicateFor(query string) predicate.Condition {
	if query == "" {
		return predicate.MatchAll()
	}
	return translator.New(nil).Translate(query).Predicate
}

func ids(props []model.Property) []int64 {
	var out []int64
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func newSeededMemory(t *testing.T) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository()
	n, err := repo.LoadSeedFile(context.Background(), seedFile)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return repo
}

func TestMemoryRepository_Queries(t *testing.T) {
	repo := newSeededMemory(t)
	ctx := context.Background()

	for _, tc := range storeCases {
		t.Run(tc.query, func(t *testing.T) {
			cond := predicateFor(tc.query)

			total, err := repo.Count(ctx, cond)
			require.NoError(t, err)
			assert.Equal(t, len(tc.ids), total)

			found, err := repo.Find(ctx, cond, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tc.ids, ids(found))
		})
	}
}

func TestMemoryRepository_Pagination(t *testing.T) {
	repo := newSeededMemory(t)
	ctx := context.Background()

	page1, err := repo.Find(ctx, predicate.MatchAll(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(page1))

	page2, err := repo.Find(ctx, predicate.MatchAll(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(page2))

	page3, err := repo.Find(ctx, predicate.MatchAll(), 4, 2)
	require.NoError(t, err)
	assert.Empty(t, page3)
	assert.NotNil(t, page3)
}

func TestMemoryRepository_UpsertByLink(t *testing.T) {
	repo := newSeededMemory(t)
	ctx := context.Background()

	price := 325000.0
	n, errs := repo.UpsertProperties(ctx, []model.PropertyInput{
		{Link: "https://www.daft.ie/for-sale/78-church-road-cork", PriceNumeric: &price},
		{Link: "https://www.daft.ie/for-sale/new"},
		{Link: ""},
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"link is required"}, errs)

	p, err := repo.GetPropertyByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 325000.0, *p.PriceNumeric)
	assert.Nil(t, p.Address)

	p, err = repo.GetPropertyByID(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "https://www.daft.ie/for-sale/new", p.Link)

	p, err = repo.GetPropertyByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestMemoryRepository_FindReturnsCopies(t *testing.T) {
	repo := newSeededMemory(t)
	ctx := context.Background()

	found, err := repo.Find(ctx, predicate.MatchAll(), 0, 1)
	require.NoError(t, err)
	found[0].Features[0] = "changed"

	p, err := repo.GetPropertyByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Garden", p.Features[0])
}

func TestMemoryRepository_SearchLogAndFeedback(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.LogSearch(ctx, model.SearchLog{SearchID: "abc", Query: "dublin", ResultCount: 2}))
	require.NoError(t, repo.LogFeedback(ctx, "abc", 7, "click"))
	require.NoError(t, repo.LogFeedback(ctx, "missing", 7, "click"))

	entry, clicked, action, ok := repo.SearchLog("abc")
	require.True(t, ok)
	assert.Equal(t, "dublin", entry.Query)
	assert.Equal(t, int64(7), clicked)
	assert.Equal(t, "click", action)

	_, _, _, ok = repo.SearchLog("missing")
	assert.False(t, ok)
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	repo := newSeededMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Count(ctx, predicate.MatchAll())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryRepository_LoadSeedFileErrors(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.LoadSeedFile(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read seed file")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = repo.LoadSeedFile(ctx, bad)
	assert.ErrorContains(t, err, "failed to parse seed file")
}
