package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"homesearch/internal/predicate"
	"homesearch/internal/translator"
)

func TestCacheKey(t *testing.T) {
	tr := translator.New(nil)
	a := tr.Translate("house in dublin").Predicate
	b := tr.Translate("  HOUSE near Dublin ").Predicate

	assert.True(t, strings.HasPrefix(CacheKey(a, 0, 20), cachePrefix))
	assert.Equal(t, CacheKey(a, 0, 20), CacheKey(b, 0, 20))
	assert.NotEqual(t, CacheKey(a, 0, 20), CacheKey(a, 20, 20))
	assert.NotEqual(t, CacheKey(a, 0, 20), CacheKey(a, 0, 10))
	assert.NotEqual(t, CacheKey(a, 0, 20), CacheKey(predicate.MatchAll(), 0, 20))
}
