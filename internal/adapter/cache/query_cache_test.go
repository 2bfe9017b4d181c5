package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"research/internal/domain"
)

type countingSearcher struct {
	calls int
	err   error
}

func (s *countingSearcher) Search(_ context.Context, query string, num int) ([]domain.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.SearchResult{{Title: query, URL: "https://example.com", Snippet: "s"}}, nil
}

func TestSearchCache_GetPut(t *testing.T) {
	c := NewSearchCache(10, time.Minute)

	_, ok := c.Get("q", 10)
	assert.False(t, ok)

	c.Put("q", 10, []domain.SearchResult{{Title: "a"}})
	got, ok := c.Get("q", 10)
	require.True(t, ok)
	assert.Equal(t, "a", got[0].Title)

	_, ok = c.Get("q", 5)
	assert.False(t, ok, "num is part of the key")

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(2), misses)
}

func TestSearchCache_ReturnsCopies(t *testing.T) {
	c := NewSearchCache(10, time.Minute)
	in := []domain.SearchResult{{Title: "a"}}
	c.Put("q", 10, in)
	in[0].Title = "mutated"

	got, _ := c.Get("q", 10)
	got[0].Title = "also mutated"

	again, _ := c.Get("q", 10)
	assert.Equal(t, "a", again[0].Title)
}

func TestSearchCache_TTL(t *testing.T) {
	c := NewSearchCache(10, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put("q", 10, []domain.SearchResult{{Title: "a"}})
	now = now.Add(2 * time.Minute)

	_, ok := c.Get("q", 10)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestSearchCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewSearchCache(2, time.Minute)
	c.Put("a", 10, nil)
	c.Put("b", 10, nil)
	c.Get("a", 10)
	c.Put("c", 10, nil)

	_, okA := c.Get("a", 10)
	_, okB := c.Get("b", 10)
	_, okC := c.Get("c", 10)
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}

func TestCachedSearcher(t *testing.T) {
	inner := &countingSearcher{}
	s := NewCachedSearcher(inner, NewSearchCache(10, time.Minute))

	for i := 0; i < 3; i++ {
		res, err := s.Search(context.Background(), "climate", 10)
		require.NoError(t, err)
		assert.Len(t, res, 1)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSearcher_ErrorsNotCached(t *testing.T) {
	inner := &countingSearcher{err: errors.New("boom")}
	s := NewCachedSearcher(inner, NewSearchCache(10, time.Minute))

	_, err := s.Search(context.Background(), "q", 10)
	assert.Error(t, err)
	_, err = s.Search(context.Background(), "q", 10)
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}
