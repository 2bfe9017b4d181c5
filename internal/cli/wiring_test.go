package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"research/config"
	"research/internal/adapter/cache"
	"research/internal/adapter/retriever"
	"research/internal/adapter/serpapi"
	"research/internal/domain"
	"research/internal/usecase"
)

func TestNewSearcher(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Search.Provider = "mock"

	s, err := newSearcher(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &serpapi.MockClient{}, s)

	cfg.Search.CacheSize = 10
	s, err = newSearcher(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &cache.CachedSearcher{}, s)

	cfg.Search.Provider = "bing"
	_, err = newSearcher(cfg, zap.NewNop())
	assert.Error(t, err)
}

type countingSearcher struct {
	serpapi.MockClient
	calls int
}

func (c *countingSearcher) Search(ctx context.Context, query string, num int) ([]domain.SearchResult, error) {
	c.calls++
	return c.MockClient.Search(ctx, query, num)
}

func TestSearch_DefaultConfigCallsSearcherEveryRun(t *testing.T) {
	cfg := config.DefaultConfig()
	counter := &countingSearcher{}

	uc := usecase.NewSearchUseCase(withSearchCache(cfg, counter), retriever.NewSimpleReranker(),
		usecase.SearchOptions{NumResults: cfg.Search.NumResults, TopK: cfg.Search.TopK, Timeout: cfg.Search.Timeout}, nil)

	first := uc.Run(context.Background(), "climate change")
	second := uc.Run(context.Background(), "climate change")
	assert.Equal(t, first, second)
	assert.Equal(t, 2, counter.calls)
}

func TestSearch_CacheEnabledServesRepeatQuery(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Search.CacheSize = 10
	counter := &countingSearcher{}

	uc := usecase.NewSearchUseCase(withSearchCache(cfg, counter), retriever.NewSimpleReranker(),
		usecase.SearchOptions{NumResults: cfg.Search.NumResults, TopK: cfg.Search.TopK, Timeout: cfg.Search.Timeout}, nil)

	uc.Run(context.Background(), "climate change")
	uc.Run(context.Background(), "climate change")
	assert.Equal(t, 1, counter.calls)
}

func TestNewSearcher_MissingKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Search.APIKeyEnv = "RESEARCH_TEST_MISSING_KEY"
	t.Setenv("RESEARCH_TEST_MISSING_KEY", "")

	_, err := newSearcher(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewReranker(t *testing.T) {
	cfg := config.DefaultConfig()

	r, err := newReranker(cfg)
	require.NoError(t, err)
	assert.IsType(t, &retriever.HFCrossEncoder{}, r)

	cfg.Rerank.Provider = "simple"
	r, err = newReranker(cfg)
	require.NoError(t, err)
	assert.IsType(t, &retriever.SimpleReranker{}, r)

	cfg.Rerank.Provider = "nope"
	_, err = newReranker(cfg)
	assert.Error(t, err)
}

func TestNewLLM(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "mock"
	m, err := newLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock", m.ModelName())

	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKeyEnv = "RESEARCH_TEST_MISSING_KEY"
	t.Setenv("RESEARCH_TEST_MISSING_KEY", "")
	m, err = newLLM(cfg)
	assert.Error(t, err)
	assert.Nil(t, m)
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()

	st, err := openStore(cfg, dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, st.Close())

	assert.FileExists(t, filepath.Join(dir, ".research", "research.db"))
	assert.DirExists(t, filepath.Join(dir, "uploads"))

	st, err = openStore(cfg, dir, zap.NewNop())
	require.NoError(t, err)
	st.Close()
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "<1s", formatDuration(500*time.Millisecond))
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "2m5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h30m", formatDuration(90*time.Minute))
}
