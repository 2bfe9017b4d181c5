package cli

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"research/config"
	"research/internal/adapter/cache"
	"research/internal/adapter/credibility"
	"research/internal/adapter/fs"
	"research/internal/adapter/llm"
	"research/internal/adapter/pdf"
	"research/internal/adapter/retriever"
	"research/internal/adapter/serpapi"
	"research/internal/adapter/store"
	"research/internal/adapter/summarizer"
	"research/internal/port"
	"research/internal/usecase"
)

func newSearcher(cfg *config.Config, logger *zap.Logger) (port.Searcher, error) {
	var searcher port.Searcher
	switch cfg.Search.Provider {
	case "serpapi":
		c, err := serpapi.NewClient(serpapi.Options{
			APIKeyEnv: cfg.Search.APIKeyEnv,
			Engine:    cfg.Search.Engine,
			BaseURL:   cfg.Search.BaseURL,
			Timeout:   cfg.Search.Timeout,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		searcher = c
	case "mock":
		searcher = &serpapi.MockClient{}
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", cfg.Search.Provider)
	}

	return withSearchCache(cfg, searcher), nil
}

// withSearchCache wraps searcher in a response cache when search.cache_size
// is positive. The cache is off by default.
func withSearchCache(cfg *config.Config, searcher port.Searcher) port.Searcher {
	if cfg.Search.CacheSize <= 0 {
		return searcher
	}
	return cache.NewCachedSearcher(searcher, cache.NewSearchCache(cfg.Search.CacheSize, cfg.Search.CacheTTL))
}

func newReranker(cfg *config.Config) (port.Reranker, error) {
	switch cfg.Rerank.Provider {
	case "huggingface":
		return retriever.NewHFCrossEncoder(cfg.Rerank.APIKeyEnv, cfg.Rerank.Model, cfg.Rerank.BaseURL, cfg.Rerank.Timeout), nil
	case "cohere":
		r, err := retriever.NewCohereReranker(cfg.Rerank.APIKeyEnv, cfg.Rerank.Model, cfg.Rerank.BaseURL, cfg.Rerank.Timeout)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "simple":
		return retriever.NewSimpleReranker(), nil
	default:
		return nil, fmt.Errorf("unsupported rerank provider: %s", cfg.Rerank.Provider)
	}
}

func newLLM(cfg *config.Config) (port.ToolCallingLLM, error) {
	switch cfg.LLM.Provider {
	case "openai":
		c, err := llm.NewOpenAIClient(cfg.LLM.APIKeyEnv, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.Temperature, cfg.LLM.Timeout)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "local":
		return llm.NewLocalClient(cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.Timeout), nil
	case "mock":
		return llm.NewMockLLM("3"), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
}

func newSummarizer(cfg *config.Config) (port.Summarizer, error) {
	switch cfg.Summarizer.Provider {
	case "huggingface":
		return summarizer.NewHFSummarizer(cfg.Summarizer.APIKeyEnv, cfg.Summarizer.Model, cfg.Summarizer.BaseURL, cfg.Summarizer.Timeout), nil
	case "mock":
		return &summarizer.MockSummarizer{}, nil
	default:
		return nil, fmt.Errorf("unsupported summarizer provider: %s", cfg.Summarizer.Provider)
	}
}

// openStore opens the metadata database and applies pending migrations.
func openStore(cfg *config.Config, dir string, logger *zap.Logger) (*store.BoltStore, error) {
	if err := cfg.EnsureDirs(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directories: %w", err)
	}

	st, err := store.NewBoltStore(cfg.StorePath(dir))
	if err != nil {
		return nil, err
	}

	result, err := st.Migrate(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	if result.NeedsMigration || result.InvalidSummaries {
		logger.Info("store migrated",
			zap.Int("from", result.OldVersion),
			zap.Int("to", result.NewVersion),
			zap.String("reason", result.Reason))
	}
	return st, nil
}

func newSearchUseCase(cfg *config.Config, logger *zap.Logger) (*usecase.SearchUseCase, error) {
	searcher, err := newSearcher(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create searcher: %w", err)
	}
	reranker, err := newReranker(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create reranker: %w", err)
	}
	return usecase.NewSearchUseCase(searcher, reranker, usecase.SearchOptions{
		NumResults: cfg.Search.NumResults,
		TopK:       cfg.Search.TopK,
		Timeout:    cfg.Search.Timeout + cfg.Rerank.Timeout,
	}, logger), nil
}

func newCiteUseCase(cfg *config.Config, model port.LLM, logger *zap.Logger) *usecase.CiteUseCase {
	scorer := credibility.NewScorer(credibility.NewReputationTable(cfg.Credibility.Reputation), model, logger)
	return usecase.NewCiteUseCase(scorer, cfg.Credibility.MaxCitations, logger)
}

func newCompareUseCase(cfg *config.Config, model port.LLM, dir string, logger *zap.Logger) *usecase.CompareUseCase {
	return usecase.NewCompareUseCase(model, pdf.NewExtractor(), cfg.UploadDir(dir),
		cfg.Documents.MaxCompare, cfg.Documents.MaxCompareWords, logger)
}

func newSummarizeUseCase(cfg *config.Config, sum port.Summarizer, st port.DocumentStore, dir string, logger *zap.Logger) *usecase.SummarizeUseCase {
	return usecase.NewSummarizeUseCase(sum, pdf.NewExtractor(), st, cfg.UploadDir(dir), usecase.SummarizeOptions{
		ChunkChars: cfg.Documents.SummaryChunkChars,
		MinWords:   cfg.Documents.SummaryMinWords,
		MaxLength:  cfg.Documents.SummaryMaxLength,
		MinLength:  cfg.Documents.SummaryMinLength,
	}, logger)
}

func newDocumentsUseCase(cfg *config.Config, st port.DocumentStore, dir string, logger *zap.Logger) *usecase.DocumentsUseCase {
	return usecase.NewDocumentsUseCase(st, fs.NewPDFWalker(), cfg.UploadDir(dir), logger)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
