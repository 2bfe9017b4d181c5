package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"research/internal/domain"
	"research/internal/port"
)

// SearchUseCase retrieves web results and keeps the most relevant ones.
type SearchUseCase struct {
	searcher   port.Searcher
	reranker   port.Reranker
	numResults int
	topK       int
	timeout    time.Duration
	logger     *zap.Logger
}

// SearchOptions bounds a search.
type SearchOptions struct {
	NumResults int           // results requested from the search API
	TopK       int           // results kept after relevance scoring
	Timeout    time.Duration // budget for the whole search, 0 disables it
}

// NewSearchUseCase creates a new search use case.
func NewSearchUseCase(searcher port.Searcher, reranker port.Reranker, opts SearchOptions, logger *zap.Logger) *SearchUseCase {
	if opts.NumResults <= 0 {
		opts.NumResults = 10
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchUseCase{
		searcher:   searcher,
		reranker:   reranker,
		numResults: opts.NumResults,
		topK:       opts.TopK,
		timeout:    opts.Timeout,
		logger:     logger.With(zap.String("component", "search")),
	}
}

// Search returns at most topK results ordered by descending relevance. Ties
// keep retrieval order.
func (u *SearchUseCase) Search(ctx context.Context, query string) ([]domain.ScoredResult, error) {
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	results, err := u.searcher.Search(ctx, query, u.numResults)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	snippets := make([]string, len(results))
	for i, r := range results {
		snippets[i] = r.Snippet
	}

	scores, err := u.reranker.Rerank(ctx, query, snippets)
	if err != nil {
		return nil, fmt.Errorf("relevance scoring failed: %w", err)
	}

	byIndex := make(map[int]float64, len(scores))
	for _, s := range scores {
		byIndex[s.Index] = s.Score
	}

	scored := make([]domain.ScoredResult, len(results))
	for i, r := range results {
		score, ok := byIndex[i]
		if !ok {
			return nil, fmt.Errorf("relevance scoring failed: no score for result %d", i)
		}
		scored[i] = domain.ScoredResult{Result: r, RelevanceScore: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > u.topK {
		scored = scored[:u.topK]
	}

	u.logger.Info("search ranked",
		zap.String("query", query),
		zap.Int("candidates", len(results)),
		zap.Int("kept", len(scored)),
		zap.String("model", u.reranker.ModelName()))

	return scored, nil
}

// Run performs a search and renders the outcome, converting every failure
// into its user-facing message.
func (u *SearchUseCase) Run(ctx context.Context, query string) string {
	results, err := u.Search(ctx, query)
	if err != nil {
		u.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return FormatSearchError(err)
	}
	return FormatSearchResults(results)
}

// FormatSearchResults renders ranked results as numbered markdown entries.
func FormatSearchResults(results []domain.ScoredResult) string {
	var sb strings.Builder
	sb.WriteString("🔍 **Web Search Results:**\n\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "**%d. %s**\n", i+1, r.Result.Title)
		fmt.Fprintf(&sb, "   %s\n", r.Result.Snippet)
		fmt.Fprintf(&sb, "   🔗 [Source](%s) | Relevance: %.2f\n\n", r.Result.URL, r.RelevanceScore)
	}
	return sb.String()
}

// FormatSearchError maps a search failure to its user-facing message.
func FormatSearchError(err error) string {
	var apiErr *domain.SearchAPIError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("❌ **Search Error:** %s", apiErr.Message)
	case errors.Is(err, domain.ErrNoOrganicResults):
		return "❌ **No search results found**"
	default:
		return fmt.Sprintf("❌ **Search failed:** %s", err)
	}
}
