package port

import (
	"context"

	"research/internal/domain"
)

// Searcher issues a web search and returns well-formed organic results in
// retrieval order.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]domain.SearchResult, error)
}

// CredibilityScorer rates a source on the 1-5 credibility scale.
type CredibilityScorer interface {
	Score(ctx context.Context, title, snippet, url string, useLLM bool) int
}
