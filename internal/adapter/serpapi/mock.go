package serpapi

import (
	"context"
	"fmt"

	"research/internal/domain"
)

// MockClient returns canned results without network access.
type MockClient struct{}

func (m *MockClient) Search(_ context.Context, query string, num int) ([]domain.SearchResult, error) {
	if num <= 0 {
		num = 10
	}
	results := make([]domain.SearchResult, 0, num)
	for i := 1; i <= num; i++ {
		results = append(results, domain.SearchResult{
			Title:   fmt.Sprintf("Mock result %d for %s", i, query),
			URL:     fmt.Sprintf("https://example.com/%d", i),
			Snippet: fmt.Sprintf("Mock content number %d found for the query '%s'.", i, query),
		})
	}
	return results, nil
}
