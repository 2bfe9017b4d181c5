package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"research/config"
	"research/internal/adapter/retriever"
	"research/internal/adapter/serpapi"
	"research/internal/domain"
	"research/internal/port"
	"research/internal/usecase"
)

func main() {
	dir := flag.String("dir", ".", "Directory holding research.yaml")
	query := flag.String("q", "", "Query to test")
	mock := flag.Bool("mock", false, "Use canned search results instead of the search API")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -q \"query\" [-dir .] [-mock]")
		fmt.Println("\nCompares the configured relevance model with the term-overlap fallback:")
		fmt.Println("  1. Latency of the search and of each reranker")
		fmt.Println("  2. Top-k agreement between the two rankings")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	searcher, err := setupSearcher(cfg, *mock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search not available: %v\n", err)
		os.Exit(1)
	}
	model, err := setupReranker(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relevance model not available: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	fmt.Println("RELEVANCE RANKING BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Printf("Model: %s (%s)\n", model.ModelName(), cfg.Rerank.Provider)
	fmt.Println(strings.Repeat("-", 70))

	start := time.Now()
	results, err := searcher.Search(ctx, *query, cfg.Search.NumResults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Search: %d results in %s\n\n", len(results), time.Since(start).Round(time.Millisecond))

	fixed := &fixedSearcher{results: results}
	opts := usecase.SearchOptions{NumResults: cfg.Search.NumResults, TopK: cfg.Search.TopK}

	modelRanked, modelTime, err := rank(ctx, usecase.NewSearchUseCase(fixed, model, opts, nil), *query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ranking error: %v\n", err)
		os.Exit(1)
	}
	simpleRanked, simpleTime, _ := rank(ctx, usecase.NewSearchUseCase(fixed, retriever.NewSimpleReranker(), opts, nil), *query)

	fmt.Printf("Top %d by %s (%s):\n\n", len(modelRanked), model.ModelName(), modelTime.Round(time.Millisecond))
	for i, r := range modelRanked {
		fmt.Printf("%d. [%.2f] %s\n", i+1, r.RelevanceScore, r.Result.Title)
		fmt.Printf("   %s\n\n", shortURL(r.Result.URL))
	}

	overlap := topKOverlap(modelRanked, simpleRanked)
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Model latency:       %s\n", modelTime.Round(time.Millisecond))
	fmt.Printf("  Fallback latency:    %s\n", simpleTime.Round(time.Millisecond))
	fmt.Printf("  Top-%d agreement:     %d/%d\n", len(modelRanked), overlap, len(modelRanked))

	if len(modelRanked) > 0 && len(simpleRanked) > 0 && modelRanked[0].Result.URL == simpleRanked[0].Result.URL {
		fmt.Println("  Status: both rankings agree on the best source")
	} else {
		fmt.Println("  Status: rankings disagree on the best source")
	}
}

type fixedSearcher struct {
	results []domain.SearchResult
}

func (s *fixedSearcher) Search(context.Context, string, int) ([]domain.SearchResult, error) {
	return s.results, nil
}

func rank(ctx context.Context, uc *usecase.SearchUseCase, query string) ([]domain.ScoredResult, time.Duration, error) {
	start := time.Now()
	results, err := uc.Search(ctx, query)
	return results, time.Since(start), err
}

func topKOverlap(a, b []domain.ScoredResult) int {
	seen := make(map[string]bool, len(b))
	for _, r := range b {
		seen[r.Result.URL] = true
	}
	n := 0
	for _, r := range a {
		if seen[r.Result.URL] {
			n++
		}
	}
	return n
}

func shortURL(raw string) string {
	if len(raw) > 80 {
		return raw[:77] + "..."
	}
	return raw
}

func setupSearcher(cfg *config.Config, mock bool) (port.Searcher, error) {
	if mock || cfg.Search.Provider == "mock" {
		return &serpapi.MockClient{}, nil
	}
	return serpapi.NewClient(serpapi.Options{
		APIKeyEnv: cfg.Search.APIKeyEnv,
		Engine:    cfg.Search.Engine,
		BaseURL:   cfg.Search.BaseURL,
		Timeout:   cfg.Search.Timeout,
	})
}

func setupReranker(cfg *config.Config) (port.Reranker, error) {
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
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Rerank.Provider)
	}
}
