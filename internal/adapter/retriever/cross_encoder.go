package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"research/internal/adapter/analyzer"
	"research/internal/port"
)

// HFCrossEncoder scores (query, document) pairs with a cross-encoder hosted on
// the Hugging Face inference API.
type HFCrossEncoder struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type hfPair struct {
	Text     string `json:"text"`
	TextPair string `json:"text_pair"`
}

type hfRerankRequest struct {
	Inputs     []hfPair       `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

type hfLabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type hfError struct {
	Error string `json:"error"`
}

// NewHFCrossEncoder creates a cross-encoder client. The token is optional for
// public models.
func NewHFCrossEncoder(apiKeyEnv, model, baseURL string, timeout time.Duration) *HFCrossEncoder {
	if model == "" {
		model = "cross-encoder/ms-marco-MiniLM-L-6-v2"
	}
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var apiKey string
	if apiKeyEnv != "" {
		apiKey = os.Getenv(apiKeyEnv)
	}
	return &HFCrossEncoder{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Rerank returns one raw relevance logit per document, in input order.
func (r *HFCrossEncoder) Rerank(ctx context.Context, query string, documents []string) ([]port.RerankedResult, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	pairs := make([]hfPair, len(documents))
	for i, doc := range documents {
		pairs[i] = hfPair{Text: query, TextPair: doc}
	}

	reqBody := hfRerankRequest{
		Inputs:     pairs,
		Parameters: map[string]any{"function_to_apply": "none"},
		Options:    map[string]any{"wait_for_model": true},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/models/"+r.model, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	scores, err := parseHFScores(body)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(documents) {
		return nil, fmt.Errorf("expected %d scores, got %d", len(documents), len(scores))
	}

	results := make([]port.RerankedResult, len(scores))
	for i, s := range scores {
		results[i] = port.RerankedResult{Index: i, Score: s}
	}
	return results, nil
}

// parseHFScores accepts both the flat ([{label,score}]) and the nested
// ([[{label,score}]]) response shapes of the text-classification task.
func parseHFScores(body []byte) ([]float64, error) {
	var flat []hfLabelScore
	if err := json.Unmarshal(body, &flat); err == nil {
		scores := make([]float64, len(flat))
		for i, ls := range flat {
			scores[i] = ls.Score
		}
		return scores, nil
	}

	var nested [][]hfLabelScore
	if err := json.Unmarshal(body, &nested); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	scores := make([]float64, len(nested))
	for i, labels := range nested {
		if len(labels) == 0 {
			return nil, fmt.Errorf("empty score list for document %d", i)
		}
		scores[i] = labels[0].Score
	}
	return scores, nil
}

// ModelName returns the model name.
func (r *HFCrossEncoder) ModelName() string {
	return r.model
}

// CohereReranker implements cross-encoder reranking using Cohere's API.
type CohereReranker struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// Cohere API types
type cohereRerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model"`
	TopN      int      `json:"top_n,omitempty"`
}

type cohereRerankResponse struct {
	Results []cohereRerankResult `json:"results"`
}

type cohereRerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// NewCohereReranker creates a new Cohere reranker.
func NewCohereReranker(apiKeyEnv, model, baseURL string, timeout time.Duration) (*CohereReranker, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}

	if model == "" {
		model = "rerank-english-v3.0"
	}
	if baseURL == "" {
		baseURL = "https://api.cohere.ai/v1"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &CohereReranker{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Rerank scores documents based on query relevance.
func (r *CohereReranker) Rerank(ctx context.Context, query string, documents []string) ([]port.RerankedResult, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	// Cohere has a limit of 1000 documents per request
	const maxDocs = 1000
	if len(documents) > maxDocs {
		documents = documents[:maxDocs]
	}

	reqBody := cohereRerankRequest{
		Query:     query,
		Documents: documents,
		Model:     r.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/rerank", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var rerankResp cohereRerankResponse
	if err := json.Unmarshal(body, &rerankResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]port.RerankedResult, 0, len(rerankResp.Results))
	for _, res := range rerankResp.Results {
		if res.Index < 0 || res.Index >= len(documents) {
			continue
		}
		results = append(results, port.RerankedResult{
			Index: res.Index,
			Score: res.RelevanceScore,
		})
	}

	return results, nil
}

// ModelName returns the model name.
func (r *CohereReranker) ModelName() string {
	return r.model
}

// SimpleReranker provides a term-overlap score when no model is reachable.
type SimpleReranker struct {
	tokenizer *analyzer.Tokenizer
}

// NewSimpleReranker creates a new simple reranker.
func NewSimpleReranker() *SimpleReranker {
	return &SimpleReranker{tokenizer: analyzer.NewTokenizer()}
}

// Rerank scores each document by the fraction of query terms it contains.
func (r *SimpleReranker) Rerank(_ context.Context, query string, documents []string) ([]port.RerankedResult, error) {
	results := make([]port.RerankedResult, len(documents))
	for i, doc := range documents {
		results[i] = port.RerankedResult{Index: i, Score: r.tokenizer.Overlap(query, doc)}
	}
	return results, nil
}

// ModelName returns the model name.
func (r *SimpleReranker) ModelName() string {
	return "simple-tf"
}
