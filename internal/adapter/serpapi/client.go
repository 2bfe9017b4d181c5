// Package serpapi implements port.Searcher on top of the SerpAPI Google engine.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"research/internal/domain"
)

const defaultBaseURL = "https://serpapi.com"

// Client queries the SerpAPI search endpoint.
type Client struct {
	apiKey  string
	engine  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Options configures a Client.
type Options struct {
	APIKeyEnv string
	Engine    string
	BaseURL   string
	Timeout   time.Duration
	Logger    *zap.Logger
}

type searchResponse struct {
	Error          json.RawMessage `json:"error,omitempty"`
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

// NewClient creates a SerpAPI client reading its key from opts.APIKeyEnv.
func NewClient(opts Options) (*Client, error) {
	if opts.APIKeyEnv == "" {
		opts.APIKeyEnv = "SERPAPI_API_KEY"
	}
	apiKey := os.Getenv(opts.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", opts.APIKeyEnv)
	}
	return newClient(apiKey, opts), nil
}

func newClient(apiKey string, opts Options) *Client {
	if opts.Engine == "" {
		opts.Engine = "google"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		apiKey:  apiKey,
		engine:  opts.Engine,
		baseURL: opts.BaseURL,
		client:  &http.Client{Timeout: opts.Timeout},
		logger:  opts.Logger.With(zap.String("component", "serpapi")),
	}
}

// Search requests up to num organic results for query. Entries without a
// snippet or a link are dropped. An error reported by the API is returned as
// *domain.SearchAPIError and a response without organic results as
// domain.ErrNoOrganicResults.
func (c *Client) Search(ctx context.Context, query string, num int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("engine", c.engine)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))
	params.Set("api_key", c.apiKey)

	u := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, preview(body))
		}
		return nil, fmt.Errorf("failed to parse response (body: %s): %w", preview(body), err)
	}

	if sr.Error != nil {
		return nil, &domain.SearchAPIError{Message: errorMessage(sr.Error)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, preview(body))
	}
	if sr.OrganicResults == nil {
		return nil, domain.ErrNoOrganicResults
	}

	results := make([]domain.SearchResult, 0, len(sr.OrganicResults))
	for _, r := range sr.OrganicResults {
		if r.Snippet == "" || r.Link == "" {
			c.logger.Debug("dropping malformed result",
				zap.Int("position", r.Position),
				zap.String("title", r.Title))
			continue
		}
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
		})
	}

	c.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("organic", len(sr.OrganicResults)),
		zap.Int("kept", len(results)),
		zap.Duration("took", time.Since(start)))

	return results, nil
}

// errorMessage renders the API's error field. Strings are unquoted and any
// other JSON value is reported as written.
func errorMessage(raw json.RawMessage) string {
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg
	}
	return string(raw)
}

func preview(body []byte) string {
	r := []rune(string(body))
	if len(r) > 200 {
		r = r[:200]
	}
	return string(r)
}
