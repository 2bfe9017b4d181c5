// Package summarizer implements port.Summarizer against the Hugging Face
// inference API.
package summarizer

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

	"research/internal/port"
)

// HFSummarizer calls a hosted summarization model such as facebook/bart-large-cnn.
type HFSummarizer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type summarizeRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters summarizeParams `json:"parameters"`
	Options    map[string]any  `json:"options,omitempty"`
}

type summarizeParams struct {
	MaxLength int  `json:"max_length,omitempty"`
	MinLength int  `json:"min_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type summaryOutput struct {
	SummaryText string `json:"summary_text"`
}

type apiError struct {
	Error string `json:"error"`
}

func NewHFSummarizer(apiKeyEnv, model, baseURL string, timeout time.Duration) *HFSummarizer {
	if model == "" {
		model = "facebook/bart-large-cnn"
	}
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	var apiKey string
	if apiKeyEnv != "" {
		apiKey = os.Getenv(apiKeyEnv)
	}
	return &HFSummarizer{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Summarize condenses text with greedy decoding.
func (s *HFSummarizer) Summarize(ctx context.Context, text string, opts port.SummaryOptions) (string, error) {
	reqBody := summarizeRequest{
		Inputs: text,
		Parameters: summarizeParams{
			MaxLength: opts.MaxLength,
			MinLength: opts.MinLength,
			DoSample:  false,
		},
		Options: map[string]any{"wait_for_model": true},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/models/"+s.model, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("API error: %s", apiErr.Error)
		}
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var out []summaryOutput
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty summarization response")
	}

	return strings.TrimSpace(out[0].SummaryText), nil
}

func (s *HFSummarizer) ModelName() string {
	return s.model
}

// MockSummarizer returns the leading words of its input.
type MockSummarizer struct {
	Words int
	Err   error
}

func (m *MockSummarizer) Summarize(_ context.Context, text string, _ port.SummaryOptions) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	n := m.Words
	if n <= 0 {
		n = 30
	}
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " "), nil
}

func (m *MockSummarizer) ModelName() string {
	return "mock"
}
