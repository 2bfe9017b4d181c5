// Package llm provides an OpenAI-compatible chat completion client with tool
// calling, plus a scripted mock for tests and offline runs.
package llm

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

// OpenAIClient talks to any endpoint implementing /chat/completions.
type OpenAIClient struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	client      *http.Client
}

type chatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function functionCall `json:"function"`
}

// Arguments are a JSON document encoded as a string on the wire.
type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []tool        `json:"tools,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewOpenAIClient creates a client reading its key from apiKeyEnv.
func NewOpenAIClient(apiKeyEnv, model, baseURL string, temperature float64, timeout time.Duration) (*OpenAIClient, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	return newOpenAIClient(apiKey, model, baseURL, temperature, timeout), nil
}

// NewLocalClient creates a client for a keyless local endpoint such as Ollama.
func NewLocalClient(model, baseURL string, timeout time.Duration) *OpenAIClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	return newOpenAIClient("", model, baseURL, 0, timeout)
}

func newOpenAIClient(apiKey, model, baseURL string, temperature float64, timeout time.Duration) *OpenAIClient {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := c.chat(ctx, []chatMessage{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func (c *OpenAIClient) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	msg, err := c.chat(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, nil)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// ChatWithTools sends the conversation with the tool definitions and returns
// the assistant turn.
func (c *OpenAIClient) ChatWithTools(ctx context.Context, messages []port.Message, tools []port.ToolSchema) (port.Message, error) {
	msg, err := c.chat(ctx, toWireMessages(messages), toWireTools(tools))
	if err != nil {
		return port.Message{}, err
	}
	return fromWireMessage(msg), nil
}

func (c *OpenAIClient) ModelName() string {
	return c.model
}

func (c *OpenAIClient) chat(ctx context.Context, messages []chatMessage, tools []tool) (chatMessage, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Tools:       tools,
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return chatMessage{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return chatMessage{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return chatMessage{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chatMessage{}, fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return chatMessage{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return chatMessage{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return chatMessage{}, fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return chatMessage{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return chatMessage{}, fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message, nil
}

func toWireMessages(msgs []port.Message) []chatMessage {
	out := make([]chatMessage, 0, len(msgs))
	for _, m := range msgs {
		cm := chatMessage{
			Role:       m.Role,
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, toolCall{
				ID:   tc.ID,
				Type: "function",
				Function: functionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

func toWireTools(tools []port.ToolSchema) []tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, tool{
			Type: "function",
			Function: toolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func fromWireMessage(cm chatMessage) port.Message {
	msg := port.Message{
		Role:    "assistant",
		Content: cm.Content,
		Name:    cm.Name,
	}
	for _, tc := range cm.ToolCalls {
		args := json.RawMessage(tc.Function.Arguments)
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}
		msg.ToolCalls = append(msg.ToolCalls, port.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	return msg
}
