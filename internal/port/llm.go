package port

import (
	"context"
	"encoding/json"
)

// LLM represents a language model for text generation.
type LLM interface {
	// Generate generates text based on the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateWithSystem generates text with a system prompt.
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}

// ToolCallingLLM is an LLM that can request tool invocations.
type ToolCallingLLM interface {
	LLM

	// ChatWithTools sends the conversation with the available tools and
	// returns the assistant message, which may carry tool calls.
	ChatWithTools(ctx context.Context, messages []Message, tools []ToolSchema) (Message, error)
}

// Message is one turn of a chat conversation.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

// ToolCall is a model-requested tool invocation.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolSchema describes a tool offered to the model.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Reranker scores query-document pairs for relevance.
type Reranker interface {
	// Rerank scores documents against the query. Results carry the index of
	// the document in the input slice; their order is not significant.
	Rerank(ctx context.Context, query string, documents []string) ([]RerankedResult, error)

	// ModelName returns the name of the reranking model.
	ModelName() string
}

// RerankedResult represents a scored document.
type RerankedResult struct {
	Index int     // Original index in the input slice
	Score float64 // Relevance score (higher is better)
}
