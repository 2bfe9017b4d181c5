package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"research/internal/port"
)

func newTestServer(t *testing.T, handler func(t *testing.T, req chatRequest) string) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(handler(t, req)))
	}))
	t.Cleanup(srv.Close)
	return newOpenAIClient("sk-test", "gpt-test", srv.URL, 0, 5*time.Second)
}

func TestGenerate(t *testing.T) {
	c := newTestServer(t, func(t *testing.T, req chatRequest) string {
		assert.Equal(t, "gpt-test", req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "rate this", req.Messages[0].Content)
		}
		assert.Empty(t, req.Tools)
		return `{"choices":[{"message":{"role":"assistant","content":"4"}}]}`
	})

	out, err := c.Generate(context.Background(), "rate this")
	require.NoError(t, err)
	assert.Equal(t, "4", out)
	assert.Equal(t, "gpt-test", c.ModelName())
}

func TestGenerateWithSystem(t *testing.T) {
	c := newTestServer(t, func(t *testing.T, req chatRequest) string {
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "user", req.Messages[1].Role)
		}
		return `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`
	})

	out, err := c.GenerateWithSystem(context.Background(), "sys", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestChatWithTools(t *testing.T) {
	c := newTestServer(t, func(t *testing.T, req chatRequest) string {
		if assert.Len(t, req.Tools, 1) {
			assert.Equal(t, "function", req.Tools[0].Type)
			assert.Equal(t, "search_web", req.Tools[0].Function.Name)
			assert.JSONEq(t, `{"type":"object"}`, string(req.Tools[0].Function.Parameters))
		}
		if assert.Len(t, req.Messages, 3) {
			assert.Equal(t, "call_0", req.Messages[1].ToolCalls[0].ID)
			assert.Equal(t, `{"query":"a"}`, req.Messages[1].ToolCalls[0].Function.Arguments)
			assert.Equal(t, "call_0", req.Messages[2].ToolCallID)
		}
		return `{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"search_web","arguments":"{\"query\":\"climate\"}"}}
		]},"finish_reason":"tool_calls"}]}`
	})

	history := []port.Message{
		{Role: "user", Content: "search a"},
		{Role: "assistant", ToolCalls: []port.ToolCall{{ID: "call_0", Name: "search_web", Arguments: json.RawMessage(`{"query":"a"}`)}}},
		{Role: "tool", ToolCallID: "call_0", Name: "search_web", Content: "result"},
	}
	tools := []port.ToolSchema{{Name: "search_web", Description: "web", Parameters: json.RawMessage(`{"type":"object"}`)}}

	msg, err := c.ChatWithTools(context.Background(), history, tools)
	require.NoError(t, err)
	assert.Equal(t, "assistant", msg.Role)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "call_1", msg.ToolCalls[0].ID)
	assert.Equal(t, "search_web", msg.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"climate"}`, string(msg.ToolCalls[0].Arguments))
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"auth"}}`, "API error: bad key"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"bad status", http.StatusBadGateway, `gateway`, "status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newOpenAIClient("k", "m", srv.URL, 0, time.Second)
			_, err := c.Generate(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewOpenAIClient_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_TEST_KEY", "")
	_, err := NewOpenAIClient("OPENAI_TEST_KEY", "", "", 0, 0)
	assert.Error(t, err)
}

func TestMockLLM_Script(t *testing.T) {
	m := NewMockLLM("final")
	m.Turns = []port.Message{{Role: "assistant", ToolCalls: []port.ToolCall{{ID: "1", Name: "search_web"}}}}

	first, err := m.ChatWithTools(context.Background(), []port.Message{{Role: "user", Content: "q"}}, nil)
	require.NoError(t, err)
	assert.Len(t, first.ToolCalls, 1)

	second, err := m.ChatWithTools(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "final", second.Content)
	assert.Len(t, m.Chats(), 2)
}
