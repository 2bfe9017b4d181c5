package llm

import (
	"context"
	"sync"

	"research/internal/port"
)

// MockLLM replays scripted replies. Plain generation returns Reply; tool
// chats pop Turns in order and fall back to a plain assistant reply once
// the script is exhausted.
type MockLLM struct {
	Reply string
	Err   error
	Turns []port.Message

	mu      sync.Mutex
	prompts []string
	chats   [][]port.Message
}

func NewMockLLM(reply string) *MockLLM {
	return &MockLLM{Reply: reply}
}

func (m *MockLLM) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockLLM) GenerateWithSystem(ctx context.Context, _, userPrompt string) (string, error) {
	return m.Generate(ctx, userPrompt)
}

func (m *MockLLM) ChatWithTools(_ context.Context, messages []port.Message, _ []port.ToolSchema) (port.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]port.Message, len(messages))
	copy(cp, messages)
	m.chats = append(m.chats, cp)
	if m.Err != nil {
		return port.Message{}, m.Err
	}
	if len(m.Turns) == 0 {
		return port.Message{Role: "assistant", Content: m.Reply}, nil
	}
	turn := m.Turns[0]
	m.Turns = m.Turns[1:]
	return turn, nil
}

func (m *MockLLM) ModelName() string {
	return "mock"
}

// Prompts returns the prompts received by Generate.
func (m *MockLLM) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Chats returns the conversations received by ChatWithTools.
func (m *MockLLM) Chats() [][]port.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]port.Message(nil), m.chats...)
}
