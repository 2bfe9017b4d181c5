package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"research/internal/domain"
	"research/internal/port"
)

type mockSearcher struct {
	results []domain.SearchResult
	err     error
	calls   int
	lastNum int
}

func (m *mockSearcher) Search(_ context.Context, _ string, num int) ([]domain.SearchResult, error) {
	m.calls++
	m.lastNum = num
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockReranker scores documents from a snippet-to-score table.
type mockReranker struct {
	scores map[string]float64
	err    error
	calls  int
}

func (m *mockReranker) Rerank(_ context.Context, _ string, docs []string) ([]port.RerankedResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]port.RerankedResult, len(docs))
	for i, d := range docs {
		out[i] = port.RerankedResult{Index: i, Score: m.scores[d]}
	}
	return out, nil
}

func (m *mockReranker) ModelName() string { return "mock-cross-encoder" }

type mockScorer struct {
	byURL map[string]int
	calls int
}

func (m *mockScorer) Score(_ context.Context, _, _, url string, _ bool) int {
	m.calls++
	if s, ok := m.byURL[url]; ok {
		return s
	}
	return 1
}

type mockLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	prompts []string
	turns   []port.Message
	chats   [][]port.Message
}

func (m *mockLLM) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

func (m *mockLLM) GenerateWithSystem(ctx context.Context, _, user string) (string, error) {
	return m.Generate(ctx, user)
}

func (m *mockLLM) ChatWithTools(_ context.Context, msgs []port.Message, _ []port.ToolSchema) (port.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.chats = append(m.chats, append([]port.Message(nil), msgs...))
	if m.err != nil {
		return port.Message{}, m.err
	}
	if len(m.turns) == 0 {
		return port.Message{Role: "assistant", Content: m.reply}, nil
	}
	t := m.turns[0]
	m.turns = m.turns[1:]
	return t, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

type mockSummarizer struct {
	summary string
	err     error
	calls   int
	inputs  []string
	opts    []port.SummaryOptions
}

func (m *mockSummarizer) Summarize(_ context.Context, text string, opts port.SummaryOptions) (string, error) {
	m.calls++
	m.inputs = append(m.inputs, text)
	m.opts = append(m.opts, opts)
	return m.summary, m.err
}

func (m *mockSummarizer) ModelName() string { return "mock-summarizer" }

// fileExtractor treats the file contents as the extracted text. Files whose
// contents start with "corrupt" fail extraction.
type fileExtractor struct{}

func (fileExtractor) ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(string(data), "corrupt") {
		return "", errors.New("malformed PDF")
	}
	return string(data), nil
}

func writeUpload(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func words(n int, word string) string {
	w := make([]string, n)
	for i := range w {
		w[i] = word
	}
	return strings.Join(w, " ")
}
