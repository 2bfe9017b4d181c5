package summarizer

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

func TestHFSummarizer_Summarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/facebook/bart-large-cnn", r.URL.Path)

		var req summarizeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "long text", req.Inputs)
		assert.Equal(t, 200, req.Parameters.MaxLength)
		assert.Equal(t, 50, req.Parameters.MinLength)
		assert.False(t, req.Parameters.DoSample)

		w.Write([]byte(`[{"summary_text":"  short text \n"}]`))
	}))
	defer srv.Close()

	s := NewHFSummarizer("", "", srv.URL, time.Second)
	out, err := s.Summarize(context.Background(), "long text", port.SummaryOptions{MaxLength: 200, MinLength: 50})
	require.NoError(t, err)
	assert.Equal(t, "short text", out)
	assert.Equal(t, "facebook/bart-large-cnn", s.ModelName())
}

func TestHFSummarizer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"loading", http.StatusServiceUnavailable, `{"error":"Model facebook/bart-large-cnn is currently loading"}`, "currently loading"},
		{"empty", http.StatusOK, `[]`, "empty summarization"},
		{"garbage", http.StatusOK, `nope`, "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHFSummarizer("", "", srv.URL, time.Second).Summarize(context.Background(), "x", port.SummaryOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMockSummarizer(t *testing.T) {
	m := &MockSummarizer{Words: 3}
	out, err := m.Summarize(context.Background(), "one two three four five", port.SummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, "one two three", out)
}
