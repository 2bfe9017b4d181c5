package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"research/internal/adapter/memstore"
)

func TestSummarize_Success(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "paper.pdf", words(300, "climate"))
	sum := &mockSummarizer{summary: "Climate is changing."}
	uc := NewSummarizeUseCase(sum, fileExtractor{}, nil, dir, SummarizeOptions{}, nil)

	out := uc.Run(context.Background(), "some/where/paper.pdf")

	want := "📄 **PDF Summary:**\n\n" +
		"**File:** paper.pdf\n\n" +
		"**Summary:**\nClimate is changing.\n\n" +
		"**Content Length:** ~300 words"
	assert.Equal(t, want, out)

	require.Len(t, sum.inputs, 1)
	assert.Len(t, []rune(sum.inputs[0]), 1024, "only the leading chunk is summarized")
	assert.Equal(t, 200, sum.opts[0].MaxLength)
	assert.Equal(t, 50, sum.opts[0].MinLength)
}

func TestSummarize_FileNotFound(t *testing.T) {
	dir := t.TempDir()
	sum := &mockSummarizer{}
	uc := NewSummarizeUseCase(sum, fileExtractor{}, nil, dir, SummarizeOptions{}, nil)

	out := uc.Run(context.Background(), "missing.pdf")
	assert.Equal(t, "❌ **Error summarizing PDF: File not found at expected location: "+filepath.Join(dir, "missing.pdf")+"**", out)
	assert.Zero(t, sum.calls)
}

func TestSummarize_EmptyDocument(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "empty.pdf", "  \n\t ")
	uc := NewSummarizeUseCase(&mockSummarizer{}, fileExtractor{}, nil, dir, SummarizeOptions{}, nil)

	assert.Equal(t, "❌ **PDF appears to be empty or unreadable**", uc.Run(context.Background(), "empty.pdf"))
}

func TestSummarize_NotEnoughContent(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "short.pdf", words(49, "word"))
	sum := &mockSummarizer{}
	uc := NewSummarizeUseCase(sum, fileExtractor{}, nil, dir, SummarizeOptions{}, nil)

	assert.Equal(t, "❌ **Not enough content to summarize.**", uc.Run(context.Background(), "short.pdf"))
	assert.Zero(t, sum.calls)
}

func TestSummarize_Failures(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "bad.pdf", "corrupt")
	writeUpload(t, dir, "ok.pdf", words(60, "word"))

	uc := NewSummarizeUseCase(&mockSummarizer{err: errors.New("model loading")}, fileExtractor{}, nil, dir, SummarizeOptions{}, nil)

	assert.Equal(t, "❌ **Error summarizing PDF:** malformed PDF", uc.Run(context.Background(), "bad.pdf"))
	assert.Equal(t, "❌ **Error summarizing PDF:** model loading", uc.Run(context.Background(), "ok.pdf"))
}

func TestSummarize_Cache(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "paper.pdf", words(100, "ocean"))
	sum := &mockSummarizer{summary: "Oceans."}
	st := memstore.NewMemoryStore()
	uc := NewSummarizeUseCase(sum, fileExtractor{}, st, dir, SummarizeOptions{}, nil)

	first, err := uc.Summarize(context.Background(), "paper.pdf")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := uc.Summarize(context.Background(), "paper.pdf")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "Oceans.", second.Summary)
	assert.Equal(t, 100, second.WordCount)
	assert.Equal(t, 1, sum.calls)

	// A different file size invalidates the entry.
	writeUpload(t, dir, "paper.pdf", words(120, "ocean"))
	third, err := uc.Summarize(context.Background(), "paper.pdf")
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 2, sum.calls)
}
