package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_TooManyDocumentsNoModelCall(t *testing.T) {
	llm := &mockLLM{reply: "analysis"}
	uc := NewCompareUseCase(llm, fileExtractor{}, t.TempDir(), 5, 500, nil)

	out := uc.Run(context.Background(), []string{"1.pdf", "2.pdf", "3.pdf", "4.pdf", "5.pdf", "6.pdf"})

	assert.Equal(t, "❌ **Error:** Maximum of 5 documents allowed for comparison.", out)
	assert.Zero(t, llm.calls)
}

func TestCompare_Success(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "a.pdf", "alpha beta gamma")
	writeUpload(t, dir, "b.pdf", words(600, "word"))

	llm := &mockLLM{reply: "## 📊 Document Comparison Analysis"}
	uc := NewCompareUseCase(llm, fileExtractor{}, dir, 5, 500, nil)

	out := uc.Run(context.Background(), []string{"uploads/a.pdf", "b.pdf", "b.pdf"})
	assert.Equal(t, "## 📊 Document Comparison Analysis", out)

	require.Len(t, llm.prompts, 1)
	p := llm.prompts[0]
	assert.Contains(t, p, "**Document 1 (a.pdf):**\nalpha beta gamma")
	assert.Contains(t, p, "**Document 2 (b.pdf):**\n"+words(500, "word"))
	assert.NotContains(t, p, "Document 3")
	assert.NotContains(t, p, words(501, "word"))
}

func TestCompare_FileNotFound(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "a.pdf", "alpha")
	llm := &mockLLM{reply: "x"}
	uc := NewCompareUseCase(llm, fileExtractor{}, dir, 5, 500, nil)

	out := uc.Run(context.Background(), []string{"a.pdf", "missing.pdf"})

	want := "❌ **Comparison Error:** One or more documents could not be read: Error: File not found at " + filepath.Join(dir, "missing.pdf")
	assert.Equal(t, want, out)
	assert.Zero(t, llm.calls)
}

func TestCompare_ExtractionError(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "bad.pdf", "corrupt bytes")
	uc := NewCompareUseCase(&mockLLM{}, fileExtractor{}, dir, 5, 500, nil)

	out := uc.Run(context.Background(), []string{"bad.pdf"})
	assert.Equal(t, "❌ **Comparison Error:** One or more documents could not be read: Error reading bad.pdf: malformed PDF", out)
}

func TestCompare_ModelFailure(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "a.pdf", "alpha")
	uc := NewCompareUseCase(&mockLLM{err: errors.New("rate limited")}, fileExtractor{}, dir, 5, 500, nil)

	out := uc.Run(context.Background(), []string{"a.pdf"})
	assert.True(t, strings.HasPrefix(out, "❌ **Comparison failed:** "))
	assert.Contains(t, out, "rate limited")
}

func TestCompare_PromptWithoutModel(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "a.pdf", "alpha beta")

	llm := &mockLLM{}
	uc := NewCompareUseCase(llm, fileExtractor{}, dir, 5, 500, nil)

	p, err := uc.Prompt([]string{"a.pdf"})
	require.NoError(t, err)
	assert.Contains(t, p, "**Document 1 (a.pdf):**\nalpha beta")
	assert.Zero(t, llm.calls)
}
