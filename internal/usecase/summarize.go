package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"research/internal/domain"
	"research/internal/port"
)

// SummarizeOptions bounds the text sent to the summarization model.
type SummarizeOptions struct {
	ChunkChars int // leading characters summarized
	MinWords   int // minimum words in the leading chunk
	MaxLength  int
	MinLength  int
}

// SummarizeUseCase summarizes uploaded PDFs and caches the results.
type SummarizeUseCase struct {
	summarizer port.Summarizer
	extractor  port.TextExtractor
	store      port.DocumentStore
	uploadDir  string
	opts       SummarizeOptions
	logger     *zap.Logger
}

// SummaryResult is the outcome of a summarization.
type SummaryResult struct {
	Filename  string
	Summary   string
	WordCount int
	Cached    bool
}

// NewSummarizeUseCase creates a new summarization use case. store may be nil
// to disable caching.
func NewSummarizeUseCase(summarizer port.Summarizer, extractor port.TextExtractor, store port.DocumentStore, uploadDir string, opts SummarizeOptions, logger *zap.Logger) *SummarizeUseCase {
	if opts.ChunkChars <= 0 {
		opts.ChunkChars = 1024
	}
	if opts.MinWords <= 0 {
		opts.MinWords = 50
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = 200
	}
	if opts.MinLength <= 0 {
		opts.MinLength = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummarizeUseCase{
		summarizer: summarizer,
		extractor:  extractor,
		store:      store,
		uploadDir:  uploadDir,
		opts:       opts,
		logger:     logger.With(zap.String("component", "summarize")),
	}
}

// Resolve maps a user supplied path to its location in the upload directory.
func (u *SummarizeUseCase) Resolve(path string) string {
	return filepath.Join(u.uploadDir, filepath.Base(path))
}

// Summarize summarizes the leading chunk of the document. A cached summary
// is reused while the file's size and modification time are unchanged.
func (u *SummarizeUseCase) Summarize(ctx context.Context, path string) (SummaryResult, error) {
	full := u.Resolve(path)
	name := filepath.Base(full)

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return SummaryResult{}, fmt.Errorf("%s: %w", full, domain.ErrFileNotFound)
		}
		return SummaryResult{}, err
	}

	if cached, ok := u.cached(name, info); ok {
		return SummaryResult{Filename: name, Summary: cached.Text, WordCount: cached.WordCount, Cached: true}, nil
	}

	text, err := u.extractor.ExtractText(full)
	if err != nil {
		return SummaryResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return SummaryResult{}, domain.ErrEmptyDocument
	}

	chunk := truncateRunes(text, u.opts.ChunkChars)
	if len(strings.Fields(chunk)) < u.opts.MinWords {
		return SummaryResult{}, domain.ErrNotEnoughContent
	}

	summary, err := u.summarizer.Summarize(ctx, chunk, port.SummaryOptions{
		MaxLength: u.opts.MaxLength,
		MinLength: u.opts.MinLength,
	})
	if err != nil {
		return SummaryResult{}, err
	}

	result := SummaryResult{
		Filename:  name,
		Summary:   summary,
		WordCount: len(strings.Fields(text)),
	}
	u.remember(name, info, result)

	u.logger.Info("document summarized",
		zap.String("file", name),
		zap.Int("words", result.WordCount))
	return result, nil
}

func (u *SummarizeUseCase) cached(name string, info os.FileInfo) (domain.Summary, bool) {
	if u.store == nil {
		return domain.Summary{}, false
	}
	s, ok, err := u.store.GetSummary(name)
	if err != nil {
		u.logger.Warn("summary cache read failed", zap.String("file", name), zap.Error(err))
		return domain.Summary{}, false
	}
	if !ok || s.Size != info.Size() || s.ModTime != info.ModTime().UnixNano() || s.Model != u.summarizer.ModelName() {
		return domain.Summary{}, false
	}
	return s, true
}

func (u *SummarizeUseCase) remember(name string, info os.FileInfo, r SummaryResult) {
	if u.store == nil {
		return
	}
	err := u.store.PutSummary(domain.Summary{
		Filename:  name,
		Size:      info.Size(),
		ModTime:   info.ModTime().UnixNano(),
		Text:      r.Summary,
		WordCount: r.WordCount,
		Model:     u.summarizer.ModelName(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		u.logger.Warn("summary cache write failed", zap.String("file", name), zap.Error(err))
	}
}

// Run summarizes the document and renders the outcome as text.
func (u *SummarizeUseCase) Run(ctx context.Context, path string) string {
	result, err := u.Summarize(ctx, path)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFileNotFound):
			return fmt.Sprintf("❌ **Error summarizing PDF: File not found at expected location: %s**", u.Resolve(path))
		case errors.Is(err, domain.ErrEmptyDocument):
			return "❌ **PDF appears to be empty or unreadable**"
		case errors.Is(err, domain.ErrNotEnoughContent):
			return "❌ **Not enough content to summarize.**"
		default:
			u.logger.Warn("summarization failed", zap.String("file", path), zap.Error(err))
			return fmt.Sprintf("❌ **Error summarizing PDF:** %s", err)
		}
	}
	return FormatSummary(result)
}

// FormatSummary renders a summary as markdown.
func FormatSummary(r SummaryResult) string {
	var sb strings.Builder
	sb.WriteString("📄 **PDF Summary:**\n\n")
	fmt.Fprintf(&sb, "**File:** %s\n\n", r.Filename)
	fmt.Fprintf(&sb, "**Summary:**\n%s\n\n", r.Summary)
	fmt.Fprintf(&sb, "**Content Length:** ~%d words", r.WordCount)
	return sb.String()
}
