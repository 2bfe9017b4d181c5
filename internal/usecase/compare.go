package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"research/internal/domain"
	"research/internal/port"
	"research/internal/prompt"
)

// CompareUseCase asks a model for the common, unique and conflicting points
// of several uploaded documents.
type CompareUseCase struct {
	llm       port.LLM
	extractor port.TextExtractor
	uploadDir string
	maxDocs   int
	maxWords  int
	logger    *zap.Logger
}

// NewCompareUseCase creates a new comparison use case.
func NewCompareUseCase(llm port.LLM, extractor port.TextExtractor, uploadDir string, maxDocs, maxWords int, logger *zap.Logger) *CompareUseCase {
	if maxDocs <= 0 {
		maxDocs = 5
	}
	if maxWords <= 0 {
		maxWords = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompareUseCase{
		llm:       llm,
		extractor: extractor,
		uploadDir: uploadDir,
		maxDocs:   maxDocs,
		maxWords:  maxWords,
		logger:    logger.With(zap.String("component", "compare")),
	}
}

// Compare loads the leading words of every document and returns the model's
// comparison. More than maxDocs paths are rejected before any file is read.
// Paths are resolved by base name inside the upload directory; repeated
// paths are compared once.
func (u *CompareUseCase) Compare(ctx context.Context, paths []string) (string, error) {
	input, n, err := u.buildPrompt(paths)
	if err != nil {
		return "", err
	}

	out, err := u.llm.Generate(ctx, input)
	if err != nil {
		return "", err
	}

	u.logger.Info("documents compared", zap.Int("documents", n))
	return out, nil
}

// Prompt returns the comparison prompt Compare would send to the model.
func (u *CompareUseCase) Prompt(paths []string) (string, error) {
	input, _, err := u.buildPrompt(paths)
	return input, err
}

func (u *CompareUseCase) buildPrompt(paths []string) (string, int, error) {
	if len(paths) > u.maxDocs {
		return "", 0, domain.ErrTooManyDocuments
	}

	seen := make(map[string]bool, len(paths))
	docs := make([]prompt.ComparedDocument, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true

		text, err := u.load(p)
		if err != nil {
			return "", 0, err
		}
		docs = append(docs, prompt.ComparedDocument{
			Index:    len(docs) + 1,
			Filename: filepath.Base(p),
			Text:     text,
		})
	}

	input, err := prompt.Compare(docs)
	if err != nil {
		return "", 0, err
	}
	return input, len(docs), nil
}

func (u *CompareUseCase) load(p string) (string, error) {
	name := filepath.Base(p)
	full := filepath.Join(u.uploadDir, name)

	if _, err := os.Stat(full); err != nil {
		return "", &domain.DocumentReadError{Detail: fmt.Sprintf("Error: File not found at %s", full)}
	}

	text, err := u.extractor.ExtractText(full)
	if err != nil {
		return "", &domain.DocumentReadError{Detail: fmt.Sprintf("Error reading %s: %s", name, err)}
	}

	return firstWords(text, u.maxWords), nil
}

// Run compares the documents and renders the outcome as text.
func (u *CompareUseCase) Run(ctx context.Context, paths []string) string {
	out, err := u.Compare(ctx, paths)
	if err != nil {
		var readErr *domain.DocumentReadError
		switch {
		case errors.Is(err, domain.ErrTooManyDocuments):
			return fmt.Sprintf("❌ **Error:** Maximum of %d documents allowed for comparison.", u.maxDocs)
		case errors.As(err, &readErr):
			return fmt.Sprintf("❌ **Comparison Error:** One or more documents could not be read: %s", readErr.Detail)
		default:
			u.logger.Warn("comparison failed", zap.Error(err))
			return fmt.Sprintf("❌ **Comparison failed:** %s", err)
		}
	}
	return out
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
