package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"research/internal/domain"
	"research/internal/port"
)

const snippetPreviewRunes = 100

// CiteUseCase ranks sources by credibility and renders citations.
type CiteUseCase struct {
	scorer       port.CredibilityScorer
	maxCitations int
	logger       *zap.Logger
}

// NewCiteUseCase creates a new citation use case.
func NewCiteUseCase(scorer port.CredibilityScorer, maxCitations int, logger *zap.Logger) *CiteUseCase {
	if maxCitations <= 0 {
		maxCitations = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CiteUseCase{
		scorer:       scorer,
		maxCitations: maxCitations,
		logger:       logger.With(zap.String("component", "cite")),
	}
}

// Rank scores every result and returns citations sorted by descending
// credibility, equal scores keeping input order. At most maxCitations are
// returned.
func (u *CiteUseCase) Rank(ctx context.Context, results []domain.SearchResult, useLLM bool) ([]domain.Citation, error) {
	if len(results) == 0 {
		return nil, domain.ErrNoResults
	}

	citations := make([]domain.Citation, 0, len(results))
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score := domain.ClampCredibility(u.scorer.Score(ctx, r.Title, r.Snippet, r.URL, useLLM))
		citations = append(citations, domain.Citation{
			SourceTitle:      r.Title,
			URL:              r.URL,
			SnippetPreview:   truncateRunes(r.Snippet, snippetPreviewRunes),
			CredibilityScore: score,
			CredibilityLabel: domain.LabelFor(score),
		})
	}

	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].CredibilityScore > citations[j].CredibilityScore
	})

	if len(citations) > u.maxCitations {
		u.logger.Debug("truncating citations",
			zap.Int("scored", len(citations)),
			zap.Int("max", u.maxCitations))
		citations = citations[:u.maxCitations]
	}

	return citations, nil
}

// Run ranks results and renders the outcome as text.
func (u *CiteUseCase) Run(ctx context.Context, results []domain.SearchResult, useLLM bool) string {
	citations, err := u.Rank(ctx, results, useLLM)
	if err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			return "❌ **No results provided for ranking.**"
		}
		u.logger.Warn("ranking failed", zap.Error(err))
		return fmt.Sprintf("❌ **Ranking failed:** %s", err)
	}
	return FormatCitations(citations)
}

// FormatCitations renders citations as a numbered markdown list.
func FormatCitations(citations []domain.Citation) string {
	entries := make([]string, len(citations))
	for i, c := range citations {
		entries[i] = fmt.Sprintf("**%d. %s**\n   %s %s Credibility | [Source](%s)\n   %s...\n",
			i+1, c.SourceTitle, labelEmoji(c.CredibilityLabel), c.CredibilityLabel, c.URL, c.SnippetPreview)
	}
	return "📈 **Ranked Citations by Credibility:**\n\n" + strings.Join(entries, "\n")
}

func labelEmoji(label domain.CredibilityLabel) string {
	switch label {
	case domain.CredibilityHigh:
		return "🟢"
	case domain.CredibilityMedium:
		return "🟡"
	default:
		return "🔴"
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
