package credibility

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"research/internal/domain"
	"research/internal/port"
	"research/internal/prompt"
)

const (
	// UnknownSourceScore is assigned to sources no rule matches when the
	// model fallback is off.
	UnknownSourceScore = 1

	// ModelFailureScore is assigned when the model fallback cannot produce a
	// rating. It sits below neutral on purpose.
	ModelFailureScore = 2
)

// Scorer rates sources using the reputation table and, for unknown domains,
// an optional language model.
type Scorer struct {
	table  *ReputationTable
	llm    port.LLM
	logger *zap.Logger
}

// NewScorer creates a credibility scorer. llm may be nil, in which case the
// model fallback always fails.
func NewScorer(table *ReputationTable, llm port.LLM, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == nil {
		table = NewReputationTable(nil)
	}
	return &Scorer{
		table:  table,
		llm:    llm,
		logger: logger.With(zap.String("component", "credibility")),
	}
}

// Score returns a credibility score in [1,5].
func (s *Scorer) Score(ctx context.Context, title, snippet, rawURL string, useLLM bool) int {
	host := NetLoc(rawURL)

	if entry, ok := s.table.Lookup(host); ok {
		s.logger.Debug("reputation match",
			zap.String("host", host),
			zap.String("rule", entry.Domain),
			zap.Int("score", entry.Score))
		return domain.ClampCredibility(entry.Score)
	}

	if !useLLM {
		return UnknownSourceScore
	}

	score, err := s.scoreWithModel(ctx, title, snippet, rawURL)
	if err != nil {
		s.logger.Warn("model credibility rating failed",
			zap.String("url", rawURL),
			zap.Error(err))
		return ModelFailureScore
	}
	return score
}

func (s *Scorer) scoreWithModel(ctx context.Context, title, snippet, rawURL string) (int, error) {
	if s.llm == nil {
		return 0, fmt.Errorf("no model configured")
	}

	p, err := prompt.Credibility(title, rawURL, snippet)
	if err != nil {
		return 0, err
	}

	reply, err := s.llm.Generate(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("model call failed: %w", err)
	}

	return ParseRating(reply)
}

// ParseRating parses a model reply holding a single integer and clamps it to
// [1,5].
func ParseRating(reply string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return 0, fmt.Errorf("unparseable rating %q: %w", reply, err)
	}
	return domain.ClampCredibility(n), nil
}
