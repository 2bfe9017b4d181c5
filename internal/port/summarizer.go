package port

import "context"

// Summarizer condenses text with a pretrained summarization model.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error)

	ModelName() string
}

type SummaryOptions struct {
	MaxLength int
	MinLength int
}

// TextExtractor extracts plain text from a document on disk.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}
