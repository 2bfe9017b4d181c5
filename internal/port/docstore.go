package port

import "research/internal/domain"

type DocumentStore interface {
	PutDoc(doc domain.Document) error

	GetDoc(filename string) (domain.Document, error)

	DeleteDoc(filename string) error

	ListDocs() ([]domain.Document, error)

	PutSummary(summary domain.Summary) error

	// GetSummary returns the cached summary for filename, if present.
	GetSummary(filename string) (domain.Summary, bool, error)

	Close() error
}
