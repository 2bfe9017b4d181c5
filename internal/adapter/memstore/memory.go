// Package memstore is an in-memory port.DocumentStore for tests and
// ephemeral runs.
package memstore

import (
	"fmt"
	"sort"
	"sync"

	"research/internal/domain"
)

type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string]domain.Document
	summaries map[string]domain.Summary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:      make(map[string]domain.Document),
		summaries: make(map[string]domain.Summary),
	}
}

func (s *MemoryStore) PutDoc(doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Filename] = doc
	return nil
}

func (s *MemoryStore) GetDoc(filename string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[filename]
	if !ok {
		return domain.Document{}, fmt.Errorf("document %s: %w", filename, domain.ErrFileNotFound)
	}
	return doc, nil
}

func (s *MemoryStore) DeleteDoc(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, filename)
	delete(s.summaries, filename)
	return nil
}

func (s *MemoryStore) ListDocs() ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}

func (s *MemoryStore) PutSummary(summary domain.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.Filename] = summary
	return nil
}

func (s *MemoryStore) GetSummary(filename string) (domain.Summary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summaries[filename]
	return summary, ok, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
