package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"research/internal/domain"
)

var (
	bucketDocs      = []byte("docs")
	bucketSummaries = []byte("summaries")
	bucketMeta      = []byte("meta")
)

// BoltStore persists uploaded document metadata and the summary cache.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketDocs, bucketSummaries, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

type docMeta struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	UploadedAt int64  `json:"uploaded_at"`
}

// PutDoc stores doc under its file name, replacing any previous entry.
func (s *BoltStore) PutDoc(doc domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := docMeta{
			ID:         doc.ID,
			Path:       doc.Path,
			Size:       doc.Size,
			UploadedAt: doc.UploadedAt.Unix(),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Put([]byte(doc.Filename), data)
	})
}

func (s *BoltStore) GetDoc(filename string) (domain.Document, error) {
	var doc domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(filename))
		if data == nil {
			return fmt.Errorf("document %s: %w", filename, domain.ErrFileNotFound)
		}
		var meta docMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		doc = meta.toDocument(filename)
		return nil
	})
	return doc, err
}

// DeleteDoc removes the document and its cached summary.
func (s *BoltStore) DeleteDoc(filename string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSummaries).Delete([]byte(filename)); err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Delete([]byte(filename))
	})
}

// ListDocs returns documents ordered by file name.
func (s *BoltStore) ListDocs() ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var meta docMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			docs = append(docs, meta.toDocument(string(k)))
			return nil
		})
	})
	return docs, err
}

func (m docMeta) toDocument(filename string) domain.Document {
	return domain.Document{
		ID:         m.ID,
		Filename:   filename,
		Path:       m.Path,
		Size:       m.Size,
		UploadedAt: time.Unix(m.UploadedAt, 0),
	}
}

func (s *BoltStore) PutSummary(summary domain.Summary) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(summary)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketSummaries).Put([]byte(summary.Filename), data)
	})
}

func (s *BoltStore) GetSummary(filename string) (domain.Summary, bool, error) {
	var (
		summary domain.Summary
		found   bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSummaries).Get([]byte(filename))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &summary)
	})
	return summary, found, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
