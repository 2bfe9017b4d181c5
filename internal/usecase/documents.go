package usecase

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"research/internal/domain"
	"research/internal/port"
)

// DocumentsUseCase manages PDFs in the upload directory.
type DocumentsUseCase struct {
	store     port.DocumentStore
	walker    port.FileWalker
	uploadDir string
	logger    *zap.Logger
}

// NewDocumentsUseCase creates a new document management use case.
func NewDocumentsUseCase(store port.DocumentStore, walker port.FileWalker, uploadDir string, logger *zap.Logger) *DocumentsUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentsUseCase{
		store:     store,
		walker:    walker,
		uploadDir: uploadDir,
		logger:    logger.With(zap.String("component", "documents")),
	}
}

// UploadDir returns the directory documents are stored in.
func (u *DocumentsUseCase) UploadDir() string {
	return u.uploadDir
}

// Upload stores r under the base name of filename, replacing any existing
// file of that name. Only names ending in ".pdf" are accepted.
func (u *DocumentsUseCase) Upload(filename string, r io.Reader) (domain.Document, error) {
	name := filepath.Base(filename)
	if !strings.HasSuffix(name, ".pdf") {
		return domain.Document{}, domain.ErrNotPDF
	}

	if err := os.MkdirAll(u.uploadDir, 0755); err != nil {
		return domain.Document{}, fmt.Errorf("failed to create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(u.uploadDir, ".upload-*")
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to write %s: %w", name, err)
	}

	path := filepath.Join(u.uploadDir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return domain.Document{}, fmt.Errorf("failed to store %s: %w", name, err)
	}

	doc := domain.Document{
		ID:         uuid.NewString(),
		Filename:   name,
		Path:       path,
		Size:       size,
		UploadedAt: time.Now(),
	}
	if u.store != nil {
		if err := u.store.PutDoc(doc); err != nil {
			u.logger.Warn("failed to record document", zap.String("file", name), zap.Error(err))
		}
	}

	u.logger.Info("document uploaded", zap.String("file", name), zap.Int64("size", size))
	return doc, nil
}

// Delete removes the named document from disk and from the store.
func (u *DocumentsUseCase) Delete(filename string) error {
	name := filepath.Base(filename)
	path := filepath.Join(u.uploadDir, name)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", name, domain.ErrFileNotFound)
		}
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}

	if u.store != nil {
		if err := u.store.DeleteDoc(name); err != nil {
			u.logger.Warn("failed to forget document", zap.String("file", name), zap.Error(err))
		}
	}

	u.logger.Info("document deleted", zap.String("file", name))
	return nil
}

// List returns the PDFs currently on disk, enriched with stored metadata.
func (u *DocumentsUseCase) List() ([]domain.Document, error) {
	files, err := u.walker.Walk(u.uploadDir)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(files))
	for _, f := range files {
		doc := domain.Document{
			Filename: f.Name,
			Path:     f.Path,
			Size:     f.Size,
		}
		if u.store != nil {
			if meta, err := u.store.GetDoc(f.Name); err == nil {
				doc.ID = meta.ID
				doc.UploadedAt = meta.UploadedAt
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Names returns the file names of the stored PDFs.
func (u *DocumentsUseCase) Names() ([]string, error) {
	docs, err := u.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Filename
	}
	return names, nil
}
