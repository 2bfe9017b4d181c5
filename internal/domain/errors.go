package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoOrganicResults = errors.New("no organic results")
	ErrNoResults        = errors.New("no results provided")
	ErrTooManyDocuments = errors.New("too many documents")
	ErrFileNotFound     = errors.New("file not found")
	ErrEmptyDocument    = errors.New("document is empty or unreadable")
	ErrNotEnoughContent = errors.New("not enough content to summarize")
	ErrNotPDF           = errors.New("only PDF files are allowed")
)

// SearchAPIError carries the error message reported in a search API response body.
type SearchAPIError struct {
	Message string
}

func (e *SearchAPIError) Error() string {
	return fmt.Sprintf("search API error: %s", e.Message)
}

// DocumentReadError reports a document that could not be loaded for
// comparison. Detail is the user-facing reason.
type DocumentReadError struct {
	Detail string
}

func (e *DocumentReadError) Error() string {
	return e.Detail
}
