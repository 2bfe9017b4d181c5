package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText_MissingFile(t *testing.T) {
	_, err := NewExtractor().ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestExtractText_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("this is plain text, not a PDF"), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := NewExtractor().ExtractText(path)
	assert.Error(t, err)
	assert.Empty(t, text)
}
