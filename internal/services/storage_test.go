package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageService(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewStorageService(dir)
	require.NoError(t, storage.EnsureUploadDir())

	name, err := storage.SaveFile("../../Jane CV.PDF", []byte("%PDF"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "Jane CV_"))
	assert.True(t, strings.HasSuffix(name, ".PDF"))
	assert.Equal(t, "Jane CV.PDF", OriginalName(name))

	data, err := os.ReadFile(storage.GetFilePath(name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestStorageService_OriginalNameRoundTrip(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	for _, original := range []string{"CV.pdf", "CV.PDF", "resume.Docx", "john_doe.docx"} {
		stored, err := storage.SaveFile(original, []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, original, OriginalName(stored), stored)
	}
}

func TestOriginalName(t *testing.T) {
	testCases := map[string]string{
		"jane_1b4e28ba-2fa1-11d2-883f-0016d3cca427.pdf":     "jane.pdf",
		"john_doe_1b4e28ba-2fa1-11d2-883f-0016d3cca427.docx": "john_doe.docx",
		"john_doe.pdf": "john_doe.pdf",
		"plain.docx":   "plain.docx",
	}
	for stored, want := range testCases {
		assert.Equal(t, want, OriginalName(stored), stored)
	}
}
