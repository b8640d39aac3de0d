package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalReceiptStorage_Upload(t *testing.T) {
	baseDir := t.TempDir()
	store := NewLocalReceiptStorage(baseDir, "/uploads", zap.NewNop())

	content := []byte("png bytes")
	url, err := store.Upload(context.Background(), "justificatifs/image.png", content)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/justificatifs/image-"), "url: %s", url)
	assert.True(t, strings.HasSuffix(url, ".png"), "url: %s", url)

	matches, err := filepath.Glob(filepath.Join(baseDir, "justificatifs", "image-*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	onDisk, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, content, onDisk)
}

func TestLocalReceiptStorage_SameNameDoesNotCollide(t *testing.T) {
	baseDir := t.TempDir()
	store := NewLocalReceiptStorage(baseDir, "/uploads", zap.NewNop())
	ctx := context.Background()

	url1, err := store.Upload(ctx, "justificatifs/image.png", []byte("first"))
	require.NoError(t, err)
	url2, err := store.Upload(ctx, "justificatifs/image.png", []byte("second"))
	require.NoError(t, err)

	assert.NotEqual(t, url1, url2)

	matches, err := filepath.Glob(filepath.Join(baseDir, "justificatifs", "image-*.png"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestLocalReceiptStorage_TraversalStaysInsideBase(t *testing.T) {
	baseDir := t.TempDir()
	store := NewLocalReceiptStorage(baseDir, "/uploads", zap.NewNop())

	url, err := store.Upload(context.Background(), "../../outside/evil.png", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/outside/evil-"), "url: %s", url)

	// nothing was written next to the base directory
	_, err = os.Stat(filepath.Join(filepath.Dir(baseDir), "outside"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalReceiptStorage_BaseURLTrailingSlash(t *testing.T) {
	store := NewLocalReceiptStorage(t.TempDir(), "/uploads/", zap.NewNop())

	url, err := store.Upload(context.Background(), "justificatifs/a.png", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/justificatifs/a-"), "url: %s", url)
}
