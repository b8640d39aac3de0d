// Package storage keeps uploaded receipt files on the local filesystem and
// maps them to the public URLs the list view serves them under.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalReceiptStorage implements bill.ReceiptStorage on a base directory.
// Stored object names get a uuid suffix so two uploads of the same file
// name never collide.
type LocalReceiptStorage struct {
	baseDir string
	baseURL string
	logger  *zap.Logger
}

// NewLocalReceiptStorage creates a receipt store rooted at baseDir, serving
// files under baseURL (e.g. "/uploads").
func NewLocalReceiptStorage(baseDir, baseURL string, logger *zap.Logger) *LocalReceiptStorage {
	return &LocalReceiptStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Upload writes content under the given relative path and returns the URL
// the file is reachable at.
func (s *LocalReceiptStorage) Upload(ctx context.Context, relPath string, content []byte) (string, error) {
	objectPath := uniquePath(relPath)
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(objectPath))

	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create receipt directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write receipt",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}

	url := s.baseURL + "/" + objectPath
	s.logger.Debug("Receipt stored",
		zap.String("path", fullPath),
		zap.String("url", url),
		zap.Int("size", len(content)))

	return url, nil
}

// uniquePath inserts a uuid before the extension of the final path segment.
func uniquePath(relPath string) string {
	dir, name := path.Split(path.Clean("/" + relPath))
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return strings.TrimPrefix(dir, "/") + base + "-" + uuid.NewString() + ext
}

// validatePath checks that the resolved path stays within baseDir.
func (s *LocalReceiptStorage) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}
	return nil
}
