package filestorage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/vitrine/internal/pkg/logger"
)

// ErrInvalidPath is returned for paths escaping the storage root
var ErrInvalidPath = errors.New("invalid file path")

// LocalStorage saves files under a directory on the local filesystem.
type LocalStorage struct {
	basePath string // root directory, e.g. "static"
	baseURL  string // public prefix of basePath, e.g. "/static"
}

// NewLocalStorage creates a LocalStorage, making sure basePath exists.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// GetFullPath returns the filesystem path for relPath
func (ls *LocalStorage) GetFullPath(relPath string) string {
	clean := path.Clean("/" + filepath.ToSlash(relPath))
	if clean == "/" {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

// URL returns the public URL of relPath
func (ls *LocalStorage) URL(relPath string) string {
	return ls.baseURL + path.Clean("/"+filepath.ToSlash(relPath))
}

// SaveAtomic writes to a uniquely named temp file next to the target and
// renames it into place once write succeeded.
func (ls *LocalStorage) SaveAtomic(relPath string, write WriteFunc) (string, error) {
	dstPath := ls.GetFullPath(relPath)
	if dstPath == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}

	dir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	tmpPath := filepath.Join(dir, ".upload-"+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	logger.Info().Str("path", dstPath).Msg("File saved successfully")
	return ls.URL(relPath), nil
}

// DeleteFile removes relPath. Deleting a missing file succeeds.
func (ls *LocalStorage) DeleteFile(relPath string) error {
	fullPath := ls.GetFullPath(relPath)
	if fullPath == "" {
		return fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", fullPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", fullPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", fullPath).Msg("File deleted successfully")
	return nil
}
