package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/pkg/lifecycle"
)

// filesystem stores blobs as files under basePath, keys mapping to relative paths.
type filesystem struct {
	basePath string
	logger   *slog.Logger
}

func newFilesystem(basePath string, logger *slog.Logger) (*filesystem, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	return &filesystem{
		basePath: absPath,
		logger:   logger.With("system", "storage", "backend", "filesystem"),
	}, nil
}

func (f *filesystem) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting storage system", "base_path", f.basePath)

	if err := os.MkdirAll(f.basePath, 0755); err != nil {
		return fmt.Errorf("create base_path: %w", err)
	}

	lc.OnStartup(func() {
		f.logger.Info("storage directory initialized")
	})

	return nil
}

// Store writes to a uniquely named sibling and renames it into place so that
// concurrent readers never observe a partial file.
func (f *filesystem) Store(ctx context.Context, key string, data []byte) error {
	path, err := f.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmpPath := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func (f *filesystem) Retrieve(ctx context.Context, key string) ([]byte, error) {
	path, err := f.fullPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return nil, ErrPermissionDenied
	default:
		return nil, fmt.Errorf("read file: %w", err)
	}
}

// Delete removes the file and prunes now-empty parent directories up to basePath.
func (f *filesystem) Delete(ctx context.Context, key string) error {
	path, err := f.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("remove file: %w", err)
	}

	for dir := filepath.Dir(path); dir != f.basePath && strings.HasPrefix(dir, f.basePath); dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("failed to remove empty directory", "dir", dir, "error", err)
			break
		}
	}

	return nil
}

func (f *filesystem) fullPath(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	cleaned := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrInvalidKey
	}

	full := filepath.Join(f.basePath, cleaned)
	if !strings.HasPrefix(full, f.basePath+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}

	return full, nil
}
