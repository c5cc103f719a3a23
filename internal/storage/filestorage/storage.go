package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"event_gallery/internal/storage"
)

// FileStorage stores photo derivatives in per-event directories.
type FileStorage interface {
	Write(ctx context.Context, subPath, name string, data []byte) (relPath string, err error)
	Delete(ctx context.Context, relPath string) error
	DeleteDir(ctx context.Context, subPath string) error
	URL(subPath, name string) string
	BaseURL() string
	GetBaseDir() string
}

// LocalFileStorage is a FileStorage on the local file system.
type LocalFileStorage struct {
	baseDir string // e.g. "./gallery-images"
	baseURL string // e.g. "/gallery-images"
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// resolve joins relPath under the base directory and rejects anything that
// would land outside of it.
func (s *LocalFileStorage) resolve(relPath string) (string, error) {
	full := filepath.Join(s.baseDir, relPath)

	rel, err := filepath.Rel(s.baseDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidPath, relPath)
	}
	return full, nil
}

// Write stores data as subPath/name, replacing an existing file.
func (s *LocalFileStorage) Write(ctx context.Context, subPath, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	relPath := filepath.Join(subPath, name)
	filePath, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmp, filePath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return relPath, nil
}

// Delete removes a single file. A missing file reports storage.ErrFileNotFound.
func (s *LocalFileStorage) Delete(ctx context.Context, relPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := s.resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return storage.ErrFileNotFound
		}
		return err
	}
	return nil
}

// DeleteDir removes the files of a per-event directory and the directory itself.
func (s *LocalFileStorage) DeleteDir(ctx context.Context, subPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if subPath == "" || subPath == "." {
		return fmt.Errorf("%w: refusing to remove base directory", storage.ErrInvalidPath)
	}

	dir, err := s.resolve(subPath)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove directory: %w", err)
	}
	return nil
}

// URL returns the public URL of subPath/name.
func (s *LocalFileStorage) URL(subPath, name string) string {
	return s.baseURL + "/" + path.Join(subPath, name)
}

func (s *LocalFileStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}
