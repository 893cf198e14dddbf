package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalFileStore is a FileStore rooted at a directory on disk.
type LocalFileStore struct {
	root string
}

// NewLocalFileStore creates a store rooted at root.
func NewLocalFileStore(root string) *LocalFileStore {
	if root == "" {
		root = "."
	}
	return &LocalFileStore{root: root}
}

func (s *LocalFileStore) resolve(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(Clean(p)))
}

// Exists implements FileStore.
func (s *LocalFileStore) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if Clean(p) == "" {
		return false, nil
	}
	info, err := os.Stat(s.resolve(p))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	return info.Mode().IsRegular(), nil
}

// List implements FileStore. A missing directory lists as empty.
func (s *LocalFileStore) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.resolve(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, Join(dir, entry.Name()))
		}
	}
	return files, nil
}
