// Package storage abstracts the file namespace holding product images.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"markethub/internal/config"

	"go.uber.org/zap"
)

// FileStore answers existence and listing questions over a hierarchical
// namespace of slash-separated paths. It never reads file contents.
type FileStore interface {
	// Exists reports whether a file is stored at p.
	Exists(ctx context.Context, p string) (bool, error)
	// List returns the paths of the files directly under dir, sorted.
	List(ctx context.Context, dir string) ([]string, error)
}

// New builds the FileStore selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (FileStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalFileStore(cfg.Root), nil
	case "s3":
		return NewS3FileStore(ctx, cfg, WithLogger(log))
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// Clean normalizes a stored path: forward slashes, no leading slash, no "..".
func Clean(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return ""
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// Join joins a directory and a base name into a stored path.
func Join(dir, name string) string {
	return Clean(path.Join(dir, name))
}
