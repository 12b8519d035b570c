package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitemirror"
)

// Ensure Store implements sitemirror.Store at compile time.
var _ sitemirror.Store = (*Store)(nil)

// Store writes pages and media into a directory tree mirroring URL paths.
// Pages and media share one layout: both are placed relative to the root
// directory according to their own URL, so a stylesheet referenced from a
// deep page still lands under the root.
type Store struct {
	rootDir string
}

// NewStore creates a new Store rooted at rootDir.
func NewStore(rootDir string) *Store {
	return &Store{rootDir: rootDir}
}

// RootDir returns the directory the store writes below.
func (s *Store) RootDir() string {
	return s.rootDir
}

// Save writes content for rawURL and returns the written file path.
func (s *Store) Save(ctx context.Context, rawURL string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", sitemirror.Errorf(sitemirror.ECANCELED, "save %s: %v", rawURL, err)
	}

	dir, err := MapToPath(rawURL, s.rootDir)
	if err != nil {
		return "", err
	}
	name, err := FileName(rawURL)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if !within(s.rootDir, path) {
		return "", sitemirror.Errorf(sitemirror.EFILESYSTEM, "path %s for %s escapes %s", path, rawURL, s.rootDir)
	}

	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", sitemirror.Errorf(sitemirror.EFILESYSTEM, "write %s: %v", path, err)
	}
	return path, nil
}

// within reports whether path lies inside root.
func within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
