// Package fs provides the file-based mirror tree.
package fs

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitemirror"
)

// IndexFile is the file name used for URLs whose path ends in a slash.
const IndexFile = "index.html"

// MapToPath returns the directory that holds the file for rawURL.
// The decoded URL path is split into segments, dropping empty, "." and ".."
// segments, so the result never leaves rootDir. When more than one segment
// remains the directory is rootDir joined with every segment but the last;
// otherwise it is rootDir.
//
// Example: http://example.test/a/b/page.html, /out → /out/a/b
func MapToPath(rawURL, rootDir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitemirror.Errorf(sitemirror.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	segs := pathSegments(u.Path)
	if len(segs) <= 1 {
		return filepath.Clean(rootDir), nil
	}
	return filepath.Join(append([]string{rootDir}, segs[:len(segs)-1]...)...), nil
}

// pathSegments splits a decoded URL path into segments safe to use as
// directory names.
func pathSegments(p string) []string {
	var segs []string
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segs = append(segs, seg)
	}
	return segs
}

// FileName returns the final path segment of rawURL.
// URLs with an empty path or a trailing slash map to IndexFile.
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitemirror.Errorf(sitemirror.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	name := u.Path[strings.LastIndex(u.Path, "/")+1:]
	if name == "" || name == "." || name == ".." {
		return IndexFile, nil
	}
	return name, nil
}

// EnsureDir creates dir and any missing parents.
// An existing directory is success; an existing non-directory is an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sitemirror.Errorf(sitemirror.EFILESYSTEM, "create directory %s: %v", dir, err)
	}
	return nil
}
