package fs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/sitemirror"
	"github.com/fwojciec/sitemirror/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToPath(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/out")

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "keeps all but the last segment",
			url:  "http://example.test/a/b/page.html",
			want: filepath.Join(root, "a", "b"),
		},
		{
			name: "single segment maps to root",
			url:  "http://example.test/page.html",
			want: root,
		},
		{
			name: "empty path maps to root",
			url:  "http://example.test",
			want: root,
		},
		{
			name: "bare slash maps to root",
			url:  "http://example.test/",
			want: root,
		},
		{
			name: "collapses repeated slashes",
			url:  "http://example.test//a///b//page.html",
			want: filepath.Join(root, "a", "b"),
		},
		{
			name: "strips trailing slash before splitting",
			url:  "http://example.test/a/b/",
			want: filepath.Join(root, "a"),
		},
		{
			name: "drops encoded parent segments",
			url:  "http://example.test/%2e%2e/%2e%2e/escaped/evil.html",
			want: filepath.Join(root, "escaped"),
		},
		{
			name: "drops dot segments between directories",
			url:  "http://example.test/a/%2E/b/%2e%2E/c/page.html",
			want: filepath.Join(root, "a", "b", "c"),
		},
		{
			name: "splits encoded slashes into segments",
			url:  "http://example.test/a%2F..%2F..%2Fetc/passwd",
			want: filepath.Join(root, "a", "etc"),
		},
		{
			name: "ignores query and fragment",
			url:  "http://example.test/img/x.png?v=2#frag",
			want: filepath.Join(root, "img"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.MapToPath(tt.url, root)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapToPath_IsDeterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	url := "http://example.test/static/css/site.css"

	first, err := fs.MapToPath(url, root)
	require.NoError(t, err)
	for range 10 {
		again, err := fs.MapToPath(url, root)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMapToPath_SharedPrefixSharesDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	a, err := fs.MapToPath("http://example.test/img/a.png", root)
	require.NoError(t, err)
	b, err := fs.MapToPath("http://other.test/img/b.jpg", root)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestMapToPath_StaysUnderRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "x", "mirror")
	urls := []string{
		"http://example.test/%2e%2e/%2e%2e/escaped/evil.html",
		"http://example.test/..%2f..%2fpwn/x.png",
		"http://example.test/a/../../../b/c.html",
		"http://example.test/%2E%2E/%2E%2E/%2E%2E/",
	}

	for _, u := range urls {
		dir, err := fs.MapToPath(u, root)
		require.NoError(t, err)

		rel, err := filepath.Rel(root, dir)
		require.NoError(t, err)
		assert.False(t, rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)),
			"%s mapped outside root to %s", u, dir)
	}
}

func TestMapToPath_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := fs.MapToPath("http://[::1", "/out")

	require.Error(t, err)
	assert.Equal(t, sitemirror.EINVALID, sitemirror.ErrorCode(err))
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{url: "http://example.test/a/b/page.html", want: "page.html"},
		{url: "http://example.test/img/x.png?v=1", want: "x.png"},
		{url: "http://example.test/a/", want: fs.IndexFile},
		{url: "http://example.test", want: fs.IndexFile},
		{url: "http://example.test/a/%2e%2e", want: fs.IndexFile},
		{url: "http://example.test/a/%2e", want: fs.IndexFile},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			got, err := fs.FileName(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directories", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "a", "b", "c")

		require.NoError(t, fs.EnsureDir(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("existing directory is success", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		require.NoError(t, fs.EnsureDir(dir))
		require.NoError(t, fs.EnsureDir(dir))
	})

	t.Run("file in the way is a filesystem error", func(t *testing.T) {
		t.Parallel()

		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		err := fs.EnsureDir(filepath.Join(blocker, "sub"))

		require.Error(t, err)
		assert.Equal(t, sitemirror.EFILESYSTEM, sitemirror.ErrorCode(err))
	})
}
