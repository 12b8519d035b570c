package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/sitemirror"
	smhttp "github.com/fwojciec/sitemirror/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body, content type and status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := smhttp.NewFetcher()

		result, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", string(result.Body))
		assert.Equal(t, "text/html; charset=utf-8", result.ContentType)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Equal(t, server.URL, result.URL)
	})

	t.Run("returns binary payloads unchanged", func(t *testing.T) {
		t.Parallel()

		png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(png)
		}))
		defer server.Close()

		result, err := smhttp.NewFetcher().Fetch(context.Background(), server.URL+"/x.png")

		require.NoError(t, err)
		assert.Equal(t, png, result.Body)
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		t.Parallel()

		got := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got <- r.Header.Get("User-Agent")
		}))
		defer server.Close()

		_, err := smhttp.NewFetcher(smhttp.WithUserAgent("mirror-test")).Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "mirror-test", <-got)
	})

	t.Run("rejects body larger than max size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer server.Close()

		result, err := smhttp.NewFetcher(smhttp.WithMaxBodySize(10)).Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Equal(t, sitemirror.EHTTP, sitemirror.ErrorCode(err))
		assert.Contains(t, err.Error(), "exceeds 10 bytes")
		require.NotNil(t, result)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Empty(t, result.Body)
	})

	t.Run("accepts body exactly at max size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("0123456789"))
		}))
		defer server.Close()

		result, err := smhttp.NewFetcher(smhttp.WithMaxBodySize(10)).Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(result.Body))
	})

	t.Run("404 is a typed not found failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		result, err := smhttp.NewFetcher().Fetch(context.Background(), server.URL+"/missing.html")

		require.Error(t, err)
		assert.Equal(t, sitemirror.ENOTFOUND, sitemirror.ErrorCode(err))
		assert.Contains(t, err.Error(), "404")
		require.NotNil(t, result)
		assert.Equal(t, http.StatusNotFound, result.StatusCode)
	})

	t.Run("other non-2xx statuses are http failures", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		result, err := smhttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Equal(t, sitemirror.EHTTP, sitemirror.ErrorCode(err))
		require.NotNil(t, result)
		assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := smhttp.NewFetcher(smhttp.WithTimeout(10 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Equal(t, sitemirror.ENETWORK, sitemirror.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := smhttp.NewFetcher().Fetch(ctx, server.URL)

		require.Error(t, err)
		assert.Equal(t, sitemirror.ECANCELED, sitemirror.ErrorCode(err))
	})

	t.Run("returns network error for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := smhttp.NewFetcher(smhttp.WithTimeout(100 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")

		require.Error(t, err)
		assert.Equal(t, sitemirror.ENETWORK, sitemirror.ErrorCode(err))
	})

	t.Run("returns invalid error for malformed URL", func(t *testing.T) {
		t.Parallel()

		_, err := smhttp.NewFetcher().Fetch(context.Background(), "http://[::1")

		require.Error(t, err)
		assert.Equal(t, sitemirror.EINVALID, sitemirror.ErrorCode(err))
	})
}

// Compile-time verification that Fetcher implements sitemirror.Fetcher
var _ sitemirror.Fetcher = (*smhttp.Fetcher)(nil)
