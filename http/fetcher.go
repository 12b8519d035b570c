// Package http provides an HTTP-based implementation of sitemirror.Fetcher.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/sitemirror"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBodySize is the largest response body accepted.
const DefaultMaxBodySize = 32 * 1024 * 1024

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "sitemirror/1.0"

// Ensure Fetcher implements sitemirror.Fetcher at compile time.
var _ sitemirror.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages and media with plain GET requests.
// It makes exactly one attempt per call.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the largest body accepted per response. Larger
// responses fail with EHTTP. Non-positive values keep the default.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithClient uses the given client instead of a new one.
// The client's own Timeout takes precedence over WithTimeout.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the content at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitemirror.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, sitemirror.Errorf(sitemirror.EINVALID, "invalid request for %s: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, url, err)
	}
	defer resp.Body.Close()

	result := &sitemirror.FetchResult{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return result, sitemirror.Errorf(sitemirror.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return result, sitemirror.Errorf(sitemirror.EHTTP, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return result, transportError(ctx, url, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return result, sitemirror.Errorf(sitemirror.EHTTP, "response body for %s exceeds %d bytes", url, f.maxBodySize)
	}
	result.Body = body

	return result, nil
}

// transportError classifies a failure that happened before or while a
// response body was read.
func transportError(ctx context.Context, url string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return sitemirror.Errorf(sitemirror.ECANCELED, "fetch %s: %v", url, err)
	}
	return sitemirror.Errorf(sitemirror.ENETWORK, "fetch %s: %v", url, err)
}
