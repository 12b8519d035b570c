package sitemirror

import "context"

// FetchResult holds the payload of a single GET request.
type FetchResult struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Fetcher retrieves pages and media over the network.
type Fetcher interface {
	// Fetch performs one GET request for url. There are no retries.
	// A 404 response returns ENOTFOUND, any other non-2xx status returns
	// EHTTP, and transport failures return ENETWORK. The result is non-nil
	// whenever a response was received, so callers can inspect StatusCode
	// on failure.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}
