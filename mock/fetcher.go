package mock

import (
	"context"

	"github.com/fwojciec/sitemirror"
)

var _ sitemirror.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitemirror.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*sitemirror.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitemirror.FetchResult, error) {
	return f.FetchFn(ctx, url)
}
