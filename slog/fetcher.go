// Package slog provides logging decorators for sitemirror services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitemirror"
)

// Ensure LoggingFetcher implements sitemirror.Fetcher.
var _ sitemirror.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   sitemirror.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitemirror.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the request.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *sitemirror.FetchResult, err error) {
	defer func(begin time.Time) {
		var status, n int
		if res != nil {
			status = res.StatusCode
			n = len(res.Body)
		}
		f.logger.Debug("fetch",
			"url", url,
			"status", status,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
