package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitemirror"
)

// Ensure LoggingStore implements sitemirror.Store.
var _ sitemirror.Store = (*LoggingStore)(nil)

// LoggingStore wraps a Store with debug logging.
type LoggingStore struct {
	next   sitemirror.Store
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next sitemirror.Store, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Save delegates to the wrapped store and logs the write.
func (s *LoggingStore) Save(ctx context.Context, rawURL string, content []byte) (path string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save",
			"url", rawURL,
			"path", path,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, rawURL, content)
}
