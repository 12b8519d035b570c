package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/sitemirror"
)

// Ensure LoggingRecorder implements sitemirror.Recorder.
var _ sitemirror.Recorder = (*LoggingRecorder)(nil)

// LoggingRecorder wraps a Recorder with debug logging of every outcome.
type LoggingRecorder struct {
	next   sitemirror.Recorder
	logger *slog.Logger
}

// NewLoggingRecorder creates a new LoggingRecorder. next may be nil, in
// which case outcomes are only logged.
func NewLoggingRecorder(next sitemirror.Recorder, logger *slog.Logger) *LoggingRecorder {
	return &LoggingRecorder{next: next, logger: logger}
}

// Record logs the outcome and delegates to the wrapped recorder.
func (r *LoggingRecorder) Record(ctx context.Context, o *sitemirror.Outcome) error {
	r.logger.DebugContext(ctx, "outcome",
		"kind", o.Kind,
		"url", o.URL,
		"depth", o.Depth,
		"code", o.Code,
		"status", o.StatusCode,
		"path", o.Path,
	)
	if r.next == nil {
		return nil
	}
	return r.next.Record(ctx, o)
}
