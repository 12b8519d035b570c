package mock

import (
	"context"

	"github.com/fwojciec/sitemirror"
)

var _ sitemirror.Recorder = (*Recorder)(nil)

// Recorder is a mock implementation of sitemirror.Recorder.
type Recorder struct {
	RecordFn func(ctx context.Context, outcome *sitemirror.Outcome) error
}

func (r *Recorder) Record(ctx context.Context, outcome *sitemirror.Outcome) error {
	return r.RecordFn(ctx, outcome)
}
