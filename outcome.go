package sitemirror

import (
	"context"
	"time"
)

// OutcomeKind distinguishes page outcomes from resource outcomes.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomePage     OutcomeKind = "page"
	OutcomeResource OutcomeKind = "resource"
)

// Outcome records what happened to one claimed page or one resource.
type Outcome struct {
	URL        string      `json:"url"`
	Kind       OutcomeKind `json:"kind"`
	Depth      int         `json:"depth"`
	Code       string      `json:"code,omitempty"`
	Message    string      `json:"message,omitempty"`
	StatusCode int         `json:"statusCode"`
	Path       string      `json:"path,omitempty"`
	Bytes      int         `json:"bytes"`
	Hash       string      `json:"hash,omitempty"`
	FetchedAt  time.Time   `json:"fetchedAt"`
}

// Failed reports whether the outcome carries an error code.
func (o *Outcome) Failed() bool {
	return o.Code != ""
}

// Recorder receives crawl outcomes as they happen.
// Implementations must be safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, outcome *Outcome) error
}

// Progress is advanced once for every page URL successfully claimed.
type Progress interface {
	Step(url string)
}

// ProgressFunc adapts a function to the Progress interface.
type ProgressFunc func(url string)

// Step calls f(url).
func (f ProgressFunc) Step(url string) {
	f(url)
}
