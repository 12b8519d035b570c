package crawl

import (
	"maps"
	"sync"
	"time"

	"github.com/fwojciec/sitemirror"
)

// Result holds the outcome of a crawl.
type Result struct {
	// Claimed is the number of page URLs this crawl claimed.
	Claimed int
	// Skipped counts page tasks that lost the claim to another branch.
	Skipped int
	// Pages and Resources count files written.
	Pages     int
	Resources int
	Bytes     int
	// Failed is the total of Failures.
	Failed   int
	Failures map[string]int
	Elapsed  time.Duration
}

// stats accumulates a Result from concurrently running tasks.
type stats struct {
	mu sync.Mutex
	r  Result
}

func (s *stats) claimed() {
	s.mu.Lock()
	s.r.Claimed++
	s.mu.Unlock()
}

func (s *stats) skipped() {
	s.mu.Lock()
	s.r.Skipped++
	s.mu.Unlock()
}

func (s *stats) add(o *sitemirror.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.Failed() {
		if s.r.Failures == nil {
			s.r.Failures = make(map[string]int)
		}
		s.r.Failures[o.Code]++
		s.r.Failed++
		return
	}

	switch o.Kind {
	case sitemirror.OutcomePage:
		s.r.Pages++
	case sitemirror.OutcomeResource:
		s.r.Resources++
	}
	s.r.Bytes += o.Bytes
}

func (s *stats) result(elapsed time.Duration) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.r
	r.Failures = maps.Clone(s.r.Failures)
	r.Elapsed = elapsed
	return &r
}
