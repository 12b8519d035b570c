// Package bloom provides an approximate visited set backed by a Bloom filter.
//
// Memory stays fixed regardless of how many URLs are claimed, at the cost of
// false positives: a URL never seen before may be reported as visited and
// skipped. A URL is never claimed twice.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/sitemirror"
)

// Default sizing used by the CLI.
const (
	DefaultCapacity          = 1_000_000
	DefaultFalsePositiveRate = 0.001
)

// Ensure VisitedSet implements sitemirror.VisitedSet at compile time.
var _ sitemirror.VisitedSet = (*VisitedSet)(nil)

// VisitedSet claims canonical URLs in a Bloom filter.
type VisitedSet struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	n      int
}

// NewVisitedSet creates a set sized for capacity expected URLs with the
// given false positive rate.
func NewVisitedSet(capacity uint, fpRate float64) *VisitedSet {
	return &VisitedSet{
		filter: bloom.NewWithEstimates(capacity, fpRate),
	}
}

// TryClaim reports whether url was not yet in the filter and adds it.
func (s *VisitedSet) TryClaim(url string) bool {
	key := sitemirror.CanonicalURL(url)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter.TestOrAddString(key) {
		return false
	}
	s.n++
	return true
}

// Len returns the number of successful claims.
func (s *VisitedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// EstimatedCount returns the filter's own estimate of its population.
func (s *VisitedSet) EstimatedCount() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(s.filter.ApproximatedSize())
}
