package crawl

import (
	"sync"

	"github.com/fwojciec/sitemirror"
)

// Compile-time interface verification.
var _ sitemirror.VisitedSet = (*VisitedSet)(nil)

// VisitedSet is an exact, mutex-guarded set of canonical URLs.
// It is safe for concurrent use by multiple goroutines.
type VisitedSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{urls: make(map[string]struct{})}
}

// TryClaim marks url as claimed and reports whether this call was first.
func (s *VisitedSet) TryClaim(url string) bool {
	key := sitemirror.CanonicalURL(url)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.urls[key]; ok {
		return false
	}
	s.urls[key] = struct{}{}
	return true
}

// Len returns the number of claimed URLs.
func (s *VisitedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}
