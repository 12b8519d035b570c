package mock

import "github.com/fwojciec/sitemirror"

var _ sitemirror.VisitedSet = (*VisitedSet)(nil)

// VisitedSet is a mock implementation of sitemirror.VisitedSet.
type VisitedSet struct {
	TryClaimFn func(url string) bool
	LenFn      func() int
}

func (s *VisitedSet) TryClaim(url string) bool {
	return s.TryClaimFn(url)
}

func (s *VisitedSet) Len() int {
	return s.LenFn()
}
