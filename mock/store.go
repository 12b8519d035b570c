package mock

import (
	"context"

	"github.com/fwojciec/sitemirror"
)

var _ sitemirror.Store = (*Store)(nil)

// Store is a mock implementation of sitemirror.Store.
type Store struct {
	SaveFn func(ctx context.Context, rawURL string, content []byte) (string, error)
}

func (s *Store) Save(ctx context.Context, rawURL string, content []byte) (string, error) {
	return s.SaveFn(ctx, rawURL, content)
}
