package crawl_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/sitemirror/crawl"
	"github.com/stretchr/testify/assert"
)

func TestVisitedSet_TryClaim(t *testing.T) {
	t.Parallel()

	t.Run("first claim wins", func(t *testing.T) {
		t.Parallel()

		s := crawl.NewVisitedSet()

		assert.True(t, s.TryClaim("http://example.test/a.html"))
		assert.False(t, s.TryClaim("http://example.test/a.html"))
		assert.True(t, s.TryClaim("http://example.test/b.html"))
		assert.Equal(t, 2, s.Len())
	})

	t.Run("claims canonical URLs", func(t *testing.T) {
		t.Parallel()

		s := crawl.NewVisitedSet()

		assert.True(t, s.TryClaim("HTTP://Example.TEST/a.html#intro"))
		assert.False(t, s.TryClaim("http://example.test/a.html"))
		assert.False(t, s.TryClaim(" http://example.test/a.html "))
		assert.True(t, s.TryClaim("http://example.test/A.html"), "path stays case-sensitive")
		assert.Equal(t, 2, s.Len())
	})

	t.Run("exactly one concurrent caller wins", func(t *testing.T) {
		t.Parallel()

		const goroutines = 64
		s := crawl.NewVisitedSet()
		var wins atomic.Int32
		var start, wg sync.WaitGroup
		start.Add(1)

		for range goroutines {
			wg.Add(1)
			go func() {
				defer wg.Done()
				start.Wait()
				if s.TryClaim("http://example.test/contested.html") {
					wins.Add(1)
				}
			}()
		}
		start.Done()
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
		assert.Equal(t, 1, s.Len())
	})

	t.Run("distinct URLs are all claimed under contention", func(t *testing.T) {
		t.Parallel()

		const goroutines = 32
		const perGoroutine = 50
		s := crawl.NewVisitedSet()
		var wins atomic.Int32
		var wg sync.WaitGroup

		for g := range goroutines {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// Every goroutine tries the same URL range, offset to interleave.
				for i := range perGoroutine {
					n := (i + g) % perGoroutine
					if s.TryClaim("http://example.test/p" + string(rune('A'+n)) + ".html") {
						wins.Add(1)
					}
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(perGoroutine), wins.Load())
		assert.Equal(t, perGoroutine, s.Len())
	})
}
