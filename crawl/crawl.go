// Package crawl provides the recursive mirroring crawler.
// It coordinates claiming, fetching, persisting and link expansion of pages
// and their media under a bounded fetch pool.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/sitemirror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is used when Crawler.Concurrency is not positive.
const DefaultConcurrency = 10

// Crawler mirrors a site by recursively following links from a root page.
type Crawler struct {
	Fetcher sitemirror.Fetcher
	Parser  sitemirror.Parser
	Store   sitemirror.Store

	// Visited is shared by every task of a crawl and breaks cycles.
	Visited sitemirror.VisitedSet

	// Resources, if set, dedups media downloads across pages.
	// When nil every reference on every page is fetched.
	Resources sitemirror.VisitedSet

	Recorder sitemirror.Recorder
	Progress sitemirror.Progress
	Logger   *slog.Logger

	// Concurrency caps the number of fetches in flight for the whole crawl.
	Concurrency int
}

// Task is a page URL with its remaining link-following budget.
type Task struct {
	URL   string
	Depth int
}

// run holds the state of a single Crawl call.
type run struct {
	*Crawler
	root   string
	pool   *semaphore.Weighted
	logger *slog.Logger
	stats  stats
}

// Crawl mirrors rootURL and everything reachable from it within maxDepth
// hops. It returns only after every spawned task has finished.
// Failures of individual pages and resources are logged, recorded and
// counted in the Result; the returned error is reserved for invalid input.
func (c *Crawler) Crawl(ctx context.Context, rootURL string, maxDepth int) (*Result, error) {
	if err := c.validate(rootURL, maxDepth); err != nil {
		return nil, err
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &run{
		Crawler: c,
		root:    sitemirror.CanonicalURL(rootURL),
		pool:    semaphore.NewWeighted(int64(concurrency)),
		logger:  logger,
	}

	begin := time.Now()
	root := Task{URL: rootURL, Depth: maxDepth}
	if r.claim(root) {
		r.visit(ctx, root)
	}
	return r.stats.result(time.Since(begin)), nil
}

func (c *Crawler) validate(rootURL string, maxDepth int) error {
	switch {
	case c.Fetcher == nil:
		return sitemirror.Errorf(sitemirror.EINVALID, "crawler fetcher required")
	case c.Parser == nil:
		return sitemirror.Errorf(sitemirror.EINVALID, "crawler parser required")
	case c.Store == nil:
		return sitemirror.Errorf(sitemirror.EINVALID, "crawler store required")
	case c.Visited == nil:
		return sitemirror.Errorf(sitemirror.EINVALID, "crawler visited set required")
	case maxDepth < 0:
		return sitemirror.Errorf(sitemirror.EINVALID, "max depth must be non-negative, got %d", maxDepth)
	}

	u, err := url.Parse(rootURL)
	if err != nil {
		return sitemirror.Errorf(sitemirror.EINVALID, "invalid root URL: %v", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return sitemirror.Errorf(sitemirror.EINVALID, "root URL must be an absolute http(s) URL: %q", rootURL)
	}
	return nil
}

// record is an outcome under construction. It is finished at most once.
type record struct {
	*sitemirror.Outcome
	done bool
}

// claim marks task's URL as visited and reports whether this task owns it.
func (r *run) claim(task Task) bool {
	if !r.Visited.TryClaim(task.URL) {
		r.stats.skipped()
		return false
	}
	r.stats.claimed()
	if r.Progress != nil {
		r.Progress.Step(task.URL)
	}
	return true
}

// visit runs a claimed task through fetch, persist and expansion.
// It never reports failure to its caller.
func (r *run) visit(ctx context.Context, task Task) {
	rec := &record{Outcome: &sitemirror.Outcome{
		URL:   task.URL,
		Kind:  sitemirror.OutcomePage,
		Depth: task.Depth,
	}}
	defer r.recoverTask(ctx, rec)

	res, err := r.fetch(ctx, task.URL, rec)
	if err != nil {
		r.finish(ctx, rec, err)
		return
	}

	if !isHTML(res.ContentType) {
		r.save(ctx, rec, res.Body)
		return
	}

	page, err := r.Parser.Parse(res.Body, task.URL)
	if err != nil {
		r.finish(ctx, rec, err)
		return
	}

	if r.save(ctx, rec, page.HTML) {
		r.downloadMedia(ctx, page, task.Depth)
	}

	if task.Depth > 0 {
		r.expand(ctx, page, task.Depth-1)
	}
}

// expand visits every outbound link at the given depth and waits for all
// of them. Links back to the crawl root are dropped.
//
// Links are claimed before a goroutine is started, so a crawl runs at most
// one goroutine per distinct page. Fetches are bounded by the pool; the
// goroutines themselves only wait.
func (r *run) expand(ctx context.Context, page *sitemirror.Page, depth int) {
	var g errgroup.Group
	defer func() { _ = g.Wait() }()

	for _, link := range page.Links {
		if sitemirror.CanonicalURL(link) == r.root {
			continue
		}
		child := Task{URL: link, Depth: depth}
		if !r.claim(child) {
			continue
		}
		g.Go(func() error {
			r.visit(ctx, child)
			return nil
		})
	}
}

// downloadMedia fetches and stores every resource of page concurrently.
// Each resource fails on its own.
func (r *run) downloadMedia(ctx context.Context, page *sitemirror.Page, depth int) {
	var g errgroup.Group
	defer func() { _ = g.Wait() }()

	for _, res := range page.Resources {
		if r.Resources != nil && !r.Resources.TryClaim(res.URL) {
			continue
		}
		rec := &record{Outcome: &sitemirror.Outcome{
			URL:   res.URL,
			Kind:  sitemirror.OutcomeResource,
			Depth: depth,
		}}
		g.Go(func() error {
			defer r.recoverTask(ctx, rec)

			fetched, err := r.fetch(ctx, res.URL, rec)
			if err != nil {
				r.finish(ctx, rec, err)
				return nil
			}
			r.save(ctx, rec, fetched.Body)
			return nil
		})
	}
}

// fetch performs a fetch inside the crawl's bounded pool.
// The pool slot is released before the caller continues.
func (r *run) fetch(ctx context.Context, rawURL string, rec *record) (*sitemirror.FetchResult, error) {
	if err := r.pool.Acquire(ctx, 1); err != nil {
		return nil, sitemirror.Errorf(sitemirror.ECANCELED, "fetch %s: %v", rawURL, err)
	}
	defer r.pool.Release(1)

	res, err := r.Fetcher.Fetch(ctx, rawURL)
	if res != nil {
		rec.StatusCode = res.StatusCode
	}
	rec.FetchedAt = time.Now().UTC()
	if err != nil {
		return nil, err
	}
	return res, nil
}

// save writes content through the store and finishes rec.
// It reports whether the write succeeded.
func (r *run) save(ctx context.Context, rec *record, content []byte) bool {
	path, err := r.Store.Save(ctx, rec.URL, content)
	if err != nil {
		r.finish(ctx, rec, err)
		return false
	}
	rec.Path = path
	rec.Bytes = len(content)
	rec.Hash = computeHash(content)
	r.finish(ctx, rec, nil)
	return true
}

// finish logs, counts and records a completed outcome. Calls after the
// first are ignored.
func (r *run) finish(ctx context.Context, rec *record, err error) {
	if rec.done {
		return
	}
	rec.done = true
	outcome := rec.Outcome

	if err != nil {
		outcome.Code = sitemirror.ErrorCode(err)
		outcome.Message = sitemirror.ErrorMessage(err)
		var appErr *sitemirror.Error
		if !errors.As(err, &appErr) {
			outcome.Message = err.Error()
		}

		level := slog.LevelError
		if outcome.Code == sitemirror.ENOTFOUND || outcome.Code == sitemirror.ECANCELED {
			level = slog.LevelWarn
		}
		r.logger.Log(ctx, level, string(outcome.Kind)+" failed",
			"url", outcome.URL,
			"depth", outcome.Depth,
			"code", outcome.Code,
			"status", outcome.StatusCode,
			"err", outcome.Message,
		)
	} else {
		r.logger.Debug(string(outcome.Kind)+" saved",
			"url", outcome.URL,
			"path", outcome.Path,
			"bytes", outcome.Bytes,
		)
	}

	r.stats.add(outcome)

	if r.Recorder == nil {
		return
	}
	// Record runs after cancellation too, so the report shows why tasks stopped.
	if rerr := r.Recorder.Record(context.WithoutCancel(ctx), outcome); rerr != nil {
		r.logger.Warn("record outcome", "url", outcome.URL, "err", rerr)
	}
}

// recoverTask turns a panic inside a task into an EINTERNAL outcome so the
// rest of the crawl keeps running. A panic after the outcome was finished
// is only logged.
func (r *run) recoverTask(ctx context.Context, rec *record) {
	v := recover()
	if v == nil {
		return
	}
	if rec.done {
		r.logger.Error(string(rec.Kind)+" panicked after completion",
			"url", rec.URL,
			"panic", fmt.Sprint(v),
		)
		return
	}
	r.finish(ctx, rec, fmt.Errorf("panic: %v", v))
}

// isHTML reports whether a Content-Type header describes an HTML document.
// A missing header is treated as HTML.
func isHTML(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
