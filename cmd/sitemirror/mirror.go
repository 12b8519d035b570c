package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/sitemirror"
	"github.com/fwojciec/sitemirror/crawl"
)

// MirrorCmd runs one crawl and prints its summary.
type MirrorCmd struct {
	RootURL  string
	MaxDepth int
	Dest     string
}

// Run executes the crawl. Failed pages and resources are reported but do
// not make the command fail.
func (c *MirrorCmd) Run(deps *Dependencies) error {
	var runID string
	if deps.Report != nil {
		run, err := deps.Report.Begin(deps.Ctx, c.RootURL, c.MaxDepth, c.Dest)
		if err != nil {
			return fmt.Errorf("start report: %w", err)
		}
		runID = run.ID
	}

	fmt.Fprintf(deps.Stdout, "Mirroring %s (depth %d) into %s\n", c.RootURL, c.MaxDepth, c.Dest)

	result, err := deps.Crawler.Crawl(deps.Ctx, c.RootURL, c.MaxDepth)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitemirror.ErrorMessage(err))
		return err
	}

	if deps.Report != nil {
		if err := deps.Report.Finish(deps.Ctx); err != nil {
			deps.Logger.Warn("finish report", "err", err)
		}
	}

	printSummary(deps.Stdout, result)
	if runID != "" {
		fmt.Fprintf(deps.Stdout, "Report run %s\n", runID)
	}
	if deps.Ctx.Err() != nil {
		fmt.Fprintln(deps.Stdout, "Interrupted: mirror is incomplete")
	}
	return nil
}

func printSummary(w io.Writer, r *crawl.Result) {
	fmt.Fprintf(w, "Mirrored %d pages and %d resources (%s) in %s\n",
		r.Pages, r.Resources, crawl.FormatBytes(r.Bytes), r.Elapsed.Round(time.Millisecond))
	if r.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d already visited links\n", r.Skipped)
	}
	if r.Failed == 0 {
		return
	}
	codes := slices.Sorted(maps.Keys(r.Failures))
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s=%d", code, r.Failures[code]))
	}
	fmt.Fprintf(w, "Failed %d (%s)\n", r.Failed, strings.Join(parts, ", "))
}

var _ sitemirror.Progress = (*progressPrinter)(nil)

// progressPrinter prints one numbered line per claimed page.
type progressPrinter struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

// Step implements sitemirror.Progress.
func (p *progressPrinter) Step(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	fmt.Fprintf(p.w, "[%d] %s\n", p.n, crawl.TruncateURL(url, 72))
}
