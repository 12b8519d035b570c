package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/sitemirror"
	"github.com/fwojciec/sitemirror/bloom"
	"github.com/fwojciec/sitemirror/config"
	"github.com/fwojciec/sitemirror/crawl"
	"github.com/fwojciec/sitemirror/fs"
	"github.com/fwojciec/sitemirror/goquery"
	smhttp "github.com/fwojciec/sitemirror/http"
	smslog "github.com/fwojciec/sitemirror/slog"
	"github.com/fwojciec/sitemirror/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Crawler *crawl.Crawler

	// Report is nil unless a report path is configured.
	Report *sqlite.Recorder
	db     *sqlite.DB
}

// NewDependencies wires the crawler described by cfg.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) (*Dependencies, error) {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	fetcher := smhttp.NewFetcher(
		smhttp.WithTimeout(cfg.Timeout),
		smhttp.WithUserAgent(cfg.UserAgent),
		smhttp.WithMaxBodySize(cfg.MaxBodySize),
	)

	var recorder sitemirror.Recorder
	if cfg.ReportPath != "" {
		db := sqlite.NewDB(cfg.ReportPath)
		if err := db.Open(); err != nil {
			return nil, fmt.Errorf("open report: %w", err)
		}
		deps.db = db
		deps.Report = sqlite.NewRecorder(db)
		recorder = deps.Report
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:     smslog.NewLoggingFetcher(fetcher, logger),
		Parser:      goquery.NewParser(),
		Store:       smslog.NewLoggingStore(fs.NewStore(cfg.DestinationDir), logger),
		Visited:     newVisitedSet(cfg),
		Recorder:    smslog.NewLoggingRecorder(recorder, logger),
		Progress:    newProgressPrinter(stdout),
		Logger:      logger,
		Concurrency: cfg.Concurrency,
	}
	if cfg.DedupResources {
		deps.Crawler.Resources = newVisitedSet(cfg)
	}

	return deps, nil
}

// Close releases the report database, if any.
func (d *Dependencies) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func newVisitedSet(cfg *config.Config) sitemirror.VisitedSet {
	if cfg.Dedup == config.DedupBloom {
		return bloom.NewVisitedSet(cfg.BloomCapacity, cfg.BloomFPRate)
	}
	return crawl.NewVisitedSet()
}
