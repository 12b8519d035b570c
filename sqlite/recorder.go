package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/sitemirror"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitemirror.Recorder = (*Recorder)(nil)

// Run is one recorded crawl.
type Run struct {
	ID         string
	RootURL    string
	MaxDepth   int
	DestDir    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// OutcomeFilter selects outcomes of a run.
type OutcomeFilter struct {
	RunID      string
	FailedOnly bool
	Kind       sitemirror.OutcomeKind

	Limit  int
	Offset int
}

// Recorder writes crawl outcomes into the runs and outcomes tables.
// Begin must be called before Record.
type Recorder struct {
	db *DB

	mu  sync.Mutex
	run *Run
}

// NewRecorder creates a new Recorder.
func NewRecorder(db *DB) *Recorder {
	return &Recorder{db: db}
}

// Begin inserts a new run and makes it the target of subsequent records.
func (r *Recorder) Begin(ctx context.Context, rootURL string, maxDepth int, destDir string) (*Run, error) {
	if rootURL == "" {
		return nil, sitemirror.Errorf(sitemirror.EINVALID, "run root URL required")
	}

	run := &Run{
		ID:        uuid.New().String(),
		RootURL:   rootURL,
		MaxDepth:  maxDepth,
		DestDir:   destDir,
		StartedAt: time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, root_url, max_depth, dest_dir, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.RootURL, run.MaxDepth, run.DestDir, formatTime(run.StartedAt))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.run = run
	r.mu.Unlock()
	return run, nil
}

// Record inserts one outcome for the current run.
func (r *Recorder) Record(ctx context.Context, o *sitemirror.Outcome) error {
	run, err := r.current()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO outcomes (run_id, url, kind, depth, code, message, status_code, path, bytes, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, o.URL, string(o.Kind), o.Depth, o.Code, o.Message, o.StatusCode, o.Path, o.Bytes, o.Hash,
		formatTime(o.FetchedAt))
	return err
}

// Finish stamps the current run as finished.
func (r *Recorder) Finish(ctx context.Context) error {
	run, err := r.current()
	if err != nil {
		return err
	}

	finishedAt := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE runs SET finished_at = ? WHERE id = ?`,
		formatTime(finishedAt), run.ID); err != nil {
		return err
	}

	r.mu.Lock()
	run.FinishedAt = finishedAt
	r.mu.Unlock()
	return nil
}

func (r *Recorder) current() (*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run == nil {
		return nil, sitemirror.Errorf(sitemirror.EINVALID, "no crawl run started")
	}
	return r.run, nil
}

// FindRunByID retrieves a run by ID.
func (r *Recorder) FindRunByID(ctx context.Context, id string) (*Run, error) {
	var run Run
	var startedAt, finishedAt string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, root_url, max_depth, dest_dir, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.RootURL, &run.MaxDepth, &run.DestDir, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitemirror.Errorf(sitemirror.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindOutcomes retrieves outcomes matching the filter in insertion order.
func (r *Recorder) FindOutcomes(ctx context.Context, filter OutcomeFilter) ([]*sitemirror.Outcome, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT url, kind, depth, code, message, status_code, path, bytes, content_hash, fetched_at
		FROM outcomes WHERE 1=1`)

	if filter.RunID != "" {
		query.WriteString(" AND run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.FailedOnly {
		query.WriteString(" AND code != ''")
	}
	if filter.Kind != "" {
		query.WriteString(" AND kind = ?")
		args = append(args, string(filter.Kind))
	}

	query.WriteString(" ORDER BY id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []*sitemirror.Outcome
	for rows.Next() {
		var o sitemirror.Outcome
		var kind, fetchedAt string
		if err := rows.Scan(&o.URL, &kind, &o.Depth, &o.Code, &o.Message, &o.StatusCode, &o.Path, &o.Bytes,
			&o.Hash, &fetchedAt); err != nil {
			return nil, err
		}
		o.Kind = sitemirror.OutcomeKind(kind)
		if o.FetchedAt, err = parseTime(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, &o)
	}

	return outcomes, rows.Err()
}

// CountFailures returns the number of failed outcomes of a run per error code.
func (r *Recorder) CountFailures(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT code, COUNT(*) FROM outcomes
		WHERE run_id = ? AND code != ''
		GROUP BY code
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, err
		}
		counts[code] = n
	}
	return counts, rows.Err()
}
