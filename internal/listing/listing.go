package listing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/utkarsh5026/ogy/pool"
)

// retryDelay is the wait before retrying an interrupted lookup.
const retryDelay = 10 * time.Millisecond

// Options controls one listing.
type Options struct {
	// ShowHidden includes entries whose name starts with a dot.
	ShowHidden bool

	// Workers is the pool size; 0 means GOMAXPROCS.
	Workers int

	// Timeout bounds the whole listing; 0 means no deadline beyond ctx.
	Timeout time.Duration

	// Retries is how many times an interrupted lookup is retried.
	Retries int

	// Rate caps lookups per second; 0 means unlimited.
	Rate float64

	// Pin pins each worker to its own CPU core.
	Pin bool

	Logger *zap.Logger

	// OnStart is called once with the number of lookups, before the
	// results are awaited.
	OnStart func(total int)

	// OnEntryDone is called from a worker after each lookup finished.
	OnEntryDone func(err error)

	lookup    func(path string) (FileInfo, error)
	extraOpts []pool.Option
}

func (o Options) poolOptions() []pool.Option {
	opts := []pool.Option{pool.WithWorkerCount(o.Workers)}

	if o.Logger != nil {
		opts = append(opts, pool.WithLogger(o.Logger))
	}
	if o.Pin {
		opts = append(opts, pool.WithPinnedWorkers())
	}
	if o.Retries > 0 {
		opts = append(opts,
			pool.WithRetryPolicy(o.Retries+1, retryDelay),
			pool.WithRetryIf(Transient),
		)
	}
	if o.Rate > 0 {
		opts = append(opts, pool.WithRateLimit(o.Rate, max(1, int(o.Rate))))
	}
	if o.OnEntryDone != nil {
		done := o.OnEntryDone
		opts = append(opts, pool.WithOnTaskEnd(func(_ int64, err error) { done(err) }))
	}
	return append(opts, o.extraOpts...)
}

func (o Options) lookupFunc() func(string) (FileInfo, error) {
	if o.lookup != nil {
		return o.lookup
	}
	return Lookup
}

// Entry is one row of a listing: the metadata or the reason it is missing.
type Entry struct {
	Name string
	Path string
	Info FileInfo
	Err  error
}

// Failed reports whether the lookup for this entry failed.
func (e Entry) Failed() bool { return e.Err != nil }

// Report is the result of listing one directory. Entries are in name
// order regardless of the order lookups completed in.
type Report struct {
	Dir     string
	Entries []Entry
	Workers int
	Elapsed time.Duration

	// TimedOut is set when the deadline passed before every lookup finished.
	TimedOut bool

	// ShowPaths asks renderers for a path column; set by Find.
	ShowPaths bool
}

// Failures returns the number of entries whose lookup failed.
func (r *Report) Failures() int {
	n := 0
	for _, e := range r.Entries {
		if e.Failed() {
			n++
		}
	}
	return n
}

// ErrInterrupted is returned when ctx is cancelled before every lookup
// finished.
var ErrInterrupted = errors.New("listing interrupted")

// List reads dir and looks up every entry on a worker pool.
//
// The pool lives for this call only. A pool that cannot start, or refuses a
// submission, aborts the listing with an error; a lookup that fails is
// recorded on its Entry instead. When the deadline passes, unresolved
// entries carry context.DeadlineExceeded and List returns without waiting
// for lookups still running. Cancelling ctx aborts with ErrInterrupted.
func List(ctx context.Context, dir string, opts Options) (*Report, error) {
	start := time.Now()

	names, err := readNames(dir, opts.ShowHidden)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	p, err := pool.New[FileInfo](opts.poolOptions()...)
	if err != nil {
		return nil, fmt.Errorf("start lookup pool: %w", err)
	}

	lookup := opts.lookupFunc()
	queued := make([]queuedLookup, 0, len(names))
	for _, name := range names {
		q, err := submitLookup(p, lookup, name, filepath.Join(dir, name))
		if err != nil {
			p.ShutdownNow()
			return nil, err
		}
		queued = append(queued, q)
	}

	report := &Report{Dir: dir, Workers: p.Workers()}
	if err := collect(ctx, p, queued, report, opts.OnStart); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// Find walks root and looks up every entry whose name contains term,
// ignoring case. Without recursive only the direct children of root are
// searched. Lookups are submitted while the walk is still discovering
// entries; the report keeps walk order. Unreadable subdirectories are
// skipped.
func Find(ctx context.Context, root, term string, recursive bool, opts Options) (*Report, error) {
	start := time.Now()

	ctx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	p, err := pool.New[FileInfo](opts.poolOptions()...)
	if err != nil {
		return nil, fmt.Errorf("start lookup pool: %w", err)
	}

	lookup := opts.lookupFunc()
	needle := strings.ToLower(term)
	var queued []queuedLookup

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if path == root {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if strings.Contains(strings.ToLower(d.Name()), needle) {
			q, err := submitLookup(p, lookup, d.Name(), path)
			if err != nil {
				return err
			}
			queued = append(queued, q)
		}

		if d.IsDir() && !recursive {
			return filepath.SkipDir
		}
		return nil
	})
	report := &Report{Dir: root, Workers: p.Workers(), ShowPaths: true}
	switch {
	case walkErr == nil:
	case errors.Is(walkErr, context.DeadlineExceeded):
		// matches found so far are still reported
		report.TimedOut = true
	case errors.Is(walkErr, context.Canceled):
		go p.ShutdownNow()
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, walkErr)
	default:
		go p.ShutdownNow()
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	if err := collect(ctx, p, queued, report, opts.OnStart); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

type queuedLookup struct {
	name, path string
	future     *pool.Future[FileInfo]
}

func submitLookup(p *pool.Pool[FileInfo], lookup func(string) (FileInfo, error), name, path string) (queuedLookup, error) {
	f, err := p.Submit(func() (FileInfo, error) { return lookup(path) })
	if err != nil {
		return queuedLookup{}, fmt.Errorf("submit lookup for %s: %w", name, err)
	}
	return queuedLookup{name: name, path: path, future: f}, nil
}

// collect awaits every queued lookup in submission order and owns the
// shutdown of p.
func collect(ctx context.Context, p *pool.Pool[FileInfo], queued []queuedLookup, report *Report, onStart func(int)) error {
	if onStart != nil {
		onStart(len(queued))
	}

	report.Entries = make([]Entry, len(queued))
	for i, q := range queued {
		info, err := q.future.GetWithContext(ctx)
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			if errors.Is(err, context.Canceled) {
				go p.ShutdownNow()
				return fmt.Errorf("%w: %w", ErrInterrupted, err)
			}
			report.TimedOut = true
		}
		report.Entries[i] = Entry{Name: q.name, Path: q.path, Info: info, Err: err}
	}

	if report.TimedOut {
		// running lookups may never return; stop the rest without joining
		go p.ShutdownNow()
	} else {
		p.Shutdown()
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// ListSequential performs the same lookups as List in a plain loop on the
// calling goroutine.
func ListSequential(dir string, opts Options) (*Report, error) {
	start := time.Now()

	names, err := readNames(dir, opts.ShowHidden)
	if err != nil {
		return nil, err
	}

	lookup := opts.lookupFunc()
	report := &Report{
		Dir:     dir,
		Entries: make([]Entry, len(names)),
		Workers: 1,
	}
	for i, name := range names {
		path := filepath.Join(dir, name)
		info, err := lookup(path)
		report.Entries[i] = Entry{Name: name, Path: path, Info: info, Err: err}
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// readNames returns the entry names of dir in name order.
func readNames(dir string, showHidden bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !showHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
