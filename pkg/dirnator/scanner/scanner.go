// Package scanner implements the concurrent directory crawler at the heart of
// dirnator. A fixed pool of worker goroutines shares one FIFO queue of
// directories; each worker lists a directory, queues its subdirectories,
// records its files and counts every failure. Workers agree that the scan is
// over when the queue is empty and no directory is in flight.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/dirnator/pkg/dirnator/logging"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
)

// logger is the package-level logger for scan operations.
var logger = logging.Get("scanner")

// progressInterval throttles OnProgress callbacks.
const progressInterval = 10 * time.Millisecond

// ResultMap maps every successfully listed directory to the files directly
// inside it, in listing order.
type ResultMap map[string][]string

// FileCount returns the total number of files across all directories.
func (m ResultMap) FileCount() int64 {
	var n int64
	for _, files := range m {
		n += int64(len(files))
	}
	return n
}

// Result is the outcome of one scan.
type Result struct {
	Map     ResultMap
	Summary stats.Summary
}

// Scanner crawls a directory tree with a pool of workers.
// A Scanner may be reused; every call to Scan starts from fresh state.
type Scanner struct {
	opts Options
}

// New creates a new Scanner with the given options.
// Options are validated and defaults are applied.
func New(opts Options) *Scanner {
	_ = opts.Validate()
	return &Scanner{opts: opts}
}

// Run scans root with the given number of workers using default options.
func Run(root string, workers int) (*Result, error) {
	return New(Options{Root: root, Workers: workers}).Scan()
}

// Scan walks the tree and blocks until every worker has exited.
// Only a missing or inaccessible root is returned as an error; failures
// below the root are counted in the summary.
func (s *Scanner) Scan() (*Result, error) {
	root := filepath.Clean(s.opts.Root)
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("accessing root %q: %w", root, err)
	}

	w := newWalk(s.opts, root)
	workers := s.opts.Workers

	logger.Debug("scan started", "root", root, "workers", workers)

	start := time.Now()

	var wg sync.WaitGroup
	for range workers {
		wg.Go(w.work)
	}
	wg.Wait()

	elapsed := time.Since(start)
	summary := w.counters.Summary(elapsed, workers)

	logger.Debug("scan finished",
		"root", root,
		"workers", workers,
		"ms", summary.Millis,
		"dirs", summary.Dirs,
		"files", summary.Files,
		"denied", summary.Denied,
		"errors", summary.Errors,
	)

	return &Result{Map: w.results, Summary: summary}, nil
}

// walk is the state owned by a single Scan invocation.
type walk struct {
	opts     Options
	queue    *queue
	counters stats.Counters

	// results is guarded by resultsMu, independent of the queue lock.
	results   ResultMap
	resultsMu sync.Mutex

	lastProgress atomic.Int64
}

func newWalk(opts Options, root string) *walk {
	return &walk{
		opts:    opts,
		queue:   newQueue(Task{Path: root, Depth: 0}),
		results: make(ResultMap),
	}
}

// store records the files of one listed directory.
func (w *walk) store(dir string, files []string) {
	w.resultsMu.Lock()
	w.results[dir] = files
	w.resultsMu.Unlock()
}

// reportProgress calls the progress callback at most once per interval.
func (w *walk) reportProgress(path string) {
	if w.opts.OnProgress == nil {
		return
	}

	now := time.Now().UnixNano()
	last := w.lastProgress.Load()
	if now-last < int64(progressInterval) {
		return
	}
	if !w.lastProgress.CompareAndSwap(last, now) {
		return // Another worker is reporting.
	}

	w.opts.OnProgress(Progress{
		Snapshot:    w.counters.Snapshot(),
		CurrentPath: path,
		Workers:     w.opts.Workers,
	})
}
