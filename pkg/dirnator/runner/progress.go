package runner

import (
	"sync/atomic"
	"time"

	"github.com/jamesainslie/dirnator/pkg/dirnator/scanner"
)

// progressLogInterval spaces the debug lines written while a scan runs.
const progressLogInterval = time.Second

// WithProgress returns a ScanFunc that reports scan progress. Every update
// is passed to fn, which may be nil; a debug line is logged at most once
// per progressLogInterval.
func WithProgress(fn func(scanner.Progress)) ScanFunc {
	return func(root string, workers int) (*scanner.Result, error) {
		var last atomic.Int64

		onProgress := func(p scanner.Progress) {
			now := time.Now().UnixNano()
			if prev := last.Load(); now-prev >= int64(progressLogInterval) && last.CompareAndSwap(prev, now) {
				logger.Debug("scan progress",
					"workers", p.Workers,
					"dirs", p.Dirs,
					"files", p.Files,
					"path", p.CurrentPath,
				)
			}
			if fn != nil {
				fn(p)
			}
		}

		return scanner.New(scanner.Options{
			Root:       root,
			Workers:    workers,
			OnProgress: onProgress,
		}).Scan()
	}
}
