// Package stats holds the traversal counters shared by scan workers and the
// derived throughput and score metrics used to rank scans.
package stats

import (
	"math"
	"sync/atomic"
	"time"
)

// Scoring weights.
const (
	depthWeight  = 0.2
	errorPenalty = 0.5
)

// Counters are the per-scan statistics updated concurrently by workers.
// Each counter is independent; no update depends on another counter's value.
type Counters struct {
	Dirs     atomic.Int64
	Files    atomic.Int64
	Denied   atomic.Int64
	Errors   atomic.Int64
	MaxDepth atomic.Int64
}

// ObserveDepth raises MaxDepth to depth if depth is larger.
func (c *Counters) ObserveDepth(depth int64) {
	for {
		cur := c.MaxDepth.Load()
		if depth <= cur {
			return
		}
		if c.MaxDepth.CompareAndSwap(cur, depth) {
			return
		}
	}
}

// Snapshot is a point-in-time copy of the counters for progress reporting.
type Snapshot struct {
	Dirs     int64
	Files    int64
	Denied   int64
	Errors   int64
	MaxDepth int64
}

// Snapshot loads all counters.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Dirs:     c.Dirs.Load(),
		Files:    c.Files.Load(),
		Denied:   c.Denied.Load(),
		Errors:   c.Errors.Load(),
		MaxDepth: c.MaxDepth.Load(),
	}
}

// Summary is the immutable result of one scan.
type Summary struct {
	// Millis is the elapsed wall-clock time in milliseconds.
	Millis int64 `json:"ms" yaml:"ms"`

	// Workers is the worker count the scan ran with.
	Workers int `json:"wk" yaml:"wk"`

	// Dirs is the number of directories discovered below the root.
	Dirs int64 `json:"dirs" yaml:"dirs"`

	// Files is the number of regular files discovered.
	Files int64 `json:"files" yaml:"files"`

	// Denied counts listing failures caused by missing permissions.
	Denied int64 `json:"den" yaml:"den"`

	// Errors counts every other listing or entry failure.
	Errors int64 `json:"err" yaml:"err"`

	// Depth is the deepest nesting level visited; the root is 0.
	Depth int64 `json:"deep" yaml:"deep"`

	// FPS is files per elapsed second.
	FPS float64 `json:"fps" yaml:"fps"`

	// Score is the composite ranking metric, never negative.
	Score float64 `json:"score" yaml:"score"`
}

// Summary freezes the counters into a Summary. It must only be called once
// every worker has stopped updating the counters.
func (c *Counters) Summary(elapsed time.Duration, workers int) Summary {
	s := c.Snapshot()
	return NewSummary(elapsed.Milliseconds(), workers, s)
}

// NewSummary builds a Summary from raw counters and computes the derived metrics.
func NewSummary(millis int64, workers int, s Snapshot) Summary {
	fps := Throughput(s.Files, millis)
	return Summary{
		Millis:  millis,
		Workers: workers,
		Dirs:    s.Dirs,
		Files:   s.Files,
		Denied:  s.Denied,
		Errors:  s.Errors,
		Depth:   s.MaxDepth,
		FPS:     fps,
		Score:   Score(fps, s.MaxDepth, s.Denied, s.Errors),
	}
}

// Throughput returns files per second. Scans shorter than the timer
// resolution (0 ms) report the raw file count.
func Throughput(files, millis int64) float64 {
	if millis <= 0 {
		return float64(files)
	}
	return float64(files) / (float64(millis) / 1000.0)
}

// Score rewards fast, deep traversals and penalizes denied and failed entries.
// The result is clamped at zero.
func Score(fps float64, depth, denied, errs int64) float64 {
	bonus := math.Max(float64(depth)*depthWeight, 1.0)
	penalty := float64(denied+errs) * errorPenalty
	return math.Max(fps*bonus-penalty, 0)
}
