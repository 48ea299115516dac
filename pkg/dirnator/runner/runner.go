// Package runner drives the scanner for each operating mode: a single map
// scan, the averaged bench sweep over a worker ladder, and the streaming
// stress sweep.
package runner

import (
	"fmt"
	"slices"
	"sort"

	"github.com/jamesainslie/dirnator/pkg/dirnator/logging"
	"github.com/jamesainslie/dirnator/pkg/dirnator/scanner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
)

var logger = logging.Get("runner")

// ScanFunc runs one complete scan of root with the given worker count.
// scanner.Run satisfies it.
type ScanFunc func(root string, workers int) (*scanner.Result, error)

// StressRow is the summary of one stress scan tagged with its cycle.
type StressRow struct {
	// Cycle counts from 1.
	Cycle int `json:"cycle" yaml:"cycle"`

	stats.Summary `yaml:",inline"`
}

// Map runs a single scan.
func Map(root string, workers int, scan ScanFunc) (*scanner.Result, error) {
	result, err := scan(root, workers)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return result, nil
}

// BenchLadder resolves the worker counts a bench sweep visits. An explicit
// count yields a single rung; otherwise the policy ladder is sorted and
// deduplicated.
func BenchLadder(explicit *int, ladder []int) []int {
	if explicit != nil {
		return []int{max(1, *explicit)}
	}
	out := slices.Clone(ladder)
	slices.Sort(out)
	return slices.Compact(out)
}

// Bench scans root runs times for every worker count in ladder and
// averages each group. Elapsed time, throughput and score are averaged; the
// remaining counters come from the first run of the group. The result is
// sorted by ascending mean elapsed time, so the first element is the best.
func Bench(root string, ladder []int, runs int, scan ScanFunc) ([]stats.Summary, error) {
	runs = max(1, runs)
	records := make([]stats.Summary, 0, len(ladder))

	for _, workers := range ladder {
		var (
			first    stats.Summary
			sumMilli int64
			sumFPS   float64
			sumScore float64
		)

		for i := range runs {
			result, err := scan(root, workers)
			if err != nil {
				return nil, fmt.Errorf("bench scan workers=%d run=%d: %w", workers, i+1, err)
			}
			s := result.Summary
			if i == 0 {
				first = s
			}
			sumMilli += s.Millis
			sumFPS += s.FPS
			sumScore += s.Score
		}

		avg := first
		avg.Millis = sumMilli / int64(runs)
		avg.FPS = sumFPS / float64(runs)
		avg.Score = sumScore / float64(runs)
		records = append(records, avg)

		logger.Debug("bench rung complete", "workers", workers, "runs", runs, "avg_ms", avg.Millis)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Millis < records[j].Millis
	})

	return records, nil
}

// Stress runs every ladder rung once per cycle, in ladder order, and hands
// each row to emit as soon as its scan completes. emit may be nil.
func Stress(root string, cycles int, ladder []int, scan ScanFunc, emit func(StressRow)) ([]StressRow, error) {
	rows := make([]StressRow, 0, max(0, cycles)*len(ladder))

	for cycle := 1; cycle <= cycles; cycle++ {
		for _, workers := range ladder {
			result, err := scan(root, workers)
			if err != nil {
				return rows, fmt.Errorf("stress scan cycle=%d workers=%d: %w", cycle, workers, err)
			}

			row := StressRow{Cycle: cycle, Summary: result.Summary}
			rows = append(rows, row)
			if emit != nil {
				emit(row)
			}
		}
	}

	return rows, nil
}
