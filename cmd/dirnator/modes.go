package main

import (
	"fmt"
	"io"

	"github.com/jamesainslie/dirnator/pkg/dirnator/config"
	"github.com/jamesainslie/dirnator/pkg/dirnator/diskprobe"
	"github.com/jamesainslie/dirnator/pkg/dirnator/history"
	"github.com/jamesainslie/dirnator/pkg/dirnator/logging"
	"github.com/jamesainslie/dirnator/pkg/dirnator/report"
	"github.com/jamesainslie/dirnator/pkg/dirnator/runner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/scanner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
	"github.com/jamesainslie/dirnator/pkg/dirnator/tuner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// modes runs one resolved invocation and prints its summary lines.
type modes struct {
	run   config.Run
	hw    types.Hardware
	cores int
	ts    int64
	out   io.Writer

	// status shows scan progress on a terminal; nil elsewhere.
	status *statusLine

	// rec collects what the run produced; nil when no record could be made.
	rec *history.Record

	// scan reports progress to status unless replaced in tests.
	scan runner.ScanFunc

	log *logging.Logger
}

func (m *modes) execute() error {
	if m.scan == nil {
		m.scan = runner.WithProgress(m.status.update)
	}
	m.log = logger.With("mode", m.run.Mode.String())
	if m.rec == nil {
		m.rec = &history.Record{}
	}

	m.log.Info("run starting", "root", m.run.Root, "out", m.run.Out)

	switch m.run.Mode {
	case types.ModeBench:
		return m.bench()
	case types.ModeStress:
		return m.stress()
	case types.ModeDisk:
		return m.disk()
	default:
		return m.mapTree()
	}
}

func (m *modes) mapTree() error {
	workers := tuner.Recommend(m.cores, m.run.Workers, m.run.Fast)

	res, err := runner.Map(m.run.Root, workers, m.scan)
	m.status.clear()
	if err != nil {
		return err
	}

	files, err := report.WriteMap(m.run.Out, m.run.Name, m.ts, m.run.Format, m.run.Root, m.hw, res)
	if err != nil {
		return fmt.Errorf("writing map reports: %w", err)
	}

	s := res.Summary
	m.rec.Stats = []stats.Summary{s}
	m.rec.Reports = files

	if m.run.Verify {
		m.verify(s)
	}

	fmt.Fprintf(m.out,
		"scan done root=%s workers=%d ms=%d dirs=%d files=%d depth=%d fps=%.2f score=%.2f den=%d err=%d\n",
		m.run.Root, s.Workers, s.Millis, s.Dirs, s.Files, s.Depth, s.FPS, s.Score, s.Denied, s.Errors)
	return nil
}

// verify compares a map scan against an independent walk. Disagreement is
// reported, never fatal: the tree may change between the two walks.
func (m *modes) verify(s stats.Summary) {
	census, err := scanner.Census(m.run.Root)
	if err != nil {
		m.log.Warn("census walk failed", "root", m.run.Root, "error", err)
		fmt.Fprintf(m.out, "verify skipped: %v\n", err)
		return
	}

	if scanner.Matches(s, census) {
		m.log.Info("census agrees", "dirs", census.Dirs, "files", census.Files, "depth", census.MaxDepth)
		fmt.Fprintln(m.out, "verify ok")
		return
	}

	m.log.Warn("census mismatch",
		"scan_dirs", s.Dirs, "census_dirs", census.Dirs,
		"scan_files", s.Files, "census_files", census.Files,
		"scan_depth", s.Depth, "census_depth", census.MaxDepth,
	)
	fmt.Fprintf(m.out, "verify mismatch dirs=%d/%d files=%d/%d depth=%d/%d\n",
		s.Dirs, census.Dirs, s.Files, census.Files, s.Depth, census.MaxDepth)
}

func (m *modes) bench() error {
	_, ladder := tuner.Ladder(m.cores, m.run.Preset, m.run.Fast)
	ladder = runner.BenchLadder(m.run.Workers, ladder)

	records, err := runner.Bench(m.run.Root, ladder, m.run.Runs, m.scan)
	m.status.clear()
	if err != nil {
		return err
	}

	files, err := report.WriteBench(m.run.Out, m.ts, m.run.Root, m.run.Runs, m.run.Fast, m.hw, records)
	if err != nil {
		return fmt.Errorf("writing bench reports: %w", err)
	}

	m.rec.Stats = records
	m.rec.Reports = files

	fmt.Fprintf(m.out, "benchmark ready: %s\n", files[0])
	fmt.Fprintf(m.out, "benchmark json: %s\n", files[1])
	if len(records) > 0 {
		b := records[0]
		fmt.Fprintf(m.out, "best workers=%d avg_ms=%d fps=%.2f score=%.2f\n", b.Workers, b.Millis, b.FPS, b.Score)
	}
	return nil
}

func (m *modes) stress() error {
	cycles, ladder := tuner.Ladder(m.cores, m.run.Preset, m.run.Fast)

	rows, err := runner.Stress(m.run.Root, cycles, ladder, m.scan, func(row runner.StressRow) {
		m.status.clear()
		fmt.Fprintf(m.out, "stress cycle %d workers %d -> %d ms score %.2f\n",
			row.Cycle, row.Workers, row.Millis, row.Score)
	})
	m.status.clear()
	if err != nil {
		return err
	}

	summaries := make([]stats.Summary, len(rows))
	for i, row := range rows {
		summaries[i] = row.Summary
	}

	js, err := report.WriteStress(m.run.Out, m.ts, m.run.Root, m.hw, summaries)
	if err != nil {
		return fmt.Errorf("writing stress report: %w", err)
	}

	m.rec.Stats = summaries
	m.rec.Reports = []string{js}

	fmt.Fprintf(m.out, "stress report: %s\n", js)
	return nil
}

func (m *modes) disk() error {
	res, err := diskprobe.Probe(diskprobe.Options{
		Dir:        m.run.Out,
		BlobMB:     diskprobe.DefaultBlobMB,
		SmallFiles: diskprobe.DefaultSmallFiles,
	})
	if err != nil {
		return fmt.Errorf("disk probe: %w", err)
	}

	js, err := report.WriteDisk(m.run.Out, m.ts, res)
	if err != nil {
		return fmt.Errorf("writing disk report: %w", err)
	}

	m.rec.Root = ""
	m.rec.Disk = &res
	m.rec.Reports = []string{js}

	fmt.Fprintf(m.out, "disk json: %s write=%.2fMB/s read=%.2fMB/s create_ops=%.2f/s delete_ops=%.2f/s\n",
		js, res.WriteMBs, res.ReadMBs, res.CreateOps, res.DeleteOps)
	return nil
}
