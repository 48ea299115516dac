package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dirnator/pkg/dirnator/config"
	"github.com/jamesainslie/dirnator/pkg/dirnator/history"
	"github.com/jamesainslie/dirnator/pkg/dirnator/scanner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// fixedScan reports workers*10 ms and a score equal to the worker count.
func fixedScan(_ string, workers int) (*scanner.Result, error) {
	return &scanner.Result{
		Map: scanner.ResultMap{"/r": nil},
		Summary: stats.Summary{
			Millis:  int64(workers * 10),
			Workers: workers,
			Dirs:    4,
			Files:   40,
			Score:   float64(workers),
		},
	}, nil
}

func newModes(t *testing.T, mode types.Mode, preset types.Preset) (*modes, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &modes{
		run: config.Run{
			Mode:   mode,
			Root:   "/r",
			Out:    t.TempDir(),
			Format: types.FormatBoth,
			Preset: preset,
			Runs:   1,
			Name:   "run",
		},
		hw:    types.Hardware{OS: "linux", Arch: "amd64", Cores: 4, RAMMB: 8000},
		cores: 4,
		ts:    1700000000,
		out:   &out,
		rec:   &history.Record{},
		scan:  fixedScan,
	}, &out
}

func TestModesStressStreamsRows(t *testing.T) {
	m, out := newModes(t, types.ModeStress, types.PresetHard)
	require.NoError(t, m.execute())

	// hard on 4 cores: 3 cycles over [4, 8, 12]
	want := "" +
		"stress cycle 1 workers 4 -> 40 ms score 4.00\n" +
		"stress cycle 1 workers 8 -> 80 ms score 8.00\n" +
		"stress cycle 1 workers 12 -> 120 ms score 12.00\n" +
		"stress cycle 2 workers 4 -> 40 ms score 4.00\n"
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte(want)), out.String())
	assert.Len(t, m.rec.Stats, 9)
	assert.Len(t, m.rec.Reports, 1)
}

func TestModesBenchBestFirst(t *testing.T) {
	m, out := newModes(t, types.ModeBench, types.PresetBalanced)
	require.NoError(t, m.execute())

	// balanced on 4 cores: [2, 4, 8]; fewer workers is faster with fixedScan
	assert.Contains(t, out.String(), "best workers=2 avg_ms=20 fps=0.00 score=2.00")
	require.Len(t, m.rec.Stats, 3)
	assert.Equal(t, 2, m.rec.Stats[0].Workers)
	assert.Len(t, m.rec.Reports, 2)
}

func TestModesMapUsesRecommendation(t *testing.T) {
	m, out := newModes(t, types.ModeMap, types.PresetBalanced)
	m.run.Fast = true
	require.NoError(t, m.execute())

	assert.Contains(t, out.String(), "scan done root=/r workers=8 ms=80 dirs=4 files=40")
	assert.Len(t, m.rec.Reports, 3)
}

func TestModesScanFailure(t *testing.T) {
	m, _ := newModes(t, types.ModeMap, types.PresetBalanced)
	m.scan = func(string, int) (*scanner.Result, error) {
		return nil, errors.New("boom")
	}

	err := m.execute()
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Empty(t, m.rec.Reports)
}
