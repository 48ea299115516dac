package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
)

func benchReport() *Report {
	hw := testHW
	return &Report{
		Source:   "out/dirnator_bench_1.json",
		Mode:     "bench",
		Root:     "/srv",
		Hardware: &hw,
		Stats: []stats.Summary{
			{Millis: 11, Workers: 16, Dirs: 1200, Files: 45000, FPS: 4090909.09, Depth: 9, Score: 7363636.36},
			{Millis: 19, Workers: 8, Dirs: 1200, Files: 45000, FPS: 2368421.05, Depth: 9, Score: 4263157.89, Denied: 3},
		},
	}
}

func diskReport() *Report {
	return &Report{
		Source: "out/dirnator_disk_1.json",
		Mode:   "disk",
		Disk:   &DiskStats{Path: "out", WriteMBs: 812.5, ReadMBs: 2100, CreateOps: 9000, DeleteOps: 12000, Files: 400, TotalMB: 64},
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "plain", "pretty", "yaml"}, Available())

	_, err := Get("csv")
	assert.Error(t, err)

	r := NewRegistry()
	r.Register("x", func() Formatter { return &PlainFormatter{} })
	f, err := r.Get("x")
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, f)
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, benchReport()))

	out := buf.String()
	assert.Contains(t, out, "mode bench")
	assert.Contains(t, out, "root /srv")
	assert.Contains(t, out, "os=linux arch=amd64 cores=8")
	assert.Contains(t, out, "WORKERS")
	assert.Contains(t, out, "4090909.09")
	assert.NotContains(t, out, "\x1b[", "plain output has no escape codes")
}

func TestPlainFormatterDisk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, diskReport()))

	out := buf.String()
	assert.Contains(t, out, "write_mb_s   812.50")
	assert.Contains(t, out, "total_mb     64")
}

func TestPrettyFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, benchReport()))

	out := buf.String()
	assert.Contains(t, out, "/srv")
	assert.Contains(t, out, "45,000")
	assert.Contains(t, out, "Best:")
	assert.Contains(t, out, "16 workers, 11 ms avg")
}

func TestPrettyFormatterBars(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, benchReport()))

	out := buf.String()
	full := strings.Repeat("█", barWidth)
	// 19 ms is the slowest row and 16 workers has the best score.
	assert.Equal(t, 2, strings.Count(out, full), out)
	assert.Contains(t, out, "ms")
	assert.Contains(t, out, "score")
}

func TestBarLength(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		maxV float64
		want int
	}{
		{"scaled", 11, 19, 17},
		{"maximum", 19, 19, barWidth},
		{"zero max", 0, 0, 0},
		{"zero max positive value", 0.5, 0, 15},
		{"tiny value", 1, 1000, 1},
		{"zero value", 0, 19, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, barLength(tt.v, tt.maxV))
		})
	}
}

func TestPrettyFormatterDiskAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, diskReport()))
	assert.Contains(t, buf.String(), "812.50 MB/s")
	assert.Contains(t, buf.String(), "64 MiB blob")

	buf.Reset()
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, &Report{Mode: "stress"}))
	assert.Contains(t, buf.String(), "No scans recorded")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, benchReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "bench", decoded["mode"])
	assert.Len(t, decoded["stats"], 2)
	assert.NotContains(t, decoded, "disk")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(&buf, diskReport()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "disk", decoded["mode"])
	disk, ok := decoded["disk"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 400, disk["files"])
}
