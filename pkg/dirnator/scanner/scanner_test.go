package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mkTree creates directories and empty files under root. Paths ending in a
// slash are directories.
func mkTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}
}

// synthTree builds a tree with the given branching factor and depth and
// places filesPerDir files in every directory. It returns the number of
// directories below root and the number of files.
func synthTree(t *testing.T, root string, branching, depth, filesPerDir int) (dirs, files int64) {
	t.Helper()
	var build func(dir string, level int)
	build = func(dir string, level int) {
		for i := range filesPerDir {
			require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%d", i)), nil, 0o644))
			files++
		}
		if level == depth {
			return
		}
		for i := range branching {
			sub := filepath.Join(dir, fmt.Sprintf("d%d", i))
			require.NoError(t, os.Mkdir(sub, 0o755))
			dirs++
			build(sub, level+1)
		}
	}
	build(root, 0)
	return dirs, files
}

func sortedMap(m ResultMap) ResultMap {
	out := make(ResultMap, len(m))
	for k, v := range m {
		files := make([]string, len(v))
		copy(files, v)
		sort.Strings(files)
		out[k] = files
	}
	return out
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		wantRoot    string
		wantWorkers int
	}{
		{name: "empty options", opts: Options{}, wantRoot: ".", wantWorkers: 1},
		{name: "negative workers", opts: Options{Workers: -3}, wantRoot: ".", wantWorkers: 1},
		{name: "valid options unchanged", opts: Options{Root: "/tmp", Workers: 6}, wantRoot: "/tmp", wantWorkers: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.opts.Validate())
			assert.Equal(t, tt.wantRoot, tt.opts.Root)
			assert.Equal(t, tt.wantWorkers, tt.opts.Workers)
			assert.NotNil(t, tt.opts.ReadDir)
		})
	}
}

func TestScanSmallTree(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "a/f1", "a/f2", "b/")

	result, err := Run(root, 1)
	require.NoError(t, err)

	want := ResultMap{
		root:                     {},
		filepath.Join(root, "a"): {filepath.Join(root, "a", "f1"), filepath.Join(root, "a", "f2")},
		filepath.Join(root, "b"): {},
	}
	assert.Equal(t, want, sortedMap(result.Map))

	s := result.Summary
	assert.Equal(t, int64(2), s.Dirs)
	assert.Equal(t, int64(2), s.Files)
	assert.Equal(t, int64(0), s.Denied)
	assert.Equal(t, int64(0), s.Errors)
	assert.Equal(t, int64(1), s.Depth)
	assert.Equal(t, 1, s.Workers)
	assert.GreaterOrEqual(t, s.Score, 0.0)
}

func TestScanEmptyRoot(t *testing.T) {
	root := t.TempDir()

	result, err := Run(root, 4)
	require.NoError(t, err)

	assert.Equal(t, ResultMap{root: {}}, result.Map)
	assert.Equal(t, int64(0), result.Summary.Dirs)
	assert.Equal(t, int64(0), result.Summary.Files)
	assert.Equal(t, int64(0), result.Summary.Depth)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "nope"), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestScanFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	result, err := Run(file, 2)
	require.NoError(t, err)

	assert.Empty(t, result.Map)
	assert.Equal(t, int64(1), result.Summary.Errors)
	assert.Equal(t, int64(0), result.Summary.Files)
}

func TestScanInvariants(t *testing.T) {
	tests := []struct {
		name      string
		branching int
		depth     int
		files     int
		workers   int
	}{
		{name: "chain", branching: 1, depth: 12, files: 1, workers: 4},
		{name: "wide", branching: 30, depth: 1, files: 2, workers: 8},
		{name: "bushy", branching: 3, depth: 4, files: 3, workers: 16},
		{name: "single worker", branching: 2, depth: 5, files: 1, workers: 1},
		{name: "more workers than dirs", branching: 1, depth: 2, files: 0, workers: 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			wantDirs, wantFiles := synthTree(t, root, tt.branching, tt.depth, tt.files)

			result, err := Run(root, tt.workers)
			require.NoError(t, err)

			s := result.Summary
			assert.Equal(t, wantDirs, s.Dirs)
			assert.Equal(t, wantFiles, s.Files)
			assert.Equal(t, int64(tt.depth), s.Depth)
			assert.Equal(t, s.Files, result.Map.FileCount())
			assert.LessOrEqual(t, int64(len(result.Map)), s.Dirs+1)
			assert.Len(t, result.Map, int(wantDirs)+1)
		})
	}
}

func TestScanIdempotent(t *testing.T) {
	root := t.TempDir()
	synthTree(t, root, 3, 3, 2)

	first, err := Run(root, 3)
	require.NoError(t, err)
	second, err := Run(root, 7)
	require.NoError(t, err)

	assert.Equal(t, sortedMap(first.Map), sortedMap(second.Map))
	assert.Equal(t, first.Summary.Dirs, second.Summary.Dirs)
	assert.Equal(t, first.Summary.Files, second.Summary.Files)
}

func TestScanTerminatesWithSlowListings(t *testing.T) {
	root := t.TempDir()
	wantDirs, wantFiles := synthTree(t, root, 4, 3, 1)

	var listings atomic.Int64
	slow := func(dir string) ([]fs.DirEntry, error) {
		listings.Add(1)
		time.Sleep(time.Millisecond)
		return os.ReadDir(dir)
	}

	for _, workers := range []int{1, 2, 5, 32} {
		listings.Store(0)
		done := make(chan *Result, 1)
		go func() {
			r, err := New(Options{Root: root, Workers: workers, ReadDir: slow}).Scan()
			assert.NoError(t, err)
			done <- r
		}()

		select {
		case r := <-done:
			assert.Equal(t, wantDirs, r.Summary.Dirs, "workers=%d", workers)
			assert.Equal(t, wantFiles, r.Summary.Files, "workers=%d", workers)
			assert.Equal(t, wantDirs+1, listings.Load(), "every directory is listed exactly once")
		case <-time.After(30 * time.Second):
			t.Fatalf("scan with %d workers did not terminate", workers)
		}
	}
}

func TestScannerReusable(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "x/y/z", "w")

	s := New(Options{Root: root, Workers: 2})
	first, err := s.Scan()
	require.NoError(t, err)
	second, err := s.Scan()
	require.NoError(t, err)

	assert.Equal(t, first.Summary.Files, second.Summary.Files)
	assert.Equal(t, first.Summary.Dirs, second.Summary.Dirs)
}

// brokenEntry is a directory entry whose type is unknown and whose Info fails.
type brokenEntry struct{ name string }

func (b brokenEntry) Name() string               { return b.name }
func (b brokenEntry) IsDir() bool                { return false }
func (b brokenEntry) Type() fs.FileMode          { return fs.ModeIrregular }
func (b brokenEntry) Info() (fs.FileInfo, error) { return nil, errors.New("stat failed") }

func TestScanInjectedFailures(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "ok/f1", "denied/f2", "broken/f3", "partial/f4", "odd/")

	readDir := func(dir string) ([]fs.DirEntry, error) {
		switch filepath.Base(dir) {
		case "denied":
			return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrPermission}
		case "broken":
			return nil, errors.New("i/o error")
		case "partial":
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, err
			}
			return entries, errors.New("listing interrupted")
		case "odd":
			return []fs.DirEntry{brokenEntry{name: "ghost"}}, nil
		}
		return os.ReadDir(dir)
	}

	result, err := New(Options{Root: root, Workers: 3, ReadDir: readDir}).Scan()
	require.NoError(t, err)

	s := result.Summary
	assert.Equal(t, int64(5), s.Dirs)
	assert.Equal(t, int64(1), s.Denied)
	// broken listing, partial listing and the entry whose Info failed
	assert.Equal(t, int64(3), s.Errors)
	assert.Equal(t, int64(2), s.Files, "files under ok and partial")

	assert.NotContains(t, result.Map, filepath.Join(root, "denied"))
	assert.NotContains(t, result.Map, filepath.Join(root, "broken"))
	assert.Equal(t, []string{filepath.Join(root, "partial", "f4")}, result.Map[filepath.Join(root, "partial")])
	assert.Equal(t, []string{}, result.Map[filepath.Join(root, "odd")])
	assert.Equal(t, s.Files, result.Map.FileCount())
}

func TestScanPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	mkTree(t, root, "open/f1", "locked/secret")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result, err := Run(root, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Summary.Dirs)
	assert.Equal(t, int64(1), result.Summary.Files)
	assert.Equal(t, int64(1), result.Summary.Denied)
	assert.NotContains(t, result.Map, locked)
}

func TestScanIgnoresSymlinks(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "real/f1")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "real", "f1"), filepath.Join(root, "flink")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	result, err := Run(root, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Summary.Dirs)
	assert.Equal(t, int64(1), result.Summary.Files)
}

func TestScanProgress(t *testing.T) {
	root := t.TempDir()
	synthTree(t, root, 2, 3, 1)

	var calls atomic.Int64
	_, err := New(Options{
		Root:    root,
		Workers: 2,
		OnProgress: func(p Progress) {
			calls.Add(1)
			assert.Equal(t, 2, p.Workers)
			assert.NotEmpty(t, p.CurrentPath)
		},
	}).Scan()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, calls.Load(), int64(1))
}

func TestCensusAgreesWithScan(t *testing.T) {
	root := t.TempDir()
	synthTree(t, root, 3, 3, 2)
	mkTree(t, root, "extra/deeper/still/leaf")

	result, err := Run(root, 4)
	require.NoError(t, err)

	census, err := Census(root)
	require.NoError(t, err)

	assert.Equal(t, result.Summary.Dirs, census.Dirs)
	assert.Equal(t, result.Summary.Files, census.Files)
	assert.Equal(t, result.Summary.Depth, census.MaxDepth)
	assert.True(t, Matches(result.Summary, census))
}

func TestCensusMissingRoot(t *testing.T) {
	_, err := Census(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDepthOf(t *testing.T) {
	root := filepath.FromSlash("/a/b")
	assert.Equal(t, 0, depthOf(root, root))
	assert.Equal(t, 1, depthOf(root, filepath.Join(root, "c")))
	assert.Equal(t, 3, depthOf(root, filepath.Join(root, "c", "d", "e")))
}
