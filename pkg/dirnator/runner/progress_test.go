package runner

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dirnator/pkg/dirnator/scanner"
)

func TestWithProgressReportsUpdates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "f"), []byte("x"), 0o644))

	var (
		mu      sync.Mutex
		updates []scanner.Progress
	)
	scan := WithProgress(func(p scanner.Progress) {
		mu.Lock()
		updates = append(updates, p)
		mu.Unlock()
	})

	res, err := Map(root, 2, scan)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Summary.Dirs)
	assert.Equal(t, int64(1), res.Summary.Files)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, updates, "the first directory is always reported")
	assert.Equal(t, 2, updates[0].Workers)
	assert.NotEmpty(t, updates[0].CurrentPath)
}

func TestWithProgressNilCallback(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f"), []byte("x"), 0o644))

	res, err := WithProgress(nil)(root, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Summary.Files)
}

func TestWithProgressMissingRoot(t *testing.T) {
	_, err := WithProgress(nil)(filepath.Join(t.TempDir(), "missing"), 1)
	assert.Error(t, err)
}
