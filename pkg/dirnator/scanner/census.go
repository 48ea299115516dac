package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
)

// Census counts the tree under root with fastwalk as an independent
// reference for a Scan of the same tree. Symlinks are not followed.
func Census(root string) (stats.Snapshot, error) {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); err != nil {
		return stats.Snapshot{}, fmt.Errorf("accessing root %q: %w", root, err)
	}

	var c stats.Counters
	conf := fastwalk.Config{
		Follow: false,
	}

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				c.Denied.Add(1)
			} else {
				c.Errors.Add(1)
			}
			return nil //nolint:nilerr // failures are counted, the walk continues
		}

		typ := d.Type()
		switch {
		case typ.IsDir():
			c.ObserveDepth(int64(depthOf(root, path)))
			if path != root {
				c.Dirs.Add(1)
			}
		case typ.IsRegular():
			c.Files.Add(1)
		}
		return nil
	})
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("walking %q: %w", root, err)
	}

	return c.Snapshot(), nil
}

// depthOf returns the number of path components of path below root.
func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Matches reports whether a scan summary agrees with a census on the
// directory, file and depth counts.
func Matches(s stats.Summary, c stats.Snapshot) bool {
	return s.Dirs == c.Dirs && s.Files == c.Files && s.Depth == c.MaxDepth
}
