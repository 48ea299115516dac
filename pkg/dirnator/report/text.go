package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/jamesainslie/dirnator/pkg/dirnator/scanner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
)

// WriteText writes the map as "dir:" lines, each followed by its files
// indented four spaces and a blank line. Directories are sorted.
func WriteText(w io.Writer, m scanner.ResultMap) error {
	for _, dir := range sortedKeys(m) {
		if _, err := fmt.Fprintf(w, "%s:\n", dir); err != nil {
			return err
		}
		for _, file := range m[dir] {
			if _, err := fmt.Fprintf(w, "    %s\n", file); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteTextFile writes the text map report to path.
func WriteTextFile(path string, m scanner.ResultMap) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteText(w, m)
	})
}

// WriteBenchText writes the bench ranking: a root, runs and fast header,
// then one numbered line per record in the given order.
func WriteBenchText(w io.Writer, root string, runs int, fast bool, records []stats.Summary) error {
	if _, err := fmt.Fprintf(w, "root=%s\nruns=%d\nfast=%t\n", root, runs, fast); err != nil {
		return err
	}
	for i, r := range records {
		_, err := fmt.Fprintf(w,
			"%d. workers=%d avg_ms=%d files=%d dirs=%d files_per_sec=%.2f depth=%d score=%.2f den=%d err=%d\n",
			i+1, r.Workers, r.Millis, r.Files, r.Dirs, r.FPS, r.Depth, r.Score, r.Denied, r.Errors)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteBenchTextFile writes the bench ranking to path.
func WriteBenchTextFile(path, root string, runs int, fast bool, records []stats.Summary) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteBenchText(w, root, runs, fast, records)
	})
}

func sortedKeys(m scanner.ResultMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
