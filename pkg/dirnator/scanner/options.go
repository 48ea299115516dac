package scanner

import (
	"io/fs"
	"os"

	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
)

// ReadDirFunc lists a directory.
//
// It follows the os.ReadDir contract: a listing that cannot start returns no
// entries and an error; a listing that fails part way returns the entries read
// so far together with the error.
type ReadDirFunc func(dir string) ([]fs.DirEntry, error)

// Progress is a snapshot of a running scan.
type Progress struct {
	stats.Snapshot

	// CurrentPath is the directory most recently listed.
	CurrentPath string

	// Workers is the size of the worker pool.
	Workers int
}

// Options configures a Scanner.
type Options struct {
	// Root is the directory the scan starts from.
	Root string

	// Workers is the number of concurrent workers. Values below 1 mean 1.
	Workers int

	// ReadDir lists directories. Nil uses os.ReadDir.
	ReadDir ReadDirFunc

	// OnProgress is called periodically with scan progress.
	// It is called from worker goroutines and must be safe for concurrent use.
	OnProgress func(Progress)
}

// Validate applies defaults for unset or invalid values.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = "."
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.ReadDir == nil {
		o.ReadDir = os.ReadDir
	}
	return nil
}
