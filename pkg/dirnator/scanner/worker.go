package scanner

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// entryKind is the classification of one directory entry.
type entryKind int

const (
	kindSkip entryKind = iota // symlinks, devices, sockets, pipes
	kindDir
	kindFile
)

// work is the worker loop: take a directory, list it, mark it finished.
// It returns once the queue reports the scan is done.
func (w *walk) work() {
	for {
		task, ok := w.queue.take()
		if !ok {
			return
		}

		w.processDirectory(task)
		w.queue.finish()
	}
}

// processDirectory lists one directory. Subdirectories are queued before
// the caller marks the task finished, so no work is lost to an early done.
func (w *walk) processDirectory(task Task) {
	w.counters.ObserveDepth(int64(task.Depth))

	entries, err := w.opts.ReadDir(task.Path)
	if err != nil {
		w.recordFailure(err)
		if len(entries) == 0 {
			// The listing never produced anything; the subtree stays undiscovered.
			return
		}
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		fullPath := filepath.Join(task.Path, entry.Name())

		kind, err := classify(entry)
		if err != nil {
			w.counters.Errors.Add(1)
			continue
		}

		switch kind {
		case kindDir:
			w.counters.Dirs.Add(1)
			w.queue.push(Task{Path: fullPath, Depth: task.Depth + 1})
		case kindFile:
			w.counters.Files.Add(1)
			files = append(files, fullPath)
		case kindSkip:
		}
	}

	w.store(task.Path, files)
	w.reportProgress(task.Path)
}

// recordFailure counts a listing failure in exactly one bucket.
func (w *walk) recordFailure(err error) {
	if errors.Is(err, fs.ErrPermission) {
		w.counters.Denied.Add(1)
		return
	}
	w.counters.Errors.Add(1)
}

// classify determines the kind of an entry without following symlinks.
// Entries whose type the listing could not report are resolved with Info;
// a failure there is returned.
func classify(entry fs.DirEntry) (entryKind, error) {
	typ := entry.Type()
	if typ&fs.ModeIrregular != 0 {
		info, err := entry.Info()
		if err != nil {
			return kindSkip, err
		}
		typ = info.Mode().Type()
	}

	switch {
	case typ.IsDir():
		return kindDir, nil
	case typ.IsRegular():
		return kindFile, nil
	default:
		return kindSkip, nil
	}
}
