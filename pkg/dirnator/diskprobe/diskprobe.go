// Package diskprobe measures raw disk throughput under an output
// directory: a sequential blob write and read, then a burst of small file
// creations and deletions. It is independent of the tree scanner.
package diskprobe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jamesainslie/dirnator/pkg/dirnator/logging"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

var logger = logging.Get("diskprobe")

// Defaults for a probe run.
const (
	DefaultBlobMB     = 64
	DefaultSmallFiles = 400

	blockSize     = int(types.MiB)
	smallFileSize = int(types.KiB)
	blobFill      = 0xAB
	smallFill     = 0x01
)

// Options configures a probe.
type Options struct {
	// Dir is the directory the scratch directory is created in.
	Dir string

	// BlobMB is the size of the sequential blob in MiB.
	BlobMB int

	// SmallFiles is the number of 1 KiB files created and deleted.
	SmallFiles int
}

// Validate applies defaults for unset or invalid values.
func (o *Options) Validate() error {
	if o.Dir == "" {
		return errors.New("probe directory is required")
	}
	if o.BlobMB < 1 {
		o.BlobMB = DefaultBlobMB
	}
	if o.SmallFiles < 1 {
		o.SmallFiles = DefaultSmallFiles
	}
	return nil
}

// Result holds the measured rates.
type Result struct {
	// Path is the directory the probe ran under.
	Path string

	WriteMBs  float64
	ReadMBs   float64
	CreateOps float64
	DeleteOps float64

	Files   int
	TotalMB int
}

// Probe runs the four phases in a scratch directory named
// dirnator_disk_<unix-secs> under opts.Dir and removes it afterwards.
// Each phase is timed in whole milliseconds, never less than one.
func Probe(opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	base := filepath.Join(opts.Dir, fmt.Sprintf("dirnator_disk_%d", time.Now().Unix()))
	if err := os.MkdirAll(base, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating probe directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(base); err != nil {
			logger.Warn("removing probe directory", "path", base, "error", err)
		}
	}()

	blob := filepath.Join(base, "blob.bin")

	writeMs, err := timed(func() error { return writeBlob(blob, opts.BlobMB) })
	if err != nil {
		return Result{}, err
	}

	readMs, err := timed(func() error { return readBlob(blob) })
	if err != nil {
		return Result{}, err
	}

	createMs, err := timed(func() error { return createSmall(base, opts.SmallFiles) })
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	failed := deleteSmall(base, opts.SmallFiles)
	deleteMs := sinceMs(start)
	if failed > 0 {
		logger.Warn("small files not deleted", "path", base, "count", failed)
	}

	res := Result{
		Path:      opts.Dir,
		WriteMBs:  rate(opts.BlobMB, writeMs),
		ReadMBs:   rate(opts.BlobMB, readMs),
		CreateOps: rate(opts.SmallFiles, createMs),
		DeleteOps: rate(opts.SmallFiles, deleteMs),
		Files:     opts.SmallFiles,
		TotalMB:   opts.BlobMB,
	}

	logger.Info("disk probe complete",
		"path", opts.Dir,
		"blob", types.FormatSize(int64(opts.BlobMB)*types.MiB),
		"write_ms", writeMs,
		"read_ms", readMs,
		"create_ms", createMs,
		"delete_ms", deleteMs,
	)

	return res, nil
}

// timed runs fn and returns its duration in milliseconds, at least 1.
func timed(fn func() error) (int64, error) {
	start := time.Now()
	if err := fn(); err != nil {
		return 0, err
	}
	return sinceMs(start), nil
}

// sinceMs returns the whole milliseconds since start, at least 1.
func sinceMs(start time.Time) int64 {
	return max(1, time.Since(start).Milliseconds())
}

func rate(units int, ms int64) float64 {
	return float64(units) / (float64(ms) / 1000.0)
}

func writeBlob(path string, mb int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating blob: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing blob: %w", cerr)
		}
	}()

	block := bytes.Repeat([]byte{blobFill}, blockSize)
	for range mb {
		if _, err := f.Write(block); err != nil {
			return fmt.Errorf("writing blob: %w", err)
		}
	}
	return nil
}

func readBlob(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening blob: %w", err)
	}
	defer f.Close()

	buf := make([]byte, blockSize)
	for {
		_, err := f.Read(buf)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading blob: %w", err)
		}
	}
}

func smallName(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("t%d.dat", i))
}

func createSmall(dir string, n int) error {
	data := bytes.Repeat([]byte{smallFill}, smallFileSize)
	for i := range n {
		if err := os.WriteFile(smallName(dir, i), data, 0o644); err != nil {
			return fmt.Errorf("creating small file: %w", err)
		}
	}
	return nil
}

// deleteSmall removes the small files and returns how many could not be
// removed. Failures do not stop the phase.
func deleteSmall(dir string, n int) int {
	failed := 0
	for i := range n {
		if err := os.Remove(smallName(dir, i)); err != nil {
			failed++
		}
	}
	return failed
}
