// Package report writes and reads dirnator's report files and renders
// loaded reports for the terminal.
//
// Map scans produce a text listing, a binary map and a JSON summary; bench,
// stress and disk runs produce JSON (and, for bench, a text ranking). The
// formatter registry renders any loaded report:
//
//	r, err := report.Load("out/dirnator_bench_1700000000.json")
//	if err != nil {
//	    return err
//	}
//	f, err := report.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := f.Format(&buf, r); err != nil {
//	    return err
//	}
package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jamesainslie/dirnator/pkg/dirnator/logging"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// logger is the package-level logger for report operations.
var logger = logging.Get("report")

// Report is a loaded report file in a shape every formatter understands.
type Report struct {
	// Source is the file the report was loaded from.
	Source string `json:"source" yaml:"source"`

	// Mode is map, bench, stress or disk.
	Mode string `json:"mode" yaml:"mode"`

	// Root is the scanned tree; empty for disk reports and binary maps.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// Hardware is absent for disk reports and binary maps.
	Hardware *types.Hardware `json:"hw,omitempty" yaml:"hw,omitempty"`

	// Stats holds one row per scan or averaged bench rung.
	Stats []stats.Summary `json:"stats,omitempty" yaml:"stats,omitempty"`

	// Disk is set for disk reports.
	Disk *DiskStats `json:"disk,omitempty" yaml:"disk,omitempty"`

	// Directories is the number of map entries in a binary map report.
	Directories int `json:"directories,omitempty" yaml:"directories,omitempty"`
}

// DiskStats are the rates measured by a disk probe.
type DiskStats struct {
	Path      string  `json:"path" yaml:"path"`
	WriteMBs  float64 `json:"write_mb_s" yaml:"write_mb_s"`
	ReadMBs   float64 `json:"read_mb_s" yaml:"read_mb_s"`
	CreateOps float64 `json:"create_ops_s" yaml:"create_ops_s"`
	DeleteOps float64 `json:"delete_ops_s" yaml:"delete_ops_s"`
	Files     int     `json:"files" yaml:"files"`
	TotalMB   int     `json:"total_mb" yaml:"total_mb"`
}

// Formatter is the interface that all report formatters must implement.
type Formatter interface {
	// Format writes the rendered report to the buffer.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory, replacing any with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// FileName returns out/dirnator_<tag>_<ts>.<ext>.
func FileName(out, tag string, ts int64, ext string) string {
	return filepath.Join(out, fmt.Sprintf("dirnator_%s_%d.%s", tag, ts, ext))
}

// writeFile creates path and streams fn's output into it through a buffer.
// A failed flush or close is reported like a failed write.
func writeFile(path string, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}

	logger.Debug("report written", "path", path)
	return nil
}
