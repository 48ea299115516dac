package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jamesainslie/dirnator/pkg/dirnator/diskprobe"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// Fixed2 is a float encoded in JSON with exactly two decimals.
type Fixed2 float64

// MarshalJSON implements json.Marshaler.
func (f Fixed2) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(f), 'f', 2, 64)), nil
}

// statRow is one summary in the JSON report.
type statRow struct {
	Millis  int64  `json:"ms"`
	Workers int    `json:"wk"`
	Dirs    int64  `json:"dirs"`
	Files   int64  `json:"files"`
	Denied  int64  `json:"den"`
	Errors  int64  `json:"err"`
	Depth   int64  `json:"deep"`
	FPS     Fixed2 `json:"fps"`
	Score   Fixed2 `json:"score"`
}

// Document is the JSON report for map, bench and stress runs.
type Document struct {
	Mode     string         `json:"mode"`
	Root     string         `json:"root"`
	Hardware types.Hardware `json:"hw"`
	Stats    []statRow      `json:"stats"`
}

// diskDocument is the JSON report for disk runs.
type diskDocument struct {
	Mode      string `json:"mode"`
	Path      string `json:"path"`
	WriteMBs  Fixed2 `json:"write_mb_s"`
	ReadMBs   Fixed2 `json:"read_mb_s"`
	CreateOps Fixed2 `json:"create_ops_s"`
	DeleteOps Fixed2 `json:"delete_ops_s"`
	Files     int    `json:"files"`
	TotalMB   int    `json:"total_mb"`
}

// NewDocument builds the JSON report for a run.
func NewDocument(mode types.Mode, root string, hw types.Hardware, summaries []stats.Summary) Document {
	rows := make([]statRow, len(summaries))
	for i, s := range summaries {
		rows[i] = statRow{
			Millis:  s.Millis,
			Workers: s.Workers,
			Dirs:    s.Dirs,
			Files:   s.Files,
			Denied:  s.Denied,
			Errors:  s.Errors,
			Depth:   s.Depth,
			FPS:     Fixed2(s.FPS),
			Score:   Fixed2(s.Score),
		}
	}
	return Document{Mode: mode.String(), Root: root, Hardware: hw, Stats: rows}
}

func newDiskDocument(r diskprobe.Result) diskDocument {
	return diskDocument{
		Mode:      types.ModeDisk.String(),
		Path:      r.Path,
		WriteMBs:  Fixed2(r.WriteMBs),
		ReadMBs:   Fixed2(r.ReadMBs),
		CreateOps: Fixed2(r.CreateOps),
		DeleteOps: Fixed2(r.DeleteOps),
		Files:     r.Files,
		TotalMB:   r.TotalMB,
	}
}

// encodeJSON writes v compactly without HTML escaping.
func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteJSON writes the run report.
func WriteJSON(w io.Writer, doc Document) error {
	return encodeJSON(w, doc)
}

// WriteJSONFile writes the run report to path.
func WriteJSONFile(path string, doc Document) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, doc)
	})
}

// WriteDiskJSON writes the disk probe report.
func WriteDiskJSON(w io.Writer, r diskprobe.Result) error {
	return encodeJSON(w, newDiskDocument(r))
}

// WriteDiskJSONFile writes the disk probe report to path.
func WriteDiskJSONFile(path string, r diskprobe.Result) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteDiskJSON(w, r)
	})
}

// anyDocument decodes either JSON report shape.
type anyDocument struct {
	Mode     string          `json:"mode"`
	Root     string          `json:"root"`
	Hardware *types.Hardware `json:"hw"`
	Stats    []struct {
		Millis  int64   `json:"ms"`
		Workers int     `json:"wk"`
		Dirs    int64   `json:"dirs"`
		Files   int64   `json:"files"`
		Denied  int64   `json:"den"`
		Errors  int64   `json:"err"`
		Depth   int64   `json:"deep"`
		FPS     float64 `json:"fps"`
		Score   float64 `json:"score"`
	} `json:"stats"`

	Path      string  `json:"path"`
	WriteMBs  float64 `json:"write_mb_s"`
	ReadMBs   float64 `json:"read_mb_s"`
	CreateOps float64 `json:"create_ops_s"`
	DeleteOps float64 `json:"delete_ops_s"`
	Files     int     `json:"files"`
	TotalMB   int     `json:"total_mb"`
}

// NewDiskStats converts a probe result for the formatters.
func NewDiskStats(r diskprobe.Result) *DiskStats {
	return &DiskStats{
		Path:      r.Path,
		WriteMBs:  r.WriteMBs,
		ReadMBs:   r.ReadMBs,
		CreateOps: r.CreateOps,
		DeleteOps: r.DeleteOps,
		Files:     r.Files,
		TotalMB:   r.TotalMB,
	}
}

// ReadJSON decodes a run or disk JSON report.
func ReadJSON(r io.Reader) (*Report, error) {
	var doc anyDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	if doc.Mode == "" {
		return nil, fmt.Errorf("decoding report: missing mode")
	}

	rep := &Report{Mode: doc.Mode}
	if doc.Mode == types.ModeDisk.String() {
		rep.Disk = &DiskStats{
			Path:      doc.Path,
			WriteMBs:  doc.WriteMBs,
			ReadMBs:   doc.ReadMBs,
			CreateOps: doc.CreateOps,
			DeleteOps: doc.DeleteOps,
			Files:     doc.Files,
			TotalMB:   doc.TotalMB,
		}
		return rep, nil
	}

	rep.Root = doc.Root
	rep.Hardware = doc.Hardware
	rep.Stats = make([]stats.Summary, len(doc.Stats))
	for i, s := range doc.Stats {
		rep.Stats[i] = stats.Summary{
			Millis:  s.Millis,
			Workers: s.Workers,
			Dirs:    s.Dirs,
			Files:   s.Files,
			Denied:  s.Denied,
			Errors:  s.Errors,
			Depth:   s.Depth,
			FPS:     s.FPS,
			Score:   s.Score,
		}
	}
	return rep, nil
}

// Load reads a report file. Files that start with the binary magic are
// decoded as binary maps; everything else as JSON.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rep *Report
	if bytes.HasPrefix(data, []byte(Magic)) {
		bin, err := ReadBinary(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		rep = &Report{
			Mode:        types.ModeMap.String(),
			Stats:       []stats.Summary{bin.Summary},
			Directories: len(bin.Map),
		}
	} else {
		rep, err = ReadJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	rep.Source = path
	return rep, nil
}

// JSONFormatter renders a loaded report as indented JSON.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
