package report

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jamesainslie/dirnator/pkg/dirnator/scanner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
)

// Magic opens every binary map report.
const Magic = "DNRS2"

// maxFieldLen bounds a single decoded path.
const maxFieldLen = 1 << 24

// ErrBadMagic is returned when a binary report does not start with Magic.
var ErrBadMagic = errors.New("not a dirnator binary report")

// ErrCorrupt is returned when a binary report is truncated or malformed.
var ErrCorrupt = errors.New("corrupt binary report")

// BinaryReport is a decoded binary map report.
type BinaryReport struct {
	Map     scanner.ResultMap
	Summary stats.Summary
}

// WriteBinary encodes the map and summary:
//
//	"DNRS2" | u64 count | count × (u32 len, key, u32 n, n × (u32 len, value)) |
//	u128 ms | u64 workers | u64 dirs | u64 files | u64 denied | u64 errors | u64 depth
//
// All integers are little-endian. Directories are written in sorted order.
func WriteBinary(w io.Writer, m scanner.ResultMap, s stats.Summary) error {
	bw := &binWriter{w: w}

	bw.raw([]byte(Magic))
	bw.u64(uint64(len(m)))
	for _, dir := range sortedKeys(m) {
		files := m[dir]
		bw.str(dir)
		bw.u32(uint32(len(files)))
		for _, f := range files {
			bw.str(f)
		}
	}

	// u128 elapsed: low word then a zero high word.
	bw.u64(uint64(max(0, s.Millis)))
	bw.u64(0)
	bw.u64(uint64(max(0, s.Workers)))
	for _, v := range []int64{s.Dirs, s.Files, s.Denied, s.Errors, s.Depth} {
		bw.u64(uint64(max(0, v)))
	}

	return bw.err
}

// WriteBinaryFile writes the binary map report to path.
func WriteBinaryFile(path string, m scanner.ResultMap, s stats.Summary) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteBinary(w, m, s)
	})
}

// ReadBinary decodes a binary map report. Throughput and score are
// recomputed from the stored counters.
func ReadBinary(r io.Reader) (*BinaryReport, error) {
	br := &binReader{r: bufio.NewReader(r)}

	magic := br.raw(len(Magic))
	if br.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMagic, br.err)
	}
	if string(magic) != Magic {
		return nil, ErrBadMagic
	}

	count := br.u64()
	m := make(scanner.ResultMap, min(count, 1<<16))
	for i := uint64(0); i < count && br.err == nil; i++ {
		dir := br.str()
		n := br.u32()
		files := make([]string, 0, min(n, 1<<16))
		for j := uint32(0); j < n && br.err == nil; j++ {
			files = append(files, br.str())
		}
		m[dir] = files
	}

	msLow := br.u64()
	msHigh := br.u64()
	workers := br.u64()
	var counters [5]uint64
	for i := range counters {
		counters[i] = br.u64()
	}
	if br.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, br.err)
	}
	if msHigh != 0 {
		return nil, fmt.Errorf("%w: elapsed time overflows 64 bits", ErrCorrupt)
	}

	snap := stats.Snapshot{
		Dirs:     int64(counters[0]),
		Files:    int64(counters[1]),
		Denied:   int64(counters[2]),
		Errors:   int64(counters[3]),
		MaxDepth: int64(counters[4]),
	}

	return &BinaryReport{
		Map:     m,
		Summary: stats.NewSummary(int64(msLow), int(workers), snap),
	}, nil
}

// ReadBinaryFile decodes the binary map report at path.
func ReadBinaryFile(path string) (*BinaryReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rep, err := ReadBinary(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rep, nil
}

// binWriter remembers the first write error so encoding reads linearly.
type binWriter struct {
	w   io.Writer
	buf [8]byte
	err error
}

func (b *binWriter) raw(p []byte) {
	if b.err != nil {
		return
	}
	_, b.err = b.w.Write(p)
}

func (b *binWriter) u32(v uint32) {
	binary.LittleEndian.PutUint32(b.buf[:4], v)
	b.raw(b.buf[:4])
}

func (b *binWriter) u64(v uint64) {
	binary.LittleEndian.PutUint64(b.buf[:8], v)
	b.raw(b.buf[:8])
}

func (b *binWriter) str(s string) {
	b.u32(uint32(len(s)))
	b.raw([]byte(s))
}

// binReader remembers the first read error; later reads return zero values.
type binReader struct {
	r   io.Reader
	buf [8]byte
	err error
}

func (b *binReader) raw(n int) []byte {
	if b.err != nil {
		return nil
	}
	p := make([]byte, n)
	if _, err := io.ReadFull(b.r, p); err != nil {
		b.err = err
		return nil
	}
	return p
}

func (b *binReader) u32() uint32 {
	if b.err != nil {
		return 0
	}
	if _, err := io.ReadFull(b.r, b.buf[:4]); err != nil {
		b.err = err
		return 0
	}
	return binary.LittleEndian.Uint32(b.buf[:4])
}

func (b *binReader) u64() uint64 {
	if b.err != nil {
		return 0
	}
	if _, err := io.ReadFull(b.r, b.buf[:8]); err != nil {
		b.err = err
		return 0
	}
	return binary.LittleEndian.Uint64(b.buf[:8])
}

func (b *binReader) str() string {
	n := b.u32()
	if b.err != nil {
		return ""
	}
	if n > maxFieldLen {
		b.err = fmt.Errorf("field length %d exceeds limit", n)
		return ""
	}
	return string(b.raw(int(n)))
}
