package report

import (
	"fmt"
	"os"

	"github.com/jamesainslie/dirnator/pkg/dirnator/diskprobe"
	"github.com/jamesainslie/dirnator/pkg/dirnator/scanner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// ensureOut creates the output directory if it does not exist.
func ensureOut(out string) error {
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// WriteMap writes the reports of a map scan named name at ts: the text
// and binary maps selected by format and always the JSON summary. It
// returns the paths written.
func WriteMap(out, name string, ts int64, format types.Format, root string, hw types.Hardware, res *scanner.Result) ([]string, error) {
	if err := ensureOut(out); err != nil {
		return nil, err
	}

	var written []string

	if format.WantsText() {
		path := FileName(out, name, ts, "txt")
		if err := WriteTextFile(path, res.Map); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if format.WantsBin() {
		path := FileName(out, name, ts, "bin")
		if err := WriteBinaryFile(path, res.Map, res.Summary); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	path := FileName(out, name, ts, "json")
	doc := NewDocument(types.ModeMap, root, hw, []stats.Summary{res.Summary})
	if err := WriteJSONFile(path, doc); err != nil {
		return written, err
	}
	return append(written, path), nil
}

// WriteBench writes the bench ranking as text and JSON.
func WriteBench(out string, ts int64, root string, runs int, fast bool, hw types.Hardware, records []stats.Summary) ([]string, error) {
	if err := ensureOut(out); err != nil {
		return nil, err
	}

	txt := FileName(out, types.ModeBench.String(), ts, "txt")
	if err := WriteBenchTextFile(txt, root, max(1, runs), fast, records); err != nil {
		return nil, err
	}

	js := FileName(out, types.ModeBench.String(), ts, "json")
	if err := WriteJSONFile(js, NewDocument(types.ModeBench, root, hw, records)); err != nil {
		return []string{txt}, err
	}
	return []string{txt, js}, nil
}

// WriteStress writes the stress rows as JSON.
func WriteStress(out string, ts int64, root string, hw types.Hardware, rows []stats.Summary) (string, error) {
	if err := ensureOut(out); err != nil {
		return "", err
	}

	js := FileName(out, types.ModeStress.String(), ts, "json")
	if err := WriteJSONFile(js, NewDocument(types.ModeStress, root, hw, rows)); err != nil {
		return "", err
	}
	return js, nil
}

// WriteDisk writes the disk probe result as JSON.
func WriteDisk(out string, ts int64, res diskprobe.Result) (string, error) {
	if err := ensureOut(out); err != nil {
		return "", err
	}

	js := FileName(out, types.ModeDisk.String(), ts, "json")
	if err := WriteDiskJSONFile(js, res); err != nil {
		return "", err
	}
	return js, nil
}
