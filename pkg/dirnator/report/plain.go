package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// PlainFormatter renders a report as an unstyled tab-aligned table,
// suitable for scripting and piping.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	fmt.Fprintf(tw, "mode\t%s\n", r.Mode)
	if r.Root != "" {
		fmt.Fprintf(tw, "root\t%s\n", r.Root)
	}
	if r.Hardware != nil {
		fmt.Fprintf(tw, "hw\t%s\n", r.Hardware)
	}

	if d := r.Disk; d != nil {
		fmt.Fprintf(tw, "path\t%s\n", d.Path)
		fmt.Fprintf(tw, "write_mb_s\t%.2f\n", d.WriteMBs)
		fmt.Fprintf(tw, "read_mb_s\t%.2f\n", d.ReadMBs)
		fmt.Fprintf(tw, "create_ops_s\t%.2f\n", d.CreateOps)
		fmt.Fprintf(tw, "delete_ops_s\t%.2f\n", d.DeleteOps)
		fmt.Fprintf(tw, "files\t%d\n", d.Files)
		fmt.Fprintf(tw, "total_mb\t%d\n", d.TotalMB)
		return tw.Flush()
	}

	if len(r.Stats) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, strings.Join(statColumns, "\t"))
		for i, s := range r.Stats {
			fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%.2f\t%d\t%.2f\t%d\t%d\n",
				i+1, s.Workers, s.Millis, s.Dirs, s.Files, s.FPS, s.Depth, s.Score, s.Denied, s.Errors)
		}
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
