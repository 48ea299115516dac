package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/dirnator/pkg/dirnator/stats"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// PrettyFormatter renders a report with lipgloss styling for a terminal.
type PrettyFormatter struct{}

// barWidth is the length of the longest bar in the bar chart.
const barWidth = 30

// statColumns are the headers of the stats table.
var statColumns = []string{"#", "WORKERS", "MS", "DIRS", "FILES", "FILES/S", "DEPTH", "SCORE", "DEN", "ERR"}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	if r.Disk != nil {
		w.WriteString(f.formatDisk(r.Disk))
		return nil
	}

	w.WriteString(f.formatStats(r))
	if len(r.Stats) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatBars(r))
	}
	return nil
}

func (f *PrettyFormatter) formatHeader(r *Report) string {
	lines := []string{
		field("Report:", r.Source) + "  " + LabelStyle.Render("Mode:") + " " + TitleStyle.Render(r.Mode),
	}
	if r.Root != "" {
		lines = append(lines, field("Root:", r.Root))
	}
	if r.Hardware != nil {
		hw := r.Hardware
		lines = append(lines, field("Host:", fmt.Sprintf("%s/%s, %d cores, %s RAM",
			hw.OS, hw.Arch, hw.Cores, types.FormatSize(int64(hw.RAMMB)*types.MiB))))
	}
	if r.Directories > 0 {
		lines = append(lines, field("Directories mapped:", types.FormatCount(int64(r.Directories))))
	}
	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatStats(r *Report) string {
	if len(r.Stats) == 0 {
		return MutedStyle.Render("  No scans recorded") + "\n"
	}

	rows := make([][]string, 0, len(r.Stats)+1)
	rows = append(rows, statColumns)
	for i, s := range r.Stats {
		rows = append(rows, statCells(i+1, s))
	}

	widths := columnWidths(rows)

	var sb strings.Builder
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			padded := padLeft(cell, widths[j])
			switch {
			case i == 0:
				cells[j] = TableHeaderStyle.Render(padded)
			case i == 1 && r.Mode == types.ModeBench.String():
				cells[j] = SuccessStyle.Render(padded)
			case (j == 8 || j == 9) && cell != "0":
				cells[j] = WarningStyle.Render(padded)
			default:
				cells[j] = NumberStyle.Render(padded)
			}
		}
		sb.WriteString("  ")
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, join(cells, "  ")...))
		sb.WriteString("\n")
	}

	if r.Mode == types.ModeBench.String() {
		best := r.Stats[0]
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render("Best:"),
			SuccessStyle.Render(fmt.Sprintf("%d workers, %d ms avg", best.Workers, best.Millis))))
	}

	return sb.String()
}

// formatBars charts elapsed time and score per row, each scaled to the
// largest value in the report.
func (f *PrettyFormatter) formatBars(r *Report) string {
	var maxMs, maxScore float64
	labelWidth := 0
	for _, s := range r.Stats {
		maxMs = max(maxMs, float64(s.Millis))
		maxScore = max(maxScore, s.Score)
		labelWidth = max(labelWidth, len(fmt.Sprintf("%d", s.Workers)))
	}

	var sb strings.Builder
	for _, s := range r.Stats {
		ms := strings.Repeat("█", barLength(float64(s.Millis), maxMs))
		score := strings.Repeat("█", barLength(s.Score, maxScore))

		sb.WriteString("  ")
		sb.WriteString(LabelStyle.Render(padLeft(fmt.Sprintf("%d", s.Workers), labelWidth)))
		sb.WriteString(" ")
		sb.WriteString(MSBarStyle.Render(ms))
		sb.WriteString(strings.Repeat(" ", barWidth-barLength(float64(s.Millis), maxMs)+1))
		sb.WriteString(ScoreBarStyle.Render(score))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("  %s %s  %s\n", MutedStyle.Render(strings.Repeat(" ", labelWidth)),
		MSBarStyle.Render("ms"), ScoreBarStyle.Render("score")))
	return sb.String()
}

// barLength scales v against maxV onto barWidth cells. A zero maximum
// counts as 1, and any positive value gets at least one cell.
func barLength(v, maxV float64) int {
	if maxV <= 0 {
		maxV = 1
	}
	if v <= 0 {
		return 0
	}
	n := int(math.Round(v / maxV * barWidth))
	return min(barWidth, max(1, n))
}

func (f *PrettyFormatter) formatDisk(d *DiskStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s\n", field("Path:", d.Path)))
	sb.WriteString(fmt.Sprintf("  %s  %s\n",
		field("Write:", fmt.Sprintf("%.2f MB/s", d.WriteMBs)),
		field("Read:", fmt.Sprintf("%.2f MB/s", d.ReadMBs))))
	sb.WriteString(fmt.Sprintf("  %s  %s\n",
		field("Create:", fmt.Sprintf("%.2f ops/s", d.CreateOps)),
		field("Delete:", fmt.Sprintf("%.2f ops/s", d.DeleteOps))))
	sb.WriteString(fmt.Sprintf("  %s\n", MutedStyle.Render(fmt.Sprintf("%d small files, %s blob",
		d.Files, types.FormatSize(int64(d.TotalMB)*types.MiB)))))
	return sb.String()
}

// statCells renders one stats row as text cells.
func statCells(n int, s stats.Summary) []string {
	return []string{
		fmt.Sprintf("%d", n),
		fmt.Sprintf("%d", s.Workers),
		fmt.Sprintf("%d", s.Millis),
		types.FormatCount(s.Dirs),
		types.FormatCount(s.Files),
		fmt.Sprintf("%.2f", s.FPS),
		fmt.Sprintf("%d", s.Depth),
		fmt.Sprintf("%.2f", s.Score),
		fmt.Sprintf("%d", s.Denied),
		fmt.Sprintf("%d", s.Errors),
	}
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for j, cell := range row {
			widths[j] = max(widths[j], len(cell))
		}
	}
	return widths
}

// join interleaves sep between the cells.
func join(cells []string, sep string) []string {
	out := make([]string, 0, len(cells)*2)
	for i, c := range cells {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, c)
	}
	return out
}

func field(label, value string) string {
	return LabelStyle.Render(label) + " " + ValueStyle.Render(value)
}

// padLeft pads a string with spaces on the left to the given width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
