package report

import "github.com/charmbracelet/lipgloss"

// Color constants using the ANSI 256-color palette.
const (
	// ColorPrimary is used for headers and highlighted numbers (bright blue).
	ColorPrimary = lipgloss.Color("39")

	// ColorSuccess marks the best bench rung (green).
	ColorSuccess = lipgloss.Color("42")

	// ColorWarning is used for denied and error counts (orange).
	ColorWarning = lipgloss.Color("214")

	// ColorMuted is used for labels and secondary text (gray).
	ColorMuted = lipgloss.Color("245")
)

// Box styles.
var (
	// HeaderBox holds the report metadata.
	HeaderBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1).
		MarginBottom(1)
)

// Text styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NumberStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// MSBarStyle draws elapsed time bars (blue).
	MSBarStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// ScoreBarStyle draws score bars (green).
	ScoreBarStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorMuted)
)
