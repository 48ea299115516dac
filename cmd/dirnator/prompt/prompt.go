// Package prompt asks for the run settings interactively when no mode was
// given on the command line: the mode, the root, fast mode and the output
// directory, one question at a time.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// ErrAborted is returned when the user cancels the prompt.
var ErrAborted = errors.New("prompt aborted")

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// Answers holds the values the prompt collects.
type Answers struct {
	Mode types.Mode
	Root string
	Fast bool
	Out  string
}

type step int

const (
	stepMode step = iota
	stepRoot
	stepFast
	stepOut
	stepDone
)

// Model is the bubbletea model for the prompt.
type Model struct {
	step    step
	input   textinput.Model
	answers Answers
	hw      types.Hardware
	aborted bool
}

// New returns a prompt seeded with defaults. Empty answers keep them.
func New(defaults Answers, hw types.Hardware) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Focus()

	defaults.Mode = types.ModeMap
	defaults.Fast = false

	return Model{
		input:   ti,
		answers: defaults,
		hw:      hw,
	}
}

// Answers returns the collected values.
func (m Model) Answers() Answers {
	return m.answers
}

// Aborted reports whether the user cancelled.
func (m Model) Aborted() bool {
	return m.aborted
}

// Done reports whether every question has been answered.
func (m Model) Done() bool {
	return m.step == stepDone
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit records the current answer and advances to the next question.
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepMode:
		m.answers.Mode = parseChoice(value)
	case stepRoot:
		if value != "" {
			m.answers.Root = value
		}
	case stepFast:
		m.answers.Fast = strings.EqualFold(value, "y")
	case stepOut:
		if value != "" {
			m.answers.Out = value
		}
	}

	m.step++
	m.input.Reset()

	if m.step == stepDone {
		return m, tea.Quit
	}
	return m, nil
}

// parseChoice maps a menu answer to a mode. Anything unrecognized is map.
func parseChoice(s string) types.Mode {
	switch s {
	case "1":
		return types.ModeMap
	case "2":
		return types.ModeBench
	case "3":
		return types.ModeStress
	case "4":
		return types.ModeDisk
	}
	if mode := types.ParseMode(s); mode != types.ModeMenu {
		return mode
	}
	return types.ModeMap
}

// question returns the label for the current step.
func (m Model) question() string {
	switch m.step {
	case stepMode:
		return "choice"
	case stepRoot:
		return fmt.Sprintf("root [%s]", m.answers.Root)
	case stepFast:
		return "fast mode y/n [n]"
	case stepOut:
		return fmt.Sprintf("out [%s]", m.answers.Out)
	default:
		return ""
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.step == stepDone || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("dirnator"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.hw.String()))
	b.WriteString("\n")
	b.WriteString("1) map 2) bench 3) stress 4) disk\n\n")
	b.WriteString(labelStyle.Render(m.question() + ":"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("enter to confirm, esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// Run shows the prompt on the given streams and returns the answers.
func Run(defaults Answers, hw types.Hardware, in io.Reader, out io.Writer) (Answers, error) {
	p := tea.NewProgram(New(defaults, hw), tea.WithInput(in), tea.WithOutput(out))

	final, err := p.Run()
	if err != nil {
		return defaults, fmt.Errorf("running prompt: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.Aborted() {
		return defaults, ErrAborted
	}
	return m.Answers(), nil
}
