package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

var testHW = types.Hardware{OS: "linux", Arch: "amd64", Cores: 8, RAMMB: 16000}

func defaults() Answers {
	return Answers{Root: "/", Out: "dirnator/out"}
}

// answer types s and presses enter.
func answer(t *testing.T, m Model, s string) Model {
	t.Helper()
	var next tea.Model = m
	if s != "" {
		next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestPromptCollectsAnswers(t *testing.T) {
	m := New(defaults(), testHW)
	assert.Contains(t, m.View(), "1) map 2) bench 3) stress 4) disk")
	assert.Contains(t, m.View(), "os=linux arch=amd64 cores=8")

	m = answer(t, m, "3")
	assert.Contains(t, m.View(), "root [/]")
	m = answer(t, m, "/srv")
	m = answer(t, m, "Y")
	m = answer(t, m, "/tmp/reports")

	require.True(t, m.Done())
	assert.False(t, m.Aborted())
	assert.Equal(t, Answers{Mode: types.ModeStress, Root: "/srv", Fast: true, Out: "/tmp/reports"}, m.Answers())
	assert.Empty(t, m.View())
}

func TestPromptEmptyAnswersKeepDefaults(t *testing.T) {
	m := New(defaults(), testHW)
	for range 4 {
		m = answer(t, m, "")
	}

	require.True(t, m.Done())
	assert.Equal(t, Answers{Mode: types.ModeMap, Root: "/", Fast: false, Out: "dirnator/out"}, m.Answers())
}

func TestPromptAbort(t *testing.T) {
	m := New(defaults(), testHW)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	out := next.(Model)
	assert.True(t, out.Aborted())
	assert.False(t, out.Done())
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in   string
		want types.Mode
	}{
		{"1", types.ModeMap},
		{"2", types.ModeBench},
		{"3", types.ModeStress},
		{"4", types.ModeDisk},
		{"disk", types.ModeDisk},
		{"", types.ModeMap},
		{"9", types.ModeMap},
		{"nonsense", types.ModeMap},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseChoice(tt.in))
		})
	}
}
