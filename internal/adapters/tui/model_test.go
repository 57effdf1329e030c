package tui_test

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gauntlet/internal/adapters/tui"
)

func update(t *testing.T, m tea.Model, msg tea.Msg) *tui.Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(*tui.Model)
	require.True(t, ok)
	return model
}

func newSeededModel(t *testing.T) *tui.Model {
	t.Helper()
	m := tui.NewModel()
	return update(t, m, tui.MsgInitSteps{Steps: []string{"build", "test", "fmt"}})
}

func TestModel_InitSteps(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	m := newSeededModel(t)
	view := m.View()

	assert.Contains(t, view, "build")
	assert.Contains(t, view, "test")
	assert.Contains(t, view, "fmt")
	// All pending.
	assert.Equal(t, 3, countRune(view, '○'))
}

func TestModel_StepLifecycle(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	start := time.Unix(100, 0)
	m := newSeededModel(t)

	m = update(t, m, tui.MsgStepStart{Name: "build", StartTime: start})
	m = update(t, m, tui.MsgStepLog{Name: "build", Data: []byte("Compiling acme\n")})
	assert.Contains(t, m.View(), "Compiling acme")

	m = update(t, m, tui.MsgStepComplete{Name: "build", EndTime: start.Add(time.Second)})
	view := m.View()
	assert.Contains(t, view, "✓ build (1s)")
	// The log tail disappears once the step completes.
	assert.NotContains(t, view, "Compiling acme")
}

func TestModel_StepFailure(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	start := time.Unix(100, 0)
	m := newSeededModel(t)

	m = update(t, m, tui.MsgStepStart{Name: "test", StartTime: start})
	m = update(t, m, tui.MsgStepComplete{
		Name:    "test",
		EndTime: start.Add(2 * time.Second),
		Err:     errors.New("exit status 1"),
	})

	view := m.View()
	assert.Contains(t, view, "✗ test (2s): exit status 1")
}

func TestModel_PartialLogLines(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	m := newSeededModel(t)
	m = update(t, m, tui.MsgStepStart{Name: "build", StartTime: time.Now()})

	m = update(t, m, tui.MsgStepLog{Name: "build", Data: []byte("Compil")})
	assert.NotContains(t, m.View(), "Compil")

	m = update(t, m, tui.MsgStepLog{Name: "build", Data: []byte("ing acme\r\n")})
	assert.Contains(t, m.View(), "Compiling acme")
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := tui.NewModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_UnknownStepIgnored(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	m := newSeededModel(t)
	before := m.View()

	m = update(t, m, tui.MsgStepLog{Name: "ghost", Data: []byte("boo\n")})
	m = update(t, m, tui.MsgStepComplete{Name: "ghost", EndTime: time.Now()})

	assert.Equal(t, before, m.View())
}

func countRune(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}
