// Package tui provides an interactive renderer for the check sequence.
package tui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/gauntlet/internal/ui/style"
)

type stepStatus int

const (
	statusPending stepStatus = iota
	statusRunning
	statusPassed
	statusFailed
)

type stepView struct {
	name      string
	status    stepStatus
	startTime time.Time
	duration  time.Duration
	err       error
	lastLine  string
	partial   []byte
}

// Model is the Bubble Tea model for the check sequence TUI.
type Model struct {
	steps   []stepView
	spinner spinner.Model
	width   int
	height  int
	failed  bool
}

// NewModel creates a new TUI model.
func NewModel() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(style.Blue)

	return &Model{
		spinner: s,
	}
}

// Init starts the spinner tick loop.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgInitSteps:
		return m.handleInitSteps(msg)
	case MsgStepStart:
		return m.handleStepStart(msg)
	case MsgStepLog:
		return m.handleStepLog(msg)
	case MsgStepComplete:
		return m.handleStepComplete(msg)
	}
	return m, nil
}

func (m *Model) handleInitSteps(msg MsgInitSteps) (tea.Model, tea.Cmd) {
	m.steps = make([]stepView, len(msg.Steps))
	for i, name := range msg.Steps {
		m.steps[i] = stepView{name: name}
	}
	return m, nil
}

func (m *Model) handleStepStart(msg MsgStepStart) (tea.Model, tea.Cmd) {
	if s := m.step(msg.Name); s != nil {
		s.status = statusRunning
		s.startTime = msg.StartTime
	}
	return m, nil
}

func (m *Model) handleStepLog(msg MsgStepLog) (tea.Model, tea.Cmd) {
	s := m.step(msg.Name)
	if s == nil {
		return m, nil
	}

	s.partial = append(s.partial, msg.Data...)
	for {
		i := bytes.IndexByte(s.partial, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(string(s.partial[:i]), "\r")
		if line != "" {
			s.lastLine = line
		}
		s.partial = s.partial[i+1:]
	}
	return m, nil
}

func (m *Model) handleStepComplete(msg MsgStepComplete) (tea.Model, tea.Cmd) {
	if s := m.step(msg.Name); s != nil {
		s.duration = msg.EndTime.Sub(s.startTime)
		s.lastLine = ""
		s.partial = nil
		if msg.Err != nil {
			s.status = statusFailed
			s.err = msg.Err
			m.failed = true
		} else {
			s.status = statusPassed
		}
	}
	return m, nil
}

func (m *Model) step(name string) *stepView {
	for i := range m.steps {
		if m.steps[i].name == name {
			return &m.steps[i]
		}
	}
	return nil
}

// View renders the step list with per-step status icons.
func (m *Model) View() string {
	var b strings.Builder

	title := titleStyle.Render("gauntlet")
	if m.failed {
		title = failureTitleStyle.Render("gauntlet")
	}
	b.WriteString(title + "\n\n")

	for _, s := range m.steps {
		var icon, suffix string
		var st lipgloss.Style

		switch s.status {
		case statusRunning:
			icon = m.spinner.View()
			st = stepRunningStyle
		case statusPassed:
			icon = style.Check
			st = stepDoneStyle
			suffix = fmt.Sprintf(" (%s)", s.duration.Round(time.Millisecond))
		case statusFailed:
			icon = style.Cross
			st = stepErrorStyle
			suffix = fmt.Sprintf(" (%s): %v", s.duration.Round(time.Millisecond), s.err)
		default:
			icon = style.Circle
			st = stepPendingStyle
		}

		b.WriteString(fmt.Sprintf("%s %s%s\n", st.Render(icon), s.name, suffix))

		if s.status == statusRunning && s.lastLine != "" {
			b.WriteString("  " + logLineStyle.Render(s.lastLine) + "\n")
		}
	}

	return b.String()
}
