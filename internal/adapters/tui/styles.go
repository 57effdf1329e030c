package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/gauntlet/internal/ui/style"
)

var (
	stepPendingStyle = lipgloss.NewStyle().
				Foreground(style.Slate)

	stepRunningStyle = lipgloss.NewStyle().
				Foreground(style.Blue).
				Bold(true)

	stepDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	stepErrorStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	logLineStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Faint(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Blue).
			Foreground(style.White)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.White)
)
