package cli

import "github.com/charmbracelet/lipgloss"

// Shared color palette.
var (
	ColorPrimary = lipgloss.Color("86")
	ColorError   = lipgloss.Color("196")
	ColorWarn    = lipgloss.Color("214")
	ColorOK      = lipgloss.Color("42")
)

var (
	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorOK)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarn).
			Bold(true)

	FaintStyle = lipgloss.NewStyle().
			Faint(true)

	ConfirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarn).
			Padding(1, 2)
)
