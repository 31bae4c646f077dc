// Package ui renders CLI output: graph diffs and the watch TUI.
package ui

import "github.com/charmbracelet/lipgloss"

// Style definitions
var (
	primaryColor = lipgloss.Color("#2B7CE9") // vis-network blue
	addColor     = lipgloss.Color("#10b981")
	updateColor  = lipgloss.Color("#f59e0b")
	removeColor  = lipgloss.Color("#ef4444")
	mutedColor   = lipgloss.Color("#94a3b8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	addStyle    = lipgloss.NewStyle().Foreground(addColor)
	updateStyle = lipgloss.NewStyle().Foreground(updateColor)
	removeStyle = lipgloss.NewStyle().Foreground(removeColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(removeColor).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)
