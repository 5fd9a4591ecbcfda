package cmd

import "github.com/charmbracelet/lipgloss"

// LipGloss signature purple/pink palette
var (
	headerColor  = lipgloss.Color("#F780FF") // Bright pink
	titleColor   = lipgloss.Color("#BD93F9") // Purple
	numberColor  = lipgloss.Color("#FF79C6") // Pink
	textColor    = lipgloss.Color("#E9E9F4") // Light purple/white
	mutedColor   = lipgloss.Color("#6272A4") // Muted purple
	accentColor  = lipgloss.Color("#8BE9FD") // Cyan
	errorColor   = lipgloss.Color("#FF5555") // Red
	successColor = lipgloss.Color("#50FA7B") // Green
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(accentColor).Italic(true)
	answerStyle  = lipgloss.NewStyle().Foreground(textColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	borderStyle  = lipgloss.NewStyle().Foreground(mutedColor)
)
