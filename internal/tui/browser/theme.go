package browser

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	highlightStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	mutedStyle     = lipgloss.NewStyle().Faint(true)
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)
