package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/declutter/internal/model"
)

// ------- styling helpers (Lip Gloss) -------
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)

	dispositionStyles = map[model.Disposition]lipgloss.Style{
		model.Trash:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		model.Donate: lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		model.Keep:   lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		model.Skip:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
	suggestionStyles = map[model.Color]lipgloss.Style{
		model.Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("#DC3545")),
		model.Orange: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		model.Blue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		model.Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
	}

	boxUnchecked = "☐"
	boxChecked   = "☑"
)

var dispositionMarks = map[model.Disposition]string{
	model.Trash:  "🗑",
	model.Donate: "📦",
	model.Keep:   "✓",
	model.Skip:   "—",
}
