// Package ui is the terminal front end: a bubbletea program with pages for
// browsing reports, submitting new ones, voting, and the community dashboard.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/scamshield/scamshield/internal/models"
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#f6f7f9"),
		Foreground: lipgloss.Color("#12233f"),
		Primary:    lipgloss.Color("#1d4ed8"),
		Accent:     lipgloss.Color("#0e9f6e"),
		Muted:      lipgloss.Color("#6b7280"),
		Border:     lipgloss.Color("#d1d5db"),
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#0d1526"),
		Foreground: lipgloss.Color("#e5e7eb"),
		Primary:    lipgloss.Color("#60a5fa"),
		Accent:     lipgloss.Color("#34d399"),
		Muted:      lipgloss.Color("#9ca3af"),
		Border:     lipgloss.Color("#374151"),
		IsDark:     true,
	}
}

// Semantic colors, the same in both modes.
var (
	colorDanger  = lipgloss.Color("#ef4444")
	colorWarning = lipgloss.Color("#f59e0b")
	colorSuccess = lipgloss.Color("#22c55e")
	colorInfo    = lipgloss.Color("#3b82f6")
)

// Styles holds the styled components shared by every page.
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style
	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Bold   lipgloss.Style

	Selected   lipgloss.Style
	FieldLabel lipgloss.Style
	FieldError lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Card lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		FieldLabel: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Width(20),

		FieldError: lipgloss.NewStyle().
			Foreground(colorDanger),

		Success: lipgloss.NewStyle().Foreground(colorSuccess),
		Error:   lipgloss.NewStyle().Foreground(colorDanger),
		Warning: lipgloss.NewStyle().Foreground(colorWarning),
		Info:    lipgloss.NewStyle().Foreground(colorInfo),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}

// RiskBadge renders a colored risk level label.
func (s Styles) RiskBadge(risk models.RiskLevel) string {
	var style lipgloss.Style
	switch risk {
	case models.RiskCritical:
		style = s.Error.Bold(true)
	case models.RiskHigh:
		style = s.Error
	case models.RiskMedium:
		style = s.Warning
	case models.RiskLow:
		style = s.Success
	default:
		style = s.Muted
	}
	return style.Render(risk.Label())
}

// StatusBadge renders a colored report status label.
func (s Styles) StatusBadge(status models.ReportStatus) string {
	switch status {
	case models.StatusVerified:
		return s.Success.Render("verified")
	case models.StatusRejected:
		return s.Error.Render("rejected")
	case models.StatusPending:
		return s.Warning.Render("pending")
	default:
		return s.Muted.Render(string(status))
	}
}
