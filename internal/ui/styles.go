package ui

import "github.com/charmbracelet/lipgloss"

// Palette: warm gold on slate, with status colors for bids and banners.
var (
	ColorBase    = lipgloss.Color("#1C1F26")
	ColorSurface = lipgloss.Color("#272C36")
	ColorStripe  = lipgloss.Color("#21252E")
	ColorMuted   = lipgloss.Color("#7C8496")
	ColorText    = lipgloss.Color("#D8DEE9")
	ColorAccent  = lipgloss.Color("#D8A657")
	ColorGreen   = lipgloss.Color("#A6E3A1")
	ColorRed     = lipgloss.Color("#F38BA8")
	ColorYellow  = lipgloss.Color("#F9E2AF")
)

// Chrome
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorBase).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Background(ColorSurface).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	BreadcrumbStyle       = lipgloss.NewStyle().Foreground(ColorMuted)
	BreadcrumbActiveStyle = lipgloss.NewStyle().Foreground(ColorText).Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorSurface)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)
)

// Banners
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true).
			Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Padding(0, 1)
)

// Tables
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Background(ColorSurface).
				Bold(true).
				Padding(0, 1)

	NormalRowStyle   = lipgloss.NewStyle().Foreground(ColorText)
	SelectedRowStyle = lipgloss.NewStyle().Foreground(ColorBase).Background(ColorAccent)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(1, 4)

	// LeaderStyle marks the highest bid.
	LeaderStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	ClosedStyle = lipgloss.NewStyle().Foreground(ColorRed).Faint(true)
)

// Forms and panels
var (
	LabelStyle      = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	FieldErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Italic(true)

	BorderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSurface).
			Padding(0, 1)

	ActiveBorderStyle = BorderStyle.
				BorderForeground(ColorAccent)

	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)
