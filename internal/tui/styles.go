package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	PrimaryColor = lipgloss.Color("39")  // Blue
	AccentColor  = lipgloss.Color("76")  // Green
	ErrorColor   = lipgloss.Color("196") // Red
	WarningColor = lipgloss.Color("214") // Orange
	MutedColor   = lipgloss.Color("240") // Gray
	TextColor    = lipgloss.Color("252") // Light gray
	BgColor      = lipgloss.Color("235") // Dark gray
)

// Styles
var (
	// List pane styles
	ListStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	ListTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1).
			MarginBottom(1)

	ListItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ListItemSelectedStyle = lipgloss.NewStyle().
				Background(PrimaryColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	FavoriteMarkStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// Detail pane styles
	DetailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	DetailMetaStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Search input styles
	SearchStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1)

	SearchFocusedStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(AccentColor).
				Padding(0, 1)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Background(BgColor).
			Foreground(TextColor).
			Padding(0, 1)

	StatusCountStyle = lipgloss.NewStyle().
				Background(PrimaryColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1).
				MarginRight(1)

	StatusEventStyle = lipgloss.NewStyle().
				Background(AccentColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Background(ErrorColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	// Help styles
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)
