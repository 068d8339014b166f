package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	moonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	deathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D75F5F")).
			Bold(true)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(1).
			Foreground(lipgloss.Color("#AAAAAA"))

	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F5F"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F"))
)
