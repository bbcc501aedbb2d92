package tui

import "github.com/charmbracelet/lipgloss"

// Palette. AdaptiveColor keeps the wizard readable on both light and
// dark terminal backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  = ac("240", "243")
	colorAccent = ac("25", "75")
	colorError  = ac("124", "203")
	colorOK     = ac("28", "78")

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(ac("255", "232")).
			Background(colorAccent).
			Padding(0, 1)
	styleTabOpen = lipgloss.NewStyle().
			Foreground(ac("235", "252")).
			Padding(0, 1)
	// Tabs past the ceiling render dimmed; they cannot be opened.
	styleTabLocked = lipgloss.NewStyle().
			Foreground(colorMuted).
			Faint(true).
			Padding(0, 1)

	styleTitle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	styleLabel = lipgloss.NewStyle().Foreground(colorMuted)
	styleLabelFocused = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	styleFieldErr = lipgloss.NewStyle().Foreground(colorError)
	styleErrLine  = lipgloss.NewStyle().Foreground(colorError).MarginTop(1)
	styleOKLine   = lipgloss.NewStyle().Foreground(colorOK).MarginTop(1)
	styleHelp     = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)

	styleDone    = lipgloss.NewStyle().Foreground(colorOK)
	stylePending = lipgloss.NewStyle().Foreground(colorMuted)

	styleComplete = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorOK).
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3)
)
