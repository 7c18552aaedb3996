package report

import "github.com/charmbracelet/lipgloss"

var (
	salmonPink  = lipgloss.Color("#FFB3BA")
	mintGreen   = lipgloss.Color("#A8E6CF")
	amber       = lipgloss.Color("#FFD580")
	errorRed    = lipgloss.Color("203")
	mutedGray   = lipgloss.Color("#6B7280")
	brightWhite = lipgloss.Color("#F9FAFB")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	successStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(amber)

	failureStyle = lipgloss.NewStyle().
			Foreground(errorRed).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)

// statusStyle picks the style a case status is rendered with.
func statusStyle(status Status) lipgloss.Style {
	switch status {
	case StatusPassed:
		return successStyle
	case StatusFiltered:
		return mutedStyle
	case StatusInvalid, StatusNotFound:
		return warningStyle
	default:
		return failureStyle
	}
}
