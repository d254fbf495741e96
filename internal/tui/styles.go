package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	oceanFg   = lipgloss.Color("#1E4976")
	landFg    = lipgloss.Color("#3A7A50")
	visitFg   = lipgloss.Color("#FFA500")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)

	limbStyle         = lipgloss.NewStyle().Foreground(oceanFg)
	outlineStyle      = lipgloss.NewStyle().Foreground(landFg)
	visitedStyle      = lipgloss.NewStyle().Foreground(visitFg)
	labelStyle        = lipgloss.NewStyle().Foreground(baseFg)
	labelVisitedStyle = lipgloss.NewStyle().Foreground(visitFg).Bold(true)
	hoverStyle        = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
)

// cellStyles colors braille cells by kind.
var cellStyles = map[cellKind]lipgloss.Style{
	cellLimb:    limbStyle,
	cellOutline: outlineStyle,
	cellVisited: visitedStyle,
	cellHover:   hoverStyle,

	cellLabel:        labelStyle,
	cellLabelVisited: labelVisitedStyle,
}
