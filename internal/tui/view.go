package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lo := m.layout()

	// Header
	header := titleStyle.Render(" geoglobe ─ visited countries ")
	header += dimStyle.Render(fmt.Sprintf(" %d visited", m.sess.Count()))
	header = lipgloss.NewStyle().Width(lo.contentW).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(lo.sidebarW).Render(m.l.View())
	}

	// Map viewport
	var mapView string
	switch {
	case m.showVisited:
		// Render visited table centered in the map area
		var body string
		if m.sess.Count() == 0 {
			body = dimStyle.Render(emptyVisitedText)
		} else {
			colW := 0
			for _, c := range m.tbl.Columns() {
				colW += c.Width + 3
			}
			maxW := min(lo.mapW, max(32, colW))
			m.tbl.SetWidth(maxW - 4)
			m.tbl.SetHeight(min(lo.mapH-2, 20))
			body = m.tbl.View()
		}
		box := boxStyle.Render(titleStyle.Render("Visited") + "\n" + body)
		mapView = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		// size textarea to map area
		m.ta.SetWidth(min(lo.mapW-4, 72))
		box := boxStyle.Render(titleStyle.Render("Locate") + "\n" + m.ta.View())
		mapView = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.inspectPopup != "":
		box := boxStyle.MaxWidth(min(56, lo.mapW)).Render(m.inspectPopup)
		mapView = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Left, lipgloss.Center, box)
	default:
		// the frame is sized on resize; an early View still draws at the current size
		mapView = lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).Render(m.renderGlobe(lo.mapW, lo.mapH))
	}

	// Body row
	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	// hovered country and coordinates at bottom-right
	coords := ""
	if m.hoverHasGeo {
		where := fmt.Sprintf("lon=%.3f lat=%.3f", m.hoverLon, m.hoverLat)
		if m.hoverCountry != "" {
			where = hoverStyle.Render(m.hoverCountry) + dimStyle.Render("  "+where)
		} else {
			where = dimStyle.Render(where)
		}
		coords = padRight(" "+where, 2)
	}
	spacerW := max(0, lo.contentW-lipgloss.Width(status)-lipgloss.Width(coords))
	statusLine := lipgloss.JoinHorizontal(lipgloss.Bottom, status, strings.Repeat(" ", spacerW), coords)
	footer := lipgloss.NewStyle().Width(lo.contentW).Render(
		lipgloss.JoinVertical(lipgloss.Left, statusLine, help))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(lo.contentW).Height(m.height).Render(ui)
}

// emptyVisitedText is shown in place of an empty visited table.
const emptyVisitedText = "No countries visited yet. Click one on the globe or press Tab."

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"drag/←→↑↓ rotate",
		"wheel/+- zoom",
		"click toggle",
		"Tab countries",
		"v visited",
		"p locate",
		"i inspect",
		"l labels",
		"y copy",
		"e export",
		"r reset",
		"q quit",
	}
	return dimStyle.Render(" " + truncate(strings.Join(keys, "  "), max(0, m.width-2)))
}
