package tui

import (
	"fmt"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"geoglobe/internal/country"
	"geoglobe/internal/session"
)

const (
	keyRotateStep = 0.15 // radians queued per arrow press
	zoomStep      = 1.1
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.controls.Update()
		m.refreshFrame()
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		lo := m.layout()
		m.l.SetSize(sidebarWidth-2, lo.contentH-2)
		m.refreshFrame()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.pasteMode {
		switch msg.String() {
		case "esc":
			m.pasteMode = false
			m.ta.Blur()
			return m, nil
		case "enter":
			m.locate(m.ta.Value())
			m.pasteMode = false
			m.ta.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.inspectPopup = ""
		m.showVisited = false
	case "up", "down", "pgup", "pgdown", "/":
		switch {
		case m.showVisited:
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		case m.showSidebar:
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		case msg.String() == "up":
			m.controls.RotateAngles(0, -keyRotateStep)
		case msg.String() == "down":
			m.controls.RotateAngles(0, keyRotateStep)
		}
	case "left":
		m.controls.RotateAngles(-keyRotateStep, 0)
	case "right":
		m.controls.RotateAngles(keyRotateStep, 0)
	case "+", "=":
		m.controls.Zoom(1 / zoomStep)
		m.status = fmt.Sprintf("distance: %.0f", m.controls.Distance)
	case "-", "_":
		m.controls.Zoom(zoomStep)
		m.status = fmt.Sprintf("distance: %.0f", m.controls.Distance)
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshCountries()
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
		m.refreshFrame()
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(countryItem); ok {
				m.focus(it.name)
				m.toggle(it.name)
			}
		}
	case "v":
		m.showVisited = !m.showVisited
		if m.showVisited {
			m.refreshVisited()
		}
	case "r":
		if err := m.sess.Reset(m.ctxOrBackground()); err != nil {
			m.status = session.ResetMessage + " (not saved: " + err.Error() + ")"
		} else {
			m.status = session.ResetMessage
		}
		m.refreshCountries()
		m.refreshVisited()
		m.refreshFrame()
	case "y":
		if err := m.copyText(m.sess.ClipboardText()); err != nil {
			m.status = "clipboard error: " + err.Error()
			m.log.Warn("clipboard", zap.Error(err))
		} else {
			m.status = fmt.Sprintf("copied %d countries to clipboard", m.sess.Count())
		}
	case "e":
		n, err := m.sess.Export(m.exportPath)
		if err != nil {
			m.status = "export error: " + err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d countries to %s", n, m.exportPath)
		}
	case "l":
		m.showLabels = !m.showLabels
		m.status = fmt.Sprintf("labels: %v", m.showLabels)
		m.refreshFrame()
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "locate mode"
	case "h":
		m.helpVisible = !m.helpVisible
	case "i":
		m.inspect()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	lo := m.layout()
	cx, cy := msg.X-lo.originX, msg.Y-lo.originY
	inMap := cx >= 0 && cx < lo.mapW && cy >= 0 && cy < lo.mapH &&
		!m.showVisited && !m.pasteMode && m.inspectPopup == ""

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.controls.Zoom(1 / zoomStep)
		return
	case msg.Button == tea.MouseButtonWheelDown:
		m.controls.Zoom(zoomStep)
		return
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inMap {
			m.click.Press()
			m.lastX, m.lastY = msg.X, msg.Y
		}
	case msg.Action == tea.MouseActionMotion:
		if m.click.Pressed() && (msg.X != m.lastX || msg.Y != m.lastY) {
			m.click.Move()
			_, h := m.viewport()
			dx := float64((msg.X - m.lastX) * m.cellW)
			dy := float64((msg.Y - m.lastY) * m.cellH)
			m.controls.Rotate(dx, dy, h)
			m.lastX, m.lastY = msg.X, msg.Y
		}
	case msg.Action == tea.MouseActionRelease:
		if m.click.Release() && inMap {
			if lat, lon, ok := m.pick(cx, cy); ok {
				if e, ok := m.sess.Registry().At(lat, lon); ok {
					m.toggle(e.Name)
				}
			}
		}
	}

	// track hover over map area
	m.hoverHasGeo = false
	m.hoverCountry = ""
	if !inMap {
		return
	}
	if lat, lon, ok := m.pick(cx, cy); ok {
		m.hoverHasGeo = true
		m.hoverLat, m.hoverLon = lat, lon
		if e, ok := m.sess.Registry().At(lat, lon); ok {
			m.hoverCountry = e.Name
		}
	}
}

// inspect describes the hovered country, or the one at the center of the map.
func (m *Model) inspect() {
	name := m.hoverCountry
	if name == "" {
		if lat, lon, ok := m.pick(m.mapW/2, m.mapH/2); ok {
			if e, ok := m.sess.Registry().At(lat, lon); ok {
				name = e.Name
			}
		}
	}
	e, ok := m.sess.Registry().Get(name)
	if !ok {
		m.inspectPopup = ""
		m.status = "no country here"
		return
	}
	meta := []string{
		fmt.Sprintf("name: %s", e.Name),
		fmt.Sprintf("iso: %s", country.ISOCode(e.Name)),
		fmt.Sprintf("region: %s", country.Region(e.Name)),
		fmt.Sprintf("visited: %v", m.sess.Has(e.Name)),
		fmt.Sprintf("major: %v", e.Major),
		fmt.Sprintf("bbox: [%.3f, %.3f, %.3f, %.3f]", e.BBox.MinX, e.BBox.MinY, e.BBox.MaxX, e.BBox.MaxY),
	}
	if lon, lat, ok := e.LonLat(); ok {
		meta = append(meta, fmt.Sprintf("center: lon=%.4f lat=%.4f", lon, lat))
	}
	if p, ok := m.frame.Get(e.Name); ok {
		meta = append(meta, fmt.Sprintf("label: priority=%.1f depth=%.1f z=%d", p.Priority, p.Depth, p.ZIndex))
	} else {
		meta = append(meta, "label: hidden")
	}
	keys := make([]string, 0, len(e.Properties))
	for k := range e.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i == 8 {
			meta = append(meta, fmt.Sprintf("… %d more", len(keys)-i))
			break
		}
		meta = append(meta, fmt.Sprintf("%s: %s", k, truncate(formatProperty(e.Properties[k]), 32)))
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect " + e.Name + " (esc to close)"
}
