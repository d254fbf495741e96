package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"go.uber.org/zap"

	"geoglobe/internal/country"
	"geoglobe/internal/geom"
	"geoglobe/internal/globe"
	"geoglobe/internal/session"
)

type countryItem struct {
	name    string
	iso     string
	region  string
	visited bool
}

func (c countryItem) Title() string {
	if c.visited {
		return "✓ " + c.name
	}
	return "  " + c.name
}

func (c countryItem) Description() string {
	parts := []string{}
	if c.iso != "" {
		parts = append(parts, c.iso)
	}
	if c.region != "" {
		parts = append(parts, c.region)
	}
	return "  " + strings.Join(parts, " · ")
}

func (c countryItem) FilterValue() string { return c.name }

// refreshCountries rebuilds the picker from the registry, keeping the selection.
func (m *Model) refreshCountries() {
	names := m.sess.Registry().Names()
	items := make([]list.Item, 0, len(names))
	for _, n := range names {
		items = append(items, countryItem{
			name:    n,
			iso:     country.ISOCode(n),
			region:  country.Region(n),
			visited: m.sess.Has(n),
		})
	}
	idx := m.l.Index()
	m.l.SetItems(items)
	if idx < len(items) {
		m.l.Select(idx)
	}
}

// toggle flips name and reports the outcome on the status line.
func (m *Model) toggle(name string) {
	visited, err := m.sess.Toggle(m.ctxOrBackground(), name)
	switch {
	case errors.Is(err, session.ErrUnknownCountry):
		m.status = "unknown country: " + name
		return
	case err != nil:
		m.status = session.ToggledMessage(name, visited) + " (not saved: " + err.Error() + ")"
	default:
		m.status = session.ToggledMessage(name, visited)
	}
	m.refreshCountries()
	if m.showVisited {
		m.refreshVisited()
	}
	m.refreshFrame()
}

// focus turns the globe towards a country.
func (m *Model) focus(name string) bool {
	e, ok := m.sess.Registry().Get(name)
	if !ok || !e.HasAnchor {
		return false
	}
	m.controls.Face(e.Anchor)
	m.refreshFrame()
	return true
}

// locate resolves typed input: a country name, or a WKT point or shape whose
// centroid is looked up on the globe.
func (m *Model) locate(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		m.status = "locate: empty"
		return
	}
	if _, ok := m.sess.Registry().Get(input); ok {
		m.focus(input)
		m.status = "located: " + input
		return
	}
	c, err := geom.ParseWKT("", input)
	if err != nil {
		m.status = "locate: no country or WKT: " + err.Error()
		m.log.Debug("locate failed", zap.String("input", input), zap.Error(err))
		return
	}
	v, ok := c.Anchor(globe.SurfaceRadius)
	if !ok {
		m.status = "locate: shape has no position"
		return
	}
	m.controls.Face(v)
	m.refreshFrame()
	lat, lon := globe.Vec3ToLatLon(v)
	if e, ok := m.sess.Registry().At(lat, lon); ok {
		m.status = fmt.Sprintf("located: %s (lon=%.4f lat=%.4f)", e.Name, lon, lat)
		return
	}
	m.status = fmt.Sprintf("located: lon=%.4f lat=%.4f", lon, lat)
}

func (m *Model) ctxOrBackground() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}
