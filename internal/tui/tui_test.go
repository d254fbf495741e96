package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoglobe/internal/config"
	"geoglobe/internal/geom"
	"geoglobe/internal/session"
	"geoglobe/internal/storage"
	"geoglobe/internal/storage/memory"
)

func square(t *testing.T, name string, lon, lat, side float64) geom.Country {
	t.Helper()
	wkt := fmt.Sprintf("POLYGON((%[1]g %[2]g, %[3]g %[2]g, %[3]g %[4]g, %[1]g %[4]g, %[1]g %[2]g))",
		lon, lat, lon+side, lat+side)
	c, err := geom.ParseWKT(name, wkt)
	require.NoError(t, err)
	return c
}

// The default camera looks at lon -90, lat 0.
func testCountries(t *testing.T) []geom.Country {
	return []geom.Country{
		square(t, "Frontland", -92, -2, 4),
		square(t, "Farland", 88, -2, 4),
		square(t, "Northia", -92, 40, 4),
	}
}

type fixture struct {
	m       Model
	sess    *session.Session
	backend *memory.Backend
	now     time.Time
	copied  []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, testCountries(t))
}

func newFixtureWith(t *testing.T, cs []geom.Country) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{backend: memory.New(), now: time.Unix(1000, 0)}
	sess, err := session.Open(ctx, cs, f.backend, "", nil)
	require.NoError(t, err)
	f.sess = sess

	cfg := config.Default()
	cfg.Storage.DataDir = t.TempDir()
	m := New(ctx, sess, cfg, nil,
		WithClock(func() time.Time { return f.now }),
		WithClipboard(func(s string) error {
			f.copied = append(f.copied, s)
			return nil
		}),
	)
	f.m = m
	f.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return f
}

func (f *fixture) send(msg tea.Msg) tea.Cmd {
	tm, cmd := f.m.Update(msg)
	f.m = tm.(Model)
	return cmd
}

func (f *fixture) key(s string) tea.Cmd {
	switch s {
	case "tab":
		return f.send(tea.KeyMsg{Type: tea.KeyTab})
	case "enter":
		return f.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return f.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "left":
		return f.send(tea.KeyMsg{Type: tea.KeyLeft})
	}
	return f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// centerCell is the screen cell in the middle of the map, header included.
func (f *fixture) centerCell() (int, int) {
	lo := f.m.layout()
	return lo.originX + lo.mapW/2, lo.originY + lo.mapH/2
}

func (f *fixture) mouse(x, y int, action tea.MouseAction) {
	f.send(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func TestClickTracker(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewClickTracker(func() time.Time { return now })

	assert.False(t, c.Release(), "release without press")

	c.Press()
	assert.True(t, c.Release(), "plain click")

	c.Press()
	c.Move()
	now = now.Add(100 * time.Millisecond)
	assert.True(t, c.Release(), "quick drag still clicks")

	c.Press()
	c.Move()
	now = now.Add(300 * time.Millisecond)
	assert.False(t, c.Release(), "slow drag")

	c.Press()
	now = now.Add(2 * time.Second)
	assert.True(t, c.Release(), "long press without motion")

	assert.False(t, c.Move(), "motion with button up")
}

func TestFrameSelectsFacingLabels(t *testing.T) {
	f := newFixture(t)
	frame := f.m.Frame()
	assert.True(t, frame.IsVisible("Frontland"))
	assert.True(t, frame.IsVisible("Northia"))
	assert.False(t, frame.IsVisible("Farland"))
	assert.Contains(t, frame.Hidden, "Farland")
}

func TestTickKeepsAnimating(t *testing.T) {
	f := newFixture(t)
	f.m.controls.RotateAngles(0.5, 0)
	cmd := f.send(frameMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.NotZero(t, f.m.controls.Theta)
}

func TestClickTogglesCountry(t *testing.T) {
	f := newFixture(t)
	x, y := f.centerCell()

	f.mouse(x, y, tea.MouseActionPress)
	f.mouse(x, y, tea.MouseActionRelease)

	assert.True(t, f.sess.Has("Frontland"))
	assert.Equal(t, "Frontland visited!", f.m.Status())
	stored, ok, err := f.backend.Load(context.Background(), storage.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Frontland"}, stored)

	p, ok := f.m.Frame().Get("Frontland")
	require.True(t, ok)
	assert.True(t, p.Visited)

	f.mouse(x, y, tea.MouseActionPress)
	f.mouse(x, y, tea.MouseActionRelease)
	assert.False(t, f.sess.Has("Frontland"))
	assert.Equal(t, "Frontland marked as not visited", f.m.Status())
}

func TestSlowDragDoesNotToggle(t *testing.T) {
	f := newFixture(t)
	x, y := f.centerCell()

	f.mouse(x, y, tea.MouseActionPress)
	f.mouse(x+5, y, tea.MouseActionMotion)
	f.now = f.now.Add(500 * time.Millisecond)
	f.mouse(x+5, y, tea.MouseActionRelease)

	assert.Equal(t, 0, f.sess.Count())
	assert.True(t, f.m.controls.Moving())
}

func TestQuickDragStillToggles(t *testing.T) {
	f := newFixture(t)
	x, y := f.centerCell()

	f.mouse(x, y, tea.MouseActionPress)
	f.mouse(x+1, y, tea.MouseActionMotion)
	f.now = f.now.Add(50 * time.Millisecond)
	// the camera has not moved yet: rotation is applied on the next frame
	f.mouse(x, y, tea.MouseActionRelease)

	assert.True(t, f.sess.Has("Frontland"))
}

func TestHoverShowsCountry(t *testing.T) {
	f := newFixture(t)
	x, y := f.centerCell()
	f.mouse(x, y, tea.MouseActionMotion)
	assert.Equal(t, "Frontland", f.m.hoverCountry)
	assert.Contains(t, f.m.View(), "Frontland")

	// The corner of the map is off the globe.
	lo := f.m.layout()
	f.mouse(lo.originX, lo.originY, tea.MouseActionMotion)
	assert.Empty(t, f.m.hoverCountry)
	assert.False(t, f.m.hoverHasGeo)
}

func TestWheelZooms(t *testing.T) {
	f := newFixture(t)
	before := f.m.controls.Distance
	f.send(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Less(t, f.m.controls.Distance, before)
	f.send(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.InDelta(t, before, f.m.controls.Distance, 1e-9)
}

func TestKeyboardRotateAndZoom(t *testing.T) {
	f := newFixture(t)
	f.key("left")
	assert.True(t, f.m.controls.Moving())
	f.key("+")
	assert.Less(t, f.m.controls.Distance, 200.0)
	assert.Contains(t, f.m.Status(), "distance")
}

func TestCountryListToggle(t *testing.T) {
	f := newFixture(t)
	f.key("tab")
	require.True(t, f.m.showSidebar)
	// Names are sorted: Farland comes first.
	f.key("enter")
	assert.True(t, f.sess.Has("Farland"))
	// The globe turned to face it.
	assert.True(t, f.m.Frame().IsVisible("Farland"))

	item, ok := f.m.l.SelectedItem().(countryItem)
	require.True(t, ok)
	assert.True(t, item.visited)
	assert.True(t, strings.HasPrefix(item.Title(), "✓"))
}

func TestCopyExportReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sess.Toggle(ctx, "Northia")
	require.NoError(t, err)
	_, err = f.sess.Toggle(ctx, "Frontland")
	require.NoError(t, err)

	f.key("y")
	require.Len(t, f.copied, 1)
	assert.Equal(t, "Frontland\nNorthia", f.copied[0])

	f.m.exportPath = filepath.Join(t.TempDir(), "not-created-yet", "out.geojson")
	f.key("e")
	assert.Contains(t, f.m.Status(), "exported 2 countries")
	_, err = os.Stat(f.m.exportPath)
	require.NoError(t, err)

	f.key("r")
	assert.Equal(t, session.ResetMessage, f.m.Status())
	assert.Equal(t, 0, f.sess.Count())
}

func TestLabelsToggle(t *testing.T) {
	f := newFixture(t)
	f.key("l")
	assert.Empty(t, f.m.Frame().Visible)
	f.key("l")
	assert.NotEmpty(t, f.m.Frame().Visible)
}

func TestVisitedTable(t *testing.T) {
	f := newFixture(t)
	f.key("v")
	assert.Contains(t, f.m.View(), emptyVisitedText)

	_, err := f.sess.Toggle(context.Background(), "Northia")
	require.NoError(t, err)
	f.m.refreshVisited()
	rows := f.m.tbl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Northia", rows[0][1])

	f.key("esc")
	assert.False(t, f.m.showVisited)
}

func TestInspect(t *testing.T) {
	f := newFixture(t)
	f.key("i")
	assert.Contains(t, f.m.inspectPopup, "name: Frontland")
	assert.Contains(t, f.m.inspectPopup, "visited: false")
	f.key("esc")
	assert.Empty(t, f.m.inspectPopup)
}

func TestLocate(t *testing.T) {
	f := newFixture(t)
	f.m.locate("POINT(90 0)")
	assert.Contains(t, f.m.Status(), "Farland")
	assert.True(t, f.m.Frame().IsVisible("Farland"))

	f.m.locate("Northia")
	assert.Equal(t, "located: Northia", f.m.Status())

	f.m.locate("not wkt at all")
	assert.Contains(t, f.m.Status(), "locate:")
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	cmd := f.key("q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderGlobe(t *testing.T) {
	f := newFixture(t)
	out := f.m.renderGlobe(f.m.mapW, f.m.mapH)
	assert.Equal(t, f.m.mapH, strings.Count(out, "\n")+1)
	assert.Contains(t, out, "Frontland")
	hasBraille := strings.IndexFunc(out, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }) >= 0
	assert.True(t, hasBraille)
}

func TestRenderWideLabel(t *testing.T) {
	f := newFixtureWith(t, []geom.Country{square(t, "日本国", -92, -2, 4)})
	require.True(t, f.m.Frame().IsVisible("日本国"))

	out := f.m.renderGlobe(f.m.mapW, f.m.mapH)
	assert.Contains(t, out, "日本国")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, f.m.mapW, lipgloss.Width(line))
	}

	// The label is centered on its anchor by display width.
	p, ok := f.m.Frame().Get("日本国")
	require.True(t, ok)
	row := strings.Split(out, "\n")[int(p.Y/float64(f.m.cellH))]
	plain := ansi.Strip(row)
	start := strings.Index(plain, "日本国")
	require.GreaterOrEqual(t, start, 0)
	col := lipgloss.Width(plain[:start])
	assert.Equal(t, int(p.X/float64(f.m.cellW))-lipgloss.Width("日本国")/2, col)
}
