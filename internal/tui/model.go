package tui

import (
	"context"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"geoglobe/internal/config"
	"geoglobe/internal/globe"
	"geoglobe/internal/labels"
	"geoglobe/internal/session"
)

const sidebarWidth = 28

type Model struct {
	width  int
	height int

	ctx  context.Context
	sess *session.Session
	log  *zap.Logger

	showSidebar bool
	helpVisible bool
	showLabels  bool
	showVisited bool

	status string

	// camera and label selection
	controls *globe.OrbitControls
	selector *labels.Selector
	fovY     float64
	fps      int
	cellW    int
	cellH    int

	// last frame, rebuilt on every tick
	cam   globe.Camera
	frame labels.Frame
	mapW  int
	mapH  int

	// country picker
	l list.Model

	// locate mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// hover state
	hoverHasGeo  bool
	hoverLon     float64
	hoverLat     float64
	hoverCountry string

	// mouse gesture
	click *ClickTracker
	lastX int
	lastY int

	// visited table
	tbl table.Model

	exportPath string
	copyText   func(string) error
}

// Option customizes a Model.
type Option func(*Model)

// WithClock sets the clock used to tell clicks from drags.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.click = NewClickTracker(now) }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.copyText = fn }
}

// WithExportPath sets where the visited list is exported.
func WithExportPath(path string) Option {
	return func(m *Model) { m.exportPath = path }
}

// New builds the globe view for sess.
func New(ctx context.Context, sess *session.Session, cfg *config.Config, log *zap.Logger, opts ...Option) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	m := Model{
		ctx:         ctx,
		sess:        sess,
		log:         log,
		helpVisible: true,
		showLabels:  cfg.UI.ShowLabels,
		status:      session.CountMessage(sess.Count()),
		fovY:        cfg.Camera.FovY,
		fps:         cfg.UI.FPS,
		cellW:       cfg.UI.CellWidth,
		cellH:       cfg.UI.CellHeight,
		click:       NewClickTracker(nil),
		exportPath:  filepath.Join(cfg.Storage.DataDir, "visited.geojson"),
		copyText:    clipboard.WriteAll,
	}
	if m.fps <= 0 {
		m.fps = 30
	}
	if m.cellW <= 0 {
		m.cellW = 8
	}
	if m.cellH <= 0 {
		m.cellH = 16
	}

	c := globe.NewOrbitControls()
	c.Distance = cfg.Camera.Distance
	c.MinDistance = cfg.Camera.MinDistance
	c.MaxDistance = cfg.Camera.MaxDistance
	c.RotateSpeed = cfg.Camera.RotateSpeed
	c.DampingFactor = cfg.Camera.DampingFactor
	c.Zoom(1) // clamp the configured distance
	m.controls = c

	cellW, cellH := float64(m.cellW), float64(m.cellH)
	m.selector = labels.NewSelector(cfg.Labels.Options(), func(name string) (float64, float64) {
		return float64(lipgloss.Width(name)) * cellW, cellH
	})

	// country list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Countries"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Country name or WKT (POINT(lon lat), POLYGON). Enter to locate; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(4)
	// visited table setup
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)

	for _, o := range opts {
		o(&m)
	}
	m.refreshCountries()
	return m
}

// frameMsg drives the animation loop.
type frameMsg time.Time

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Frame returns the label selection of the last frame.
func (m Model) Frame() labels.Frame { return m.frame }

// Status returns the current status line.
func (m Model) Status() string { return m.status }

// layout is the screen geometry shared by View and mouse handling.
type layout struct {
	contentW int
	contentH int
	sidebarW int
	originX  int
	originY  int
	mapW     int
	mapH     int
}

func (m Model) layout() layout {
	headerHeight := 1
	footerHeight := 2
	lo := layout{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		originY:  headerHeight,
	}
	lo.mapW = lo.contentW
	if m.showSidebar {
		lo.sidebarW = sidebarWidth
		lo.originX = sidebarWidth + 1
		lo.mapW = lo.contentW - sidebarWidth - 1
	}
	lo.mapW = max(10, lo.mapW)
	lo.mapH = lo.contentH
	return lo
}

// viewport is the map size in virtual pixels.
func (m Model) viewport() (float64, float64) {
	return float64(m.mapW * m.cellW), float64(m.mapH * m.cellH)
}

// refreshFrame rebuilds the camera and runs the label selector.
func (m *Model) refreshFrame() {
	lo := m.layout()
	m.mapW, m.mapH = lo.mapW, lo.mapH
	w, h := m.viewport()
	m.cam = m.controls.Camera(w / h)
	if m.fovY > 0 {
		m.cam.FovY = m.fovY
	}
	if !m.showLabels {
		m.frame = labels.Frame{}
		return
	}
	view := labels.ViewFromCamera(m.cam, w, h)
	m.frame = m.selector.Select(view, m.sess.Labels(), m.sess)
}

// pick returns the geographic point under a map cell.
func (m Model) pick(cellX, cellY int) (lat, lon float64, ok bool) {
	w, h := m.viewport()
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	// aim at the middle of the cell
	px := (float64(cellX) + 0.5) * float64(m.cellW)
	py := (float64(cellY) + 0.5) * float64(m.cellH)
	hit, ok := m.cam.Ray(px, py, w, h).IntersectSphere(globe.Center, globe.SurfaceRadius)
	if !ok {
		return 0, 0, false
	}
	lat, lon = globe.Vec3ToLatLon(hit)
	return lat, lon, true
}
