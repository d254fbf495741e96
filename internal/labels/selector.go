// Package labels decides, once per frame, which country names are drawn on the globe.
//
// Selection is a pure function of the camera, the label set and the visited set:
// far-side and off-screen labels are culled, the rest are ranked by visited/major
// status and screen centrality, then placed greedily without overlapping boxes.
package labels

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"geoglobe/internal/globe"
)

// Label is one country's name attached to a fixed point above the globe surface.
type Label struct {
	Name   string
	Anchor mgl64.Vec3
	Major  bool
}

// Visited reports membership in the visited set.
type Visited interface {
	Has(name string) bool
}

// Names is a plain Visited set.
type Names map[string]struct{}

func NewNames(names ...string) Names {
	n := make(Names, len(names))
	for _, s := range names {
		n[s] = struct{}{}
	}
	return n
}

func (n Names) Has(name string) bool {
	_, ok := n[name]
	return ok
}

// Measurer returns the drawn size of a label in pixels.
// A non-positive size means the label cannot be measured yet.
type Measurer func(name string) (width, height float64)

// View is the camera state of one frame.
type View struct {
	Camera   mgl64.Vec3 // camera position
	ViewProj mgl64.Mat4
	Center   mgl64.Vec3 // globe center
	Width    float64    // viewport size in pixels
	Height   float64
}

// ViewFromCamera builds a View for a width×height pixel viewport.
func ViewFromCamera(c globe.Camera, width, height float64) View {
	return View{
		Camera:   c.Position,
		ViewProj: c.ViewProjection(),
		Center:   globe.Center,
		Width:    width,
		Height:   height,
	}
}

// Options tunes selection. DefaultOptions matches the behavior of the web globe.
type Options struct {
	MaxLabels      int
	Margin         float64 // added on every side of a label box
	Bound          float64 // |ndc| must stay strictly below this
	TieBand        float64 // priorities closer than this are ordered by depth
	VisitedBoost   float64
	MajorBoost     float64
	CenterWeight   float64 // penalty per unit of NDC distance from screen center
	FallbackWidth  float64
	FallbackHeight float64
}

func DefaultOptions() Options {
	return Options{
		MaxLabels:      15,
		Margin:         15,
		Bound:          0.9,
		TieBand:        100,
		VisitedBoost:   1000,
		MajorBoost:     500,
		CenterWeight:   100,
		FallbackWidth:  100,
		FallbackHeight: 20,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.MaxLabels <= 0 {
		o.MaxLabels = d.MaxLabels
	}
	if o.Bound <= 0 {
		o.Bound = d.Bound
	}
	if o.FallbackWidth <= 0 {
		o.FallbackWidth = d.FallbackWidth
	}
	if o.FallbackHeight <= 0 {
		o.FallbackHeight = d.FallbackHeight
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	return o
}

// Box is a screen-space rectangle, y grows downwards.
type Box struct {
	Left, Right, Top, Bottom float64
}

// Overlaps reports whether b and o intersect. Shared edges count.
func (b Box) Overlaps(o Box) bool {
	return !(b.Right < o.Left || b.Left > o.Right || b.Bottom < o.Top || b.Top > o.Bottom)
}

// Placement is a label accepted for the current frame.
type Placement struct {
	Name     string
	X, Y     float64 // pixel position of the anchor
	Depth    float64 // distance from the camera
	Priority float64
	ZIndex   int
	Box      Box
	Visited  bool
	Major    bool
}

// Frame is the selector output. Hidden keeps the input order.
type Frame struct {
	Visible []Placement
	Hidden  []string
}

// IsVisible reports whether name was placed.
func (f Frame) IsVisible(name string) bool {
	for _, p := range f.Visible {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Get returns the placement of name.
func (f Frame) Get(name string) (Placement, bool) {
	for _, p := range f.Visible {
		if p.Name == name {
			return p, true
		}
	}
	return Placement{}, false
}

// DrawOrder returns the visible labels back to front.
func (f Frame) DrawOrder() []Placement {
	out := make([]Placement, len(f.Visible))
	copy(out, f.Visible)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Selector runs the per-frame selection. It keeps no state between calls.
type Selector struct {
	opts    Options
	measure Measurer
}

func NewSelector(opts Options, measure Measurer) *Selector {
	return &Selector{opts: opts.normalized(), measure: measure}
}

// Options returns the effective options.
func (s *Selector) Options() Options { return s.opts }

// Select picks the labels to draw for view.
func (s *Selector) Select(view View, all []Label, visited Visited) Frame {
	var frame Frame
	candidates := make([]Placement, 0, len(all))
	for _, l := range all {
		p, ok := s.candidate(view, l, visited)
		if !ok {
			frame.Hidden = append(frame.Hidden, l.Name)
			continue
		}
		candidates = append(candidates, p)
	}

	band := s.opts.TieBand
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if math.Abs(a.Priority-b.Priority) > band {
			return a.Priority > b.Priority
		}
		return a.Depth < b.Depth
	})

	limit := s.opts.MaxLabels
	if len(candidates) < limit {
		limit = len(candidates)
	}

	accepted := make(map[string]bool, limit)
	for _, c := range candidates {
		if len(frame.Visible) >= limit || overlapsAny(c.Box, frame.Visible) {
			continue
		}
		c.ZIndex = 1000 - int(math.Round(c.Depth))
		frame.Visible = append(frame.Visible, c)
		accepted[c.Name] = true
	}
	for _, c := range candidates {
		if !accepted[c.Name] {
			frame.Hidden = append(frame.Hidden, c.Name)
		}
	}
	frame.Hidden = inputOrder(frame.Hidden, all)
	return frame
}

func (s *Selector) candidate(view View, l Label, visited Visited) (Placement, bool) {
	if l.Name == "" || !finite(l.Anchor) || l.Anchor.Sub(view.Center).Len() == 0 {
		return Placement{}, false
	}
	if !globe.FacesCamera(l.Anchor, view.Center, view.Camera) {
		return Placement{}, false
	}

	ndc, ok := globe.Project(view.ViewProj, l.Anchor)
	if !ok {
		return Placement{}, false
	}
	x, y := ndc.X(), ndc.Y()
	b := s.opts.Bound
	if !(x > -b && x < b && y > -b && y < b) {
		return Placement{}, false
	}

	isVisited := visited != nil && visited.Has(l.Name)
	priority := 0.0
	if isVisited {
		priority += s.opts.VisitedBoost
	}
	if l.Major {
		priority += s.opts.MajorBoost
	}
	priority -= s.opts.CenterWeight * math.Sqrt(x*x+y*y)

	px, py := globe.NDCToPixel(ndc, view.Width, view.Height)
	w, h := s.size(l.Name)
	m := s.opts.Margin
	return Placement{
		Name:     l.Name,
		X:        px,
		Y:        py,
		Depth:    l.Anchor.Sub(view.Camera).Len(),
		Priority: priority,
		Box: Box{
			Left:   px - w/2 - m,
			Right:  px + w/2 + m,
			Top:    py - h/2 - m,
			Bottom: py + h/2 + m,
		},
		Visited: isVisited,
		Major:   l.Major,
	}, true
}

func (s *Selector) size(name string) (float64, float64) {
	if s.measure != nil {
		w, h := s.measure(name)
		if w > 0 && h > 0 && !math.IsInf(w, 0) && !math.IsInf(h, 0) {
			return w, h
		}
	}
	return s.opts.FallbackWidth, s.opts.FallbackHeight
}

func overlapsAny(b Box, placed []Placement) bool {
	for _, p := range placed {
		if b.Overlaps(p.Box) {
			return true
		}
	}
	return false
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// inputOrder sorts hidden names back into the order of the label set.
func inputOrder(hidden []string, all []Label) []string {
	if len(hidden) < 2 {
		return hidden
	}
	pos := make(map[string]int, len(all))
	for i, l := range all {
		if _, ok := pos[l.Name]; !ok {
			pos[l.Name] = i
		}
	}
	sort.SliceStable(hidden, func(i, j int) bool { return pos[hidden[i]] < pos[hidden[j]] })
	return hidden
}
