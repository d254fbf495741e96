package labels

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoglobe/internal/globe"
)

const viewport = 800.0

func testView() (globe.Camera, View) {
	cam := globe.NewCamera(1)
	return cam, ViewFromCamera(cam, viewport, viewport)
}

// anchorAt returns the point of the label sphere drawn at pixel (x, y).
func anchorAt(t *testing.T, cam globe.Camera, x, y float64) mgl64.Vec3 {
	t.Helper()
	p, ok := cam.Ray(x, y, viewport, viewport).IntersectSphere(globe.Center, globe.LabelRadius)
	require.True(t, ok, "pixel (%v, %v) misses the globe", x, y)
	return p
}

func fixedSize(w, h float64) Measurer {
	return func(string) (float64, float64) { return w, h }
}

func TestSelectEmpty(t *testing.T) {
	_, view := testView()
	f := NewSelector(DefaultOptions(), nil).Select(view, nil, nil)
	assert.Empty(t, f.Visible)
	assert.Empty(t, f.Hidden)
}

func TestSelectFarSideHidden(t *testing.T) {
	cam, view := testView()
	front := anchorAt(t, cam, 400, 400)
	back := mgl64.Vec3{0, 0, -globe.LabelRadius}

	f := NewSelector(DefaultOptions(), nil).Select(view, []Label{
		{Name: "Front", Anchor: front},
		{Name: "Back", Anchor: back, Major: true},
	}, NewNames("Back"))

	assert.True(t, f.IsVisible("Front"))
	assert.False(t, f.IsVisible("Back"))
	assert.Equal(t, []string{"Back"}, f.Hidden)
}

func TestSelectOutsideBoundsHidden(t *testing.T) {
	// Looking beside the globe pushes part of the near hemisphere off screen.
	cam := globe.NewCamera(1)
	cam.Position = mgl64.Vec3{0, 0, 300}
	cam.Target = mgl64.Vec3{150, 0, 0}
	view := ViewFromCamera(cam, viewport, viewport)

	left := globe.LatLonToVec3(0, -150, globe.LabelRadius)
	require.True(t, globe.FacesCamera(left, globe.Center, cam.Position))
	ndc, ok := globe.Project(view.ViewProj, left)
	require.True(t, ok)
	require.Less(t, ndc.X(), -0.9)

	f := NewSelector(DefaultOptions(), nil).Select(view, []Label{{Name: "Left", Anchor: left, Major: true}}, nil)
	assert.Empty(t, f.Visible)
	assert.Equal(t, []string{"Left"}, f.Hidden)
}

func TestSelectMalformedAnchorsExcluded(t *testing.T) {
	cam, view := testView()
	f := NewSelector(DefaultOptions(), nil).Select(view, []Label{
		{Name: "NaN", Anchor: mgl64.Vec3{math.NaN(), 0, 0}},
		{Name: "Inf", Anchor: mgl64.Vec3{0, math.Inf(1), 0}},
		{Name: "Zero", Anchor: mgl64.Vec3{}},
		{Name: "", Anchor: anchorAt(t, cam, 200, 200)},
		{Name: "Ok", Anchor: anchorAt(t, cam, 400, 400)},
	}, nil)

	require.Len(t, f.Visible, 1)
	assert.Equal(t, "Ok", f.Visible[0].Name)
	assert.Equal(t, []string{"NaN", "Inf", "Zero", ""}, f.Hidden)
}

func TestSelectVisitedBeatsMajor(t *testing.T) {
	cam, view := testView()
	f := NewSelector(DefaultOptions(), nil).Select(view, []Label{
		{Name: "B", Anchor: anchorAt(t, cam, 404, 401), Major: true},
		{Name: "A", Anchor: anchorAt(t, cam, 400, 400)},
	}, NewNames("A"))

	require.Len(t, f.Visible, 1)
	assert.Equal(t, "A", f.Visible[0].Name)
	assert.True(t, f.Visible[0].Visited)
	assert.Equal(t, []string{"B"}, f.Hidden)
}

func TestSelectPriorityOutsideBandWins(t *testing.T) {
	cam, view := testView()
	// Near sits at the center, nearest to the camera; Far is a major country
	// a few pixels away and therefore slightly deeper.
	f := NewSelector(DefaultOptions(), nil).Select(view, []Label{
		{Name: "Near", Anchor: anchorAt(t, cam, 400, 400)},
		{Name: "Far", Anchor: anchorAt(t, cam, 430, 410), Major: true},
	}, nil)

	require.Len(t, f.Visible, 1)
	assert.Equal(t, "Far", f.Visible[0].Name)
}

func TestSelectTieBandPrefersNearer(t *testing.T) {
	cam, view := testView()
	f := NewSelector(DefaultOptions(), nil).Select(view, []Label{
		{Name: "Deeper", Anchor: anchorAt(t, cam, 430, 410)},
		{Name: "Nearer", Anchor: anchorAt(t, cam, 400, 400)},
	}, nil)

	require.Len(t, f.Visible, 1)
	assert.Equal(t, "Nearer", f.Visible[0].Name)
	assert.Equal(t, []string{"Deeper"}, f.Hidden)
}

func TestSelectTouchingBoxesOverlap(t *testing.T) {
	cam, view := testView()
	sel := NewSelector(DefaultOptions(), fixedSize(20, 10))
	a := Label{Name: "A", Anchor: anchorAt(t, cam, 400, 400)}

	// full box width is 20 + 2*15 = 50
	f := sel.Select(view, []Label{a, {Name: "B", Anchor: anchorAt(t, cam, 449.9, 400)}}, nil)
	assert.True(t, f.IsVisible("A"))
	assert.False(t, f.IsVisible("B"))

	f = sel.Select(view, []Label{a, {Name: "B", Anchor: anchorAt(t, cam, 450.5, 400)}}, nil)
	assert.True(t, f.IsVisible("A"))
	assert.True(t, f.IsVisible("B"))

	assert.True(t, Box{0, 10, 0, 10}.Overlaps(Box{10, 20, 0, 10}), "shared edge")
	assert.False(t, Box{0, 10, 0, 10}.Overlaps(Box{10.5, 20, 0, 10}))
	assert.True(t, Box{0, 10, 0, 10}.Overlaps(Box{2, 3, 2, 3}), "contained")
}

func TestSelectFallbackSize(t *testing.T) {
	cam, view := testView()
	unmeasured := func(name string) (float64, float64) {
		if name == "Late" {
			return 0, 0
		}
		return 40, 10
	}
	f := NewSelector(DefaultOptions(), unmeasured).Select(view, []Label{
		{Name: "Late", Anchor: anchorAt(t, cam, 400, 300)},
		{Name: "Ready", Anchor: anchorAt(t, cam, 400, 500)},
	}, nil)

	late, ok := f.Get("Late")
	require.True(t, ok)
	assert.InDelta(t, 100+30, late.Box.Right-late.Box.Left, 1e-9)
	assert.InDelta(t, 20+30, late.Box.Bottom-late.Box.Top, 1e-9)

	ready, ok := f.Get("Ready")
	require.True(t, ok)
	assert.InDelta(t, 40+30, ready.Box.Right-ready.Box.Left, 1e-9)
	assert.InDelta(t, 10+30, ready.Box.Bottom-ready.Box.Top, 1e-9)
}

func TestSelectPlacementFields(t *testing.T) {
	cam, view := testView()
	anchor := anchorAt(t, cam, 400, 400)
	f := NewSelector(DefaultOptions(), nil).Select(view, []Label{{Name: "C", Anchor: anchor, Major: true}}, NewNames("C"))

	p, ok := f.Get("C")
	require.True(t, ok)
	assert.InDelta(t, 400, p.X, 1e-6)
	assert.InDelta(t, 400, p.Y, 1e-6)
	assert.InDelta(t, 200-globe.LabelRadius, p.Depth, 1e-6)
	assert.InDelta(t, 1500, p.Priority, 1e-6)
	assert.Equal(t, 1000-98, p.ZIndex)
	assert.True(t, p.Major)
	assert.True(t, p.Visited)
}

func TestSelectTwentyMajorsShowsFifteen(t *testing.T) {
	cam, view := testView()

	// Two rows of ten, 60px apart horizontally and 40px vertically.
	// Offsets are asymmetric so every label has a distinct distance from center.
	var all []Label
	for row, dy := range []float64{0, 40} {
		for i := 0; i < 10; i++ {
			x := 400 - 260 + float64(i)*60
			all = append(all, Label{
				Name:   fmt.Sprintf("M%d-%d", row, i),
				Anchor: anchorAt(t, cam, x, 400+dy),
				Major:  true,
			})
		}
	}

	f := NewSelector(DefaultOptions(), fixedSize(20, 4)).Select(view, all, nil)
	require.Len(t, f.Visible, 15)
	require.Len(t, f.Hidden, 5)

	// the hidden ones are the five furthest from the screen center
	type ranked struct {
		name string
		r    float64
	}
	var rs []ranked
	for _, l := range all {
		ndc, ok := globe.Project(view.ViewProj, l.Anchor)
		require.True(t, ok)
		rs = append(rs, ranked{l.Name, math.Hypot(ndc.X(), ndc.Y())})
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].r > rs[j].r })
	var want []string
	for _, r := range rs[:5] {
		want = append(want, r.name)
	}
	assert.ElementsMatch(t, want, f.Hidden)
}

func TestSelectProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cam := globe.NewCamera(4.0 / 3.0)
	view := ViewFromCamera(cam, 1024, 768)

	var all []Label
	visited := Names{}
	for i := 0; i < 250; i++ {
		lat := rng.Float64()*180 - 90
		lon := rng.Float64()*360 - 180
		name := fmt.Sprintf("C%03d", i)
		all = append(all, Label{
			Name:   name,
			Anchor: globe.LatLonToVec3(lat, lon, globe.LabelRadius),
			Major:  rng.Intn(3) == 0,
		})
		if rng.Intn(5) == 0 {
			visited[name] = struct{}{}
		}
	}

	measure := func(name string) (float64, float64) { return float64(8 * len(name)), 16 }
	sel := NewSelector(DefaultOptions(), measure)
	f := sel.Select(view, all, visited)

	assert.LessOrEqual(t, len(f.Visible), 15)
	assert.Equal(t, len(all), len(f.Visible)+len(f.Hidden))

	for i, a := range f.Visible {
		assert.True(t, globe.FacesCamera(lookup(all, a.Name).Anchor, globe.Center, cam.Position), a.Name)
		for _, b := range f.Visible[i+1:] {
			assert.False(t, a.Box.Overlaps(b.Box), "%s overlaps %s", a.Name, b.Name)
		}
	}

	// frozen inputs give the same frame
	assert.Equal(t, f, sel.Select(view, all, visited))
}

func TestFrameDrawOrder(t *testing.T) {
	f := Frame{Visible: []Placement{
		{Name: "front", ZIndex: 900},
		{Name: "back", ZIndex: 880},
		{Name: "mid", ZIndex: 890},
	}}
	var names []string
	for _, p := range f.DrawOrder() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"back", "mid", "front"}, names)
	assert.Equal(t, "front", f.Visible[0].Name, "DrawOrder does not reorder the frame")
}

func TestOptionsNormalized(t *testing.T) {
	s := NewSelector(Options{VisitedBoost: 1}, nil)
	o := s.Options()
	assert.Equal(t, 15, o.MaxLabels)
	assert.Equal(t, 0.9, o.Bound)
	assert.Equal(t, 100.0, o.FallbackWidth)
	assert.Equal(t, 20.0, o.FallbackHeight)
	assert.Equal(t, 1.0, o.VisitedBoost)
}

func TestSelectMaxLabelsOption(t *testing.T) {
	cam, view := testView()
	opts := DefaultOptions()
	opts.MaxLabels = 2
	var all []Label
	for i := 0; i < 5; i++ {
		all = append(all, Label{Name: fmt.Sprint(i), Anchor: anchorAt(t, cam, 250+float64(i)*75, 400)})
	}
	f := NewSelector(opts, fixedSize(10, 10)).Select(view, all, nil)
	assert.Len(t, f.Visible, 2)
	assert.Len(t, f.Hidden, 3)
}

func lookup(all []Label, name string) Label {
	for _, l := range all {
		if l.Name == name {
			return l
		}
	}
	return Label{}
}
