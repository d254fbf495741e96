package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mattn/go-runewidth"

	"geoglobe/internal/globe"
)

// limbSegments is the number of points sampled on the globe silhouette.
const limbSegments = 180

// styledCell is one terminal cell of the composed map.
type styledCell struct {
	r    rune
	kind cellKind
}

// microProjector maps world points to the braille microgrid of a w×h cell map.
type microProjector struct {
	vp     mgl64.Mat4
	eye    mgl64.Vec3
	width  float64 // virtual pixels
	height float64
	cellW  float64
	cellH  float64
}

func (m Model) projector(w, h int) microProjector {
	return microProjector{
		vp:     m.cam.ViewProjection(),
		eye:    m.cam.Position,
		width:  float64(w * m.cellW),
		height: float64(h * m.cellH),
		cellW:  float64(m.cellW),
		cellH:  float64(m.cellH),
	}
}

// micro projects v to micro coordinates (2x4 per cell).
func (p microProjector) micro(v mgl64.Vec3) (int, int, bool) {
	ndc, ok := globe.Project(p.vp, v)
	if !ok {
		return 0, 0, false
	}
	px, py := globe.NDCToPixel(ndc, p.width, p.height)
	return int(px * 2 / p.cellW), int(py * 4 / p.cellH), true
}

// ring projects a lon/lat ring on the surface. all is false when part of the
// ring lies on the far hemisphere; visible holds nil for hidden vertices.
func (p microProjector) ring(ring [][2]float64) (visible []*[2]int, all bool) {
	visible = make([]*[2]int, len(ring))
	all = true
	for i, pt := range ring {
		v := globe.LatLonToVec3(pt[1], pt[0], globe.SurfaceRadius)
		if !globe.FacesCamera(v, globe.Center, p.eye) {
			all = false
			continue
		}
		mx, my, ok := p.micro(v)
		if !ok {
			all = false
			continue
		}
		visible[i] = &[2]int{mx, my}
	}
	return visible, all
}

func (m Model) renderGlobe(w, h int) string {
	br := newBrailleBuf(w, h)
	proj := m.projector(w, h)

	// Globe limb
	limb := globe.Horizon(globe.Center, globe.Radius, proj.eye, limbSegments)
	var limbMic [][2]int
	for _, v := range limb {
		if mx, my, ok := proj.micro(v); ok {
			limbMic = append(limbMic, [2]int{mx, my})
		}
	}
	for i := range limbMic {
		a, b := limbMic[i], limbMic[(i+1)%len(limbMic)]
		br.drawLineMicro(a[0], a[1], b[0], b[1], cellLimb)
	}

	// Countries: fill visited ones, then outline everything on the near side
	for _, e := range m.sess.Registry().Entries() {
		visited := m.sess.Has(e.Name)
		kind := cellOutline
		switch {
		case e.Name == m.hoverCountry:
			kind = cellHover
		case visited:
			kind = cellVisited
		}
		if e.Point != nil && len(e.Rings) == 0 {
			if v, ok := e.Country.Anchor(globe.SurfaceRadius); ok && globe.FacesCamera(v, globe.Center, proj.eye) {
				if mx, my, ok := proj.micro(v); ok {
					br.setPixel(mx, my, kind)
				}
			}
			continue
		}
		for _, ring := range e.Rings {
			pts, all := proj.ring(ring)
			if visited && all {
				fillRing(br, pts, h*4, cellVisited)
			}
			for i := range pts {
				a, b := pts[i], pts[(i+1)%len(pts)]
				if a == nil || b == nil {
					continue
				}
				br.drawLineMicro(a[0], a[1], b[0], b[1], kind)
			}
		}
	}

	grid := make([][]styledCell, h)
	for y := 0; y < h; y++ {
		grid[y] = make([]styledCell, w)
		for x := 0; x < w; x++ {
			grid[y][x] = styledCell{r: br.glyph(x, y), kind: br.kind[y][x]}
		}
	}
	m.overlayLabels(grid)
	return joinGrid(grid)
}

// fillRing fills a ring on the microgrid with the even-odd rule per scanline.
func fillRing(br *brailleBuf, ring []*[2]int, hMic int, k cellKind) {
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for i := 0; i < len(ring); i++ {
			a := ring[i]
			b := ring[(i+1)%len(ring)]
			if a[1] == b[1] { // horizontal edge: skip
				continue
			}
			y0, y1 := a[1], b[1]
			x0, x1 := a[0], b[0]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				t := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= xs[i+1]; xMic++ {
				br.setPixel(xMic, yMic, k)
			}
		}
	}
}

// overlayLabels writes the selected labels centered on their anchors, lowest ZIndex first.
func (m Model) overlayLabels(grid [][]styledCell) {
	for _, p := range m.frame.DrawOrder() {
		row := int(p.Y / float64(m.cellH))
		if row < 0 || row >= len(grid) {
			continue
		}
		kind := cellLabel
		if p.Visited {
			kind = cellLabelVisited
		}
		// centered on the same cell width the selector measured
		x := int(p.X/float64(m.cellW)) - lipgloss.Width(p.Name)/2
		for _, r := range p.Name {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if x >= 0 && x+w <= len(grid[row]) {
				grid[row][x] = styledCell{r: r, kind: kind}
				// the rune spans the following cells
				for i := 1; i < w; i++ {
					grid[row][x+i] = styledCell{kind: kind}
				}
			}
			x += w
		}
	}
}

// joinGrid renders rows, styling runs of cells that share a style.
func joinGrid(grid [][]styledCell) string {
	lines := make([]string, len(grid))
	for y, row := range grid {
		var sb strings.Builder
		for x := 0; x < len(row); {
			kind := row[x].kind
			end := x
			var run []rune
			for end < len(row) && row[end].kind == kind {
				if row[end].r != 0 {
					run = append(run, row[end].r)
				}
				end++
			}
			if st, ok := cellStyles[kind]; ok {
				sb.WriteString(st.Render(string(run)))
			} else {
				sb.WriteString(string(run))
			}
			x = end
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
