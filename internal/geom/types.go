package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	sf "github.com/peterstace/simplefeatures/geom"

	"geoglobe/internal/globe"
)

// BBox is a lon/lat bounding box.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows b to include pt. first reports whether b is still empty.
func (b BBox) Extend(pt [2]float64, first bool) BBox {
	if first {
		return BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	}
	if pt[0] < b.MinX {
		b.MinX = pt[0]
	}
	if pt[1] < b.MinY {
		b.MinY = pt[1]
	}
	if pt[0] > b.MaxX {
		b.MaxX = pt[0]
	}
	if pt[1] > b.MaxY {
		b.MaxY = pt[1]
	}
	return b
}

// Union returns the box covering b and o.
func (b BBox) Union(o BBox) BBox {
	b = b.Extend([2]float64{o.MinX, o.MinY}, false)
	return b.Extend([2]float64{o.MaxX, o.MaxY}, false)
}

// Country is one named feature of a country dataset.
type Country struct {
	Name string
	// Outer ring of every polygon, [lon, lat] vertices.
	Rings [][][2]float64
	// Point is set for countries given only by a location.
	Point *[2]float64
	// Shape is used for point-in-country tests.
	Shape      sf.Geometry
	BBox       BBox
	Properties map[string]any
}

// Contains reports whether the lon/lat point lies inside the country shape.
func (c Country) Contains(lon, lat float64) bool {
	if c.Shape.IsEmpty() {
		return false
	}
	if lon < c.BBox.MinX || lon > c.BBox.MaxX || lat < c.BBox.MinY || lat > c.BBox.MaxY {
		return false
	}
	pt, err := sf.XY{X: lon, Y: lat}.AsPoint()
	if err != nil {
		return false
	}
	return sf.Intersects(c.Shape, pt.AsGeometry())
}

// Centroid is the mean of the outline vertices placed on the outline sphere.
// ok is false when the country has no vertices.
func (c Country) Centroid() (v mgl64.Vec3, ok bool) {
	if c.Point != nil && len(c.Rings) == 0 {
		return globe.LatLonToVec3(c.Point[1], c.Point[0], globe.SurfaceRadius), true
	}
	n := 0
	for _, ring := range c.Rings {
		for _, p := range ring {
			v = v.Add(globe.LatLonToVec3(p[1], p[0], globe.SurfaceRadius))
			n++
		}
	}
	if n == 0 {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / float64(n)), true
}

// Anchor is the label position: the centroid pushed out to radius r.
func (c Country) Anchor(r float64) (mgl64.Vec3, bool) {
	v, ok := c.Centroid()
	if !ok || v.Len() == 0 {
		return mgl64.Vec3{}, false
	}
	return v.Normalize().Mul(r), true
}

// LonLat is the geographic position of the anchor.
func (c Country) LonLat() (lon, lat float64, ok bool) {
	v, ok := c.Anchor(globe.LabelRadius)
	if !ok {
		return 0, 0, false
	}
	lat, lon = globe.Vec3ToLatLon(v)
	return lon, lat, true
}

// Size is the volume of the 3D bounding box of the outline vertices.
func (c Country) Size() float64 {
	minV := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	maxV := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	n := 0
	for _, ring := range c.Rings {
		for _, p := range ring {
			v := globe.LatLonToVec3(p[1], p[0], globe.SurfaceRadius)
			for i := 0; i < 3; i++ {
				minV[i] = math.Min(minV[i], v[i])
				maxV[i] = math.Max(maxV[i], v[i])
			}
			n++
		}
	}
	if n == 0 {
		return 0
	}
	d := maxV.Sub(minV)
	return d.X() * d.Y() * d.Z()
}

// Data is a loaded country dataset.
type Data struct {
	Countries []Country
	BBox      BBox
	// Skipped counts features dropped for missing names or unusable geometry.
	Skipped int
}

func (d *Data) add(c Country) {
	if len(d.Countries) == 0 {
		d.BBox = c.BBox
	} else {
		d.BBox = d.BBox.Union(c.BBox)
	}
	d.Countries = append(d.Countries, c)
}
