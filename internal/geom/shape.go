package geom

import (
	"errors"
	"fmt"
	"math"

	geojson "github.com/paulmach/go.geojson"
	sf "github.com/peterstace/simplefeatures/geom"
)

var errNoRings = errors.New("no usable rings")

// cleanRing keeps finite [lon, lat] positions. Rings with fewer than 3 vertices are rejected.
func cleanRing(raw [][]float64) ([][2]float64, bool) {
	ring := make([][2]float64, 0, len(raw))
	for _, p := range raw {
		if len(p) < 2 || !finite(p[0]) || !finite(p[1]) {
			continue
		}
		ring = append(ring, [2]float64{p[0], p[1]})
	}
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n < 3 {
		return nil, false
	}
	return ring, true
}

// outerRings takes the first ring of every polygon of g.
func outerRings(g *geojson.Geometry) [][][2]float64 {
	if g == nil {
		return nil
	}
	var rings [][][2]float64
	switch {
	case g.IsPolygon():
		if len(g.Polygon) > 0 {
			if r, ok := cleanRing(g.Polygon[0]); ok {
				rings = append(rings, r)
			}
		}
	case g.IsMultiPolygon():
		for _, poly := range g.MultiPolygon {
			if len(poly) == 0 {
				continue
			}
			if r, ok := cleanRing(poly[0]); ok {
				rings = append(rings, r)
			}
		}
	case g.IsCollection():
		for _, sub := range g.Geometries {
			rings = append(rings, outerRings(sub)...)
		}
	}
	return rings
}

// shapeFromRings builds the simplefeatures polygon (or multipolygon) of the outer rings.
func shapeFromRings(rings [][][2]float64) (sf.Geometry, error) {
	if len(rings) == 0 {
		return sf.Geometry{}, errNoRings
	}
	polys := make([][][][]float64, 0, len(rings))
	for _, r := range rings {
		polys = append(polys, [][][]float64{closed(r)})
	}
	var g *geojson.Geometry
	if len(polys) == 1 {
		g = geojson.NewPolygonGeometry(polys[0])
	} else {
		g = geojson.NewMultiPolygonGeometry(polys...)
	}
	b, err := g.MarshalJSON()
	if err != nil {
		return sf.Geometry{}, err
	}
	shape, err := sf.UnmarshalGeoJSON(b)
	if err != nil {
		return sf.Geometry{}, fmt.Errorf("shape: %w", err)
	}
	return shape, nil
}

// geometryOf converts a simplefeatures geometry into its GeoJSON form.
func geometryOf(shape sf.Geometry) (*geojson.Geometry, error) {
	b, err := shape.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return geojson.UnmarshalGeometry(b)
}

func closed(r [][2]float64) [][]float64 {
	out := make([][]float64, 0, len(r)+1)
	for _, p := range r {
		out = append(out, []float64{p[0], p[1]})
	}
	if r[0] != r[len(r)-1] {
		out = append(out, []float64{r[0][0], r[0][1]})
	}
	return out
}

func ringsBBox(rings [][][2]float64) BBox {
	var b BBox
	first := true
	for _, r := range rings {
		for _, p := range r {
			b = b.Extend(p, first)
			first = false
		}
	}
	return b
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// newCountry assembles a country from its outer rings.
func newCountry(name string, rings [][][2]float64, props map[string]any) (Country, error) {
	shape, err := shapeFromRings(rings)
	if err != nil {
		return Country{}, err
	}
	return Country{
		Name:       name,
		Rings:      rings,
		Shape:      shape,
		BBox:       ringsBBox(rings),
		Properties: props,
	}, nil
}

// newPointCountry is a country known only by its location.
func newPointCountry(name string, lon, lat float64, props map[string]any) (Country, error) {
	if !finite(lon) || !finite(lat) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Country{}, fmt.Errorf("point %v,%v out of range", lon, lat)
	}
	shape, err := sf.XY{X: lon, Y: lat}.AsPoint()
	if err != nil {
		return Country{}, err
	}
	pt := [2]float64{lon, lat}
	return Country{
		Name:       name,
		Point:      &pt,
		Shape:      shape.AsGeometry(),
		BBox:       BBox{MinX: lon, MinY: lat, MaxX: lon, MaxY: lat},
		Properties: props,
	}, nil
}
