package geom

import (
	"errors"
	"fmt"
	"strings"

	sf "github.com/peterstace/simplefeatures/geom"
)

// ParseWKT builds a country from a WKT geometry.
// POLYGON and MULTIPOLYGON give outlines, POINT gives a location-only country.
func ParseWKT(name, wkt string) (Country, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return Country{}, errors.New("empty wkt")
	}
	shape, err := sf.UnmarshalWKT(s)
	if err != nil {
		return Country{}, fmt.Errorf("wkt: %w", err)
	}
	g, err := geometryOf(shape)
	if err != nil {
		return Country{}, fmt.Errorf("wkt: %w", err)
	}
	if g.IsPoint() && len(g.Point) >= 2 {
		return newPointCountry(name, g.Point[0], g.Point[1], nil)
	}
	rings := outerRings(g)
	if len(rings) == 0 {
		return Country{}, fmt.Errorf("wkt: %s: %w", g.Type, errNoRings)
	}
	return newCountry(name, rings, nil)
}
