package geom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type kmlRing struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

type kmlPolygon struct {
	Outer kmlRing `xml:"outerBoundaryIs"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlMulti struct {
	Polygons []kmlPolygon `xml:"Polygon"`
	Points   []kmlPoint   `xml:"Point"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlPlacemark struct {
	Name     string      `xml:"name"`
	Polygon  *kmlPolygon `xml:"Polygon"`
	Point    *kmlPoint   `xml:"Point"`
	Multi    *kmlMulti   `xml:"MultiGeometry"`
	Extended []kmlData   `xml:"ExtendedData>Data"`
}

// LoadKML reads countries from the Placemarks of a KML file.
// Placemarks may be nested in Document and Folder elements.
func LoadKML(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, err
	}
	return ParseKML(b)
}

func ParseKML(b []byte) (Data, error) {
	var d Data
	dec := xml.NewDecoder(bytes.NewReader(b))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Data{}, fmt.Errorf("kml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return Data{}, fmt.Errorf("kml: %w", err)
		}
		c, ok := countryFromPlacemark(pm)
		if !ok {
			d.Skipped++
			continue
		}
		d.add(c)
	}
	if len(d.Countries) == 0 {
		return d, ErrNoCountries
	}
	return d, nil
}

func countryFromPlacemark(pm kmlPlacemark) (Country, bool) {
	name := strings.TrimSpace(pm.Name)
	if name == "" {
		return Country{}, false
	}
	var props map[string]any
	if len(pm.Extended) > 0 {
		props = make(map[string]any, len(pm.Extended))
		for _, e := range pm.Extended {
			props[e.Name] = strings.TrimSpace(e.Value)
		}
	}

	var polys []kmlPolygon
	var points []kmlPoint
	if pm.Polygon != nil {
		polys = append(polys, *pm.Polygon)
	}
	if pm.Point != nil {
		points = append(points, *pm.Point)
	}
	if pm.Multi != nil {
		polys = append(polys, pm.Multi.Polygons...)
		points = append(points, pm.Multi.Points...)
	}

	var rings [][][2]float64
	for _, p := range polys {
		if r, ok := cleanRing(parseKMLCoords(p.Outer.Coordinates)); ok {
			rings = append(rings, r)
		}
	}
	if len(rings) > 0 {
		c, err := newCountry(name, rings, props)
		return c, err == nil
	}
	for _, p := range points {
		coords := parseKMLCoords(p.Coordinates)
		if len(coords) == 0 {
			continue
		}
		c, err := newPointCountry(name, coords[0][0], coords[0][1], props)
		return c, err == nil
	}
	return Country{}, false
}

// parseKMLCoords parses "lon,lat[,alt]" tuples separated by whitespace; altitude is ignored.
func parseKMLCoords(s string) [][]float64 {
	var out [][]float64
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, []float64{lon, lat})
	}
	return out
}
