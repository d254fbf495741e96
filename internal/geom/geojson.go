package geom

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

// nameKeys are the feature properties tried, in order, for the country name.
var nameKeys = []string{"name", "NAME", "ADMIN", "admin", "name_long", "NAME_LONG"}

// LoadGeoJSON reads countries from a GeoJSON Feature or FeatureCollection file.
func LoadGeoJSON(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, err
	}
	return ParseGeoJSON(b)
}

// ParseGeoJSON decodes features one by one so a single malformed feature
// only drops that country.
func ParseGeoJSON(b []byte) (Data, error) {
	var raw struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return Data{}, fmt.Errorf("geojson: %w", err)
	}
	var features []json.RawMessage
	switch raw.Type {
	case "FeatureCollection":
		features = raw.Features
	case "Feature":
		features = []json.RawMessage{b}
	case "Topology":
		return Data{}, fmt.Errorf("geojson: topojson input is not supported, convert it to geojson first")
	default:
		return Data{}, fmt.Errorf("geojson: unsupported type %q", raw.Type)
	}

	var d Data
	for _, fb := range features {
		c, ok := countryFromFeature(fb)
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

func countryFromFeature(b []byte) (Country, bool) {
	f, err := geojson.UnmarshalFeature(b)
	if err != nil || f.Geometry == nil {
		return Country{}, false
	}
	name := featureName(f.Properties)
	if name == "" {
		return Country{}, false
	}
	if f.Geometry.IsPoint() && len(f.Geometry.Point) >= 2 {
		c, err := newPointCountry(name, f.Geometry.Point[0], f.Geometry.Point[1], f.Properties)
		return c, err == nil
	}
	c, err := newCountry(name, outerRings(f.Geometry), f.Properties)
	return c, err == nil
}

func featureName(props map[string]any) string {
	for _, k := range nameKeys {
		if s, ok := props[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
