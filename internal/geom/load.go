// Package geom loads country outlines from GeoJSON, KML and CSV files.
package geom

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoCountries is returned when a file parses but holds no usable country.
var ErrNoCountries = errors.New("no countries found")

// Extensions lists the file types Load understands.
var Extensions = []string{".geojson", ".json", ".kml", ".csv"}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads a country dataset, picking the parser from the file extension.
func Load(path string) (Data, error) {
	var (
		d   Data
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		d, err = LoadGeoJSON(path)
	case ".kml":
		d, err = LoadKML(path)
	case ".csv":
		d, err = LoadCSV(path)
	default:
		return Data{}, fmt.Errorf("load %s: unsupported file type %q", filepath.Base(path), ext)
	}
	if err != nil {
		return d, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return d, nil
}
