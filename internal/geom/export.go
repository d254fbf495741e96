package geom

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	geojson "github.com/paulmach/go.geojson"
)

// Placemark is a named location written by WritePoints.
type Placemark struct {
	Name       string
	Lon, Lat   float64
	Properties map[string]any
}

// WritePoints writes the placemarks as a GeoJSON FeatureCollection of points.
func WritePoints(w io.Writer, pms []Placemark) error {
	fc := geojson.NewFeatureCollection()
	for _, pm := range pms {
		f := geojson.NewPointFeature([]float64{pm.Lon, pm.Lat})
		f.SetProperty("name", pm.Name)
		for k, v := range pm.Properties {
			f.SetProperty(k, v)
		}
		fc.AddFeature(f)
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("geojson export: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// WritePointsFile writes placemarks to path, replacing it atomically.
func WritePointsFile(path string, pms []Placemark) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".export-*.geojson")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := WritePoints(tmp, pms); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
