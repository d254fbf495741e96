package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads countries from a CSV file.
// Column detection (case-insensitive): name|country|admin, then either
// wkt|geometry|geom|the_geom or lat|latitude|y with lon|lng|long|longitude|x.
// Remaining columns become properties.
func LoadCSV(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return ParseCSV(f)
}

func ParseCSV(r io.Reader) (Data, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return Data{}, fmt.Errorf("csv: %w", err)
	}
	if len(recs) == 0 {
		return Data{}, errors.New("csv: empty file")
	}
	header := recs[0]
	idxName, idxWKT, idxLat, idxLon := -1, -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name", "country", "admin":
			if idxName == -1 {
				idxName = i
			}
		case "wkt", "geometry", "geom", "the_geom":
			if idxWKT == -1 {
				idxWKT = i
			}
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
	}
	if idxName == -1 {
		return Data{}, errors.New("csv: name column not found")
	}
	if idxWKT == -1 && (idxLat == -1 || idxLon == -1) {
		return Data{}, errors.New("csv: need a wkt column or latitude/longitude columns")
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var d Data
	for _, row := range recs[1:] {
		name := cell(row, idxName)
		if name == "" {
			d.Skipped++
			continue
		}
		props := make(map[string]any, len(header))
		for i, h := range header {
			if i == idxName || i == idxWKT || i >= len(row) {
				continue
			}
			props[strings.TrimSpace(h)] = strings.TrimSpace(row[i])
		}

		var c Country
		var err error
		if w := cell(row, idxWKT); w != "" {
			c, err = ParseWKT(name, w)
		} else {
			lon, err1 := strconv.ParseFloat(cell(row, idxLon), 64)
			lat, err2 := strconv.ParseFloat(cell(row, idxLat), 64)
			if err1 != nil || err2 != nil {
				d.Skipped++
				continue
			}
			c, err = newPointCountry(name, lon, lat, nil)
		}
		if err != nil {
			d.Skipped++
			continue
		}
		c.Properties = props
		d.add(c)
	}
	if len(d.Countries) == 0 {
		return d, ErrNoCountries
	}
	return d, nil
}
