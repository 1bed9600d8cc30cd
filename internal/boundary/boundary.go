package boundary

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/greenpulse/greenpulse-cli/internal/utils"
)

// Division is one administrative area picked out of a GADM feature
// collection. Geometry is WGS84 lon/lat.
type Division struct {
	Name     string
	GID      string
	Country  string
	Level    int
	Geometry orb.Geometry
}

// GADM stores the division name under COUNTRY at level 0 and under
// NAME_<level> below that.
func nameKey(level int) string {
	if level == 0 {
		return "COUNTRY"
	}
	return fmt.Sprintf("NAME_%d", level)
}

func gidKey(level int) string {
	return fmt.Sprintf("GID_%d", level)
}

// LoadCollection reads a GeoJSON feature collection from disk.
func LoadCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundary file: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundary file %s: %w", path, err)
	}
	return fc, nil
}

// ListDivisions returns the division names present at an admin level,
// sorted.
func ListDivisions(fc *geojson.FeatureCollection, level int) []string {
	key := nameKey(level)
	seen := make(map[string]struct{})
	for _, feat := range fc.Features {
		if name := feat.Properties.MustString(key, ""); name != "" {
			seen[name] = struct{}{}
		}
	}
	return utils.SortedStringKeys(seen)
}

// FindDivision picks the feature whose name matches at the given
// admin level.
func FindDivision(fc *geojson.FeatureCollection, level int, name string) (*Division, error) {
	key := nameKey(level)
	for _, feat := range fc.Features {
		if feat.Properties.MustString(key, "") != name {
			continue
		}
		switch feat.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			return nil, fmt.Errorf("division %q has non-area geometry %T", name, feat.Geometry)
		}
		return &Division{
			Name:     name,
			GID:      feat.Properties.MustString(gidKey(level), ""),
			Country:  feat.Properties.MustString("COUNTRY", ""),
			Level:    level,
			Geometry: feat.Geometry,
		}, nil
	}
	return nil, fmt.Errorf("division %q not found at level %d", name, level)
}

// Centroid returns the area centroid as latitude, longitude.
func (d *Division) Centroid() (float64, float64, error) {
	centroid, area := planar.CentroidArea(d.Geometry)
	if area <= 0 {
		return 0, 0, errors.New("error getting centroid")
	}
	return centroid.Y(), centroid.X(), nil
}

// Bound returns the lon/lat bounding box.
func (d *Division) Bound() orb.Bound {
	return d.Geometry.Bound()
}

// Contains reports whether a lon/lat point falls inside the division.
func (d *Division) Contains(lon, lat float64) bool {
	pt := orb.Point{lon, lat}
	switch geom := d.Geometry.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, pt)
	default:
		return false
	}
}

// multiPolygon normalizes the division geometry to a multi-polygon.
func (d *Division) multiPolygon() (orb.MultiPolygon, error) {
	switch geom := d.Geometry.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{geom}, nil
	case orb.MultiPolygon:
		return geom, nil
	default:
		return nil, fmt.Errorf("division %q has non-area geometry %T", d.Name, d.Geometry)
	}
}
