package boundary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two level-1 divisions shaped like GADM 4.1 output.
const testCollection = `{
  "type": "FeatureCollection",
  "name": "gadm41_BGD_1",
  "features": [
    {
      "type": "Feature",
      "properties": {"GID_1": "BGD.3_1", "GID_0": "BGD", "COUNTRY": "Bangladesh", "NAME_1": "Dhaka", "ENGTYPE_1": "Division"},
      "geometry": {"type": "Polygon", "coordinates": [[[90.0, 23.6], [90.2, 23.6], [90.2, 24.0], [90.0, 24.0], [90.0, 23.6]]]}
    },
    {
      "type": "Feature",
      "properties": {"GID_1": "BGD.2_1", "GID_0": "BGD", "COUNTRY": "Bangladesh", "NAME_1": "Chittagong", "ENGTYPE_1": "Division"},
      "geometry": {"type": "MultiPolygon", "coordinates": [[[[91.0, 22.0], [91.5, 22.0], [91.5, 22.5], [91.0, 22.5], [91.0, 22.0]]]]}
    }
  ]
}`

func writeCollection(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gadm41_BGD_1.json")
	require.NoError(t, os.WriteFile(path, []byte(testCollection), 0o644))
	return path
}

func TestLoadCollection(t *testing.T) {
	fc, err := LoadCollection(writeCollection(t))
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)
}

func TestLoadCollectionMissingFile(t *testing.T) {
	_, err := LoadCollection(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadCollectionBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not geojson"), 0o644))
	_, err := LoadCollection(path)
	assert.Error(t, err)
}

func TestListDivisions(t *testing.T) {
	fc, err := LoadCollection(writeCollection(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Chittagong", "Dhaka"}, ListDivisions(fc, 1))
	assert.Empty(t, ListDivisions(fc, 2))
}

func TestFindDivision(t *testing.T) {
	fc, err := LoadCollection(writeCollection(t))
	require.NoError(t, err)

	division, err := FindDivision(fc, 1, "Dhaka")
	require.NoError(t, err)
	assert.Equal(t, "Dhaka", division.Name)
	assert.Equal(t, "BGD.3_1", division.GID)
	assert.Equal(t, "Bangladesh", division.Country)
	assert.Equal(t, 1, division.Level)
	assert.IsType(t, orb.Polygon{}, division.Geometry)
}

func TestFindDivisionNotFound(t *testing.T) {
	fc, err := LoadCollection(writeCollection(t))
	require.NoError(t, err)

	_, err = FindDivision(fc, 1, "Khulna")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Khulna")
}

func TestDivisionCentroid(t *testing.T) {
	fc, err := LoadCollection(writeCollection(t))
	require.NoError(t, err)
	division, err := FindDivision(fc, 1, "Dhaka")
	require.NoError(t, err)

	lat, lon, err := division.Centroid()
	require.NoError(t, err)
	assert.InDelta(t, 23.8, lat, 1e-9)
	assert.InDelta(t, 90.1, lon, 1e-9)
}

func TestDivisionContains(t *testing.T) {
	fc, err := LoadCollection(writeCollection(t))
	require.NoError(t, err)

	dhaka, err := FindDivision(fc, 1, "Dhaka")
	require.NoError(t, err)
	assert.True(t, dhaka.Contains(90.1, 23.8))
	assert.False(t, dhaka.Contains(91.2, 22.2))

	chittagong, err := FindDivision(fc, 1, "Chittagong")
	require.NoError(t, err)
	assert.True(t, chittagong.Contains(91.2, 22.2), "multi-polygon containment")
	assert.False(t, chittagong.Contains(90.1, 23.8))
}

func TestDivisionBound(t *testing.T) {
	fc, err := LoadCollection(writeCollection(t))
	require.NoError(t, err)
	division, err := FindDivision(fc, 1, "Dhaka")
	require.NoError(t, err)

	bound := division.Bound()
	assert.Equal(t, 90.0, bound.Min.X())
	assert.Equal(t, 23.6, bound.Min.Y())
	assert.Equal(t, 90.2, bound.Max.X())
	assert.Equal(t, 24.0, bound.Max.Y())
}
