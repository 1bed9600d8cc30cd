package landsat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

func lonLatGrid() *raster.Grid {
	return raster.NewGrid(4, 4, raster.GeoRef{
		Transform: [6]float64{90.0, 0.01, 0, 24.0, 0, -0.01},
		EPSG:      4326,
	})
}

func TestPixelToLatLon(t *testing.T) {
	g := lonLatGrid()

	lat, lon, err := PixelToLatLon(g, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 23.995, lat, 1e-9)
	assert.InDelta(t, 90.005, lon, 1e-9)

	lat, lon, err = PixelToLatLon(g, 3, 3)
	require.NoError(t, err)
	assert.InDelta(t, 23.965, lat, 1e-9)
	assert.InDelta(t, 90.035, lon, 1e-9)
}

func TestLonLatToPixels(t *testing.T) {
	g := lonLatGrid()

	xs, ys, err := LonLatToPixels(g, []float64{90.005, 90.035}, []float64{23.995, 23.965})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, xs[0], 1e-9)
	assert.InDelta(t, 0.5, ys[0], 1e-9)
	assert.InDelta(t, 3.5, xs[1], 1e-9)
	assert.InDelta(t, 3.5, ys[1], 1e-9)

	_, _, err = LonLatToPixels(g, []float64{90.0}, []float64{24.0, 23.9})
	assert.ErrorContains(t, err, "differ in length")
}

func TestPixelsToLonLatRoundTrip(t *testing.T) {
	g := lonLatGrid()

	lons, lats, err := PixelsToLonLat(g, []float64{0.5, 3.5}, []float64{0.5, 3.5})
	require.NoError(t, err)
	assert.InDelta(t, 90.005, lons[0], 1e-9)
	assert.InDelta(t, 23.995, lats[0], 1e-9)

	xs, ys, err := LonLatToPixels(g, lons, lats)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, xs[0], 1e-9)
	assert.InDelta(t, 0.5, ys[0], 1e-9)
	assert.InDelta(t, 3.5, xs[1], 1e-9)
	assert.InDelta(t, 3.5, ys[1], 1e-9)

	_, _, err = PixelsToLonLat(g, []float64{0.5}, []float64{})
	assert.ErrorContains(t, err, "differ in length")
}

func TestLatLonBounds(t *testing.T) {
	g := lonLatGrid()

	minLon, minLat, maxLon, maxLat, err := LatLonBounds(g)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, minLon, 1e-9)
	assert.InDelta(t, 23.96, minLat, 1e-9)
	assert.InDelta(t, 90.04, maxLon, 1e-9)
	assert.InDelta(t, 24.0, maxLat, 1e-9)
}

func TestProjectNoSpatialRef(t *testing.T) {
	g := raster.NewGrid(2, 2, raster.GeoRef{
		Transform: [6]float64{0, 1, 0, 0, 0, -1},
	})

	_, _, err := PixelToLatLon(g, 0, 0)
	assert.ErrorContains(t, err, "no spatial reference")

	_, _, err = LonLatToPixels(g, []float64{0}, []float64{0})
	assert.ErrorContains(t, err, "no spatial reference")
}
