package elevation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

func demGrid(t *testing.T) *raster.Grid {
	t.Helper()
	// 2x2 DEM over lon 90.0..90.4, lat 23.6..24.0.
	dem, err := raster.NewGridFromRows([][]float64{
		{5, 50},
		{200, math.NaN()},
	}, raster.GeoRef{
		Transform: [6]float64{90.0, 0.2, 0, 24.0, 0, -0.2},
		EPSG:      4326,
	})
	require.NoError(t, err)
	return dem
}

func sceneGrid(t *testing.T) *raster.Grid {
	t.Helper()
	g := raster.NewGrid(4, 4, raster.GeoRef{
		Transform: [6]float64{90.0, 0.1, 0, 24.0, 0, -0.1},
		EPSG:      4326,
	})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			g.Set(x, y, 0.5)
		}
	}
	return g
}

func TestSampleAt(t *testing.T) {
	dem := demGrid(t)

	assert.Equal(t, 5.0, SampleAt(dem, 90.05, 23.95))
	assert.Equal(t, 50.0, SampleAt(dem, 90.25, 23.95))
	assert.Equal(t, 200.0, SampleAt(dem, 90.05, 23.75))
	assert.True(t, math.IsNaN(SampleAt(dem, 90.25, 23.75)), "void cell")
	assert.True(t, math.IsNaN(SampleAt(dem, 89.0, 23.95)), "point west of tile")
	assert.True(t, math.IsNaN(SampleAt(dem, 90.05, 25.0)), "point north of tile")
}

func TestMaskByElevation(t *testing.T) {
	g := sceneGrid(t)
	dem := demGrid(t)

	masked, err := MaskByElevation(g, dem, 0, 100)
	require.NoError(t, err)

	// Top half of the scene sits on 5m and 50m terrain, bottom half
	// on 200m terrain and a void cell.
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, 0.5, masked.At(x, y), "top half stays")
		}
	}
	for y := 2; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.True(t, raster.IsNoData(masked.At(x, y)), "bottom half masked")
		}
	}
}

func TestMaskByElevationKeepsNoData(t *testing.T) {
	g := sceneGrid(t)
	g.Set(0, 0, math.NaN())

	masked, err := MaskByElevation(g, demGrid(t), 0, 1000)
	require.NoError(t, err)
	assert.True(t, raster.IsNoData(masked.At(0, 0)))
}

func TestMaskByElevationInvertedRange(t *testing.T) {
	_, err := MaskByElevation(sceneGrid(t), demGrid(t), 100, 0)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	dem, err := raster.NewGridFromRows([][]float64{
		{10, 20},
		{30, math.NaN()},
	}, raster.GeoRef{
		Transform: [6]float64{90.0, 0.2, 0, 24.0, 0, -0.2},
		EPSG:      4326,
	})
	require.NoError(t, err)

	summary := Summarize(dem)
	assert.Equal(t, 3, summary.Cells)
	assert.Equal(t, 10.0, summary.Min)
	assert.Equal(t, 30.0, summary.Max)
	assert.InDelta(t, 20.0, summary.Mean, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	dem := raster.NewGrid(2, 2, raster.GeoRef{EPSG: 4326})
	assert.Equal(t, Summary{}, Summarize(dem))
}
