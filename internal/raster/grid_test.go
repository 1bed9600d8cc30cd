package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utmGeo() GeoRef {
	return GeoRef{
		Transform: [6]float64{204285, 30, 0, 2723115, 0, -30},
		EPSG:      32646,
	}
}

func TestNewGridStartsAsNoData(t *testing.T) {
	g := NewGrid(4, 3, utmGeo())
	require.Equal(t, 4, g.Width())
	require.Equal(t, 3, g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			assert.True(t, IsNoData(g.At(x, y)), "cell (%d,%d) should start as no-data", x, y)
		}
	}
	assert.Equal(t, 0, g.ValidCount())
}

func TestNewGridFromRows(t *testing.T) {
	g, err := NewGridFromRows([][]float64{
		{0.1, 0.2},
		{0.3, math.NaN()},
	}, utmGeo())
	require.NoError(t, err)
	assert.Equal(t, 2, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, 0.3, g.At(0, 1))
	assert.True(t, IsNoData(g.At(1, 1)))
	assert.Equal(t, 3, g.ValidCount())
}

func TestNewGridFromRowsRagged(t *testing.T) {
	_, err := NewGridFromRows([][]float64{
		{0.1, 0.2},
		{0.3},
	}, utmGeo())
	assert.Error(t, err)
}

func TestAtOutOfRangeReadsAsNoData(t *testing.T) {
	g := NewGrid(2, 2, utmGeo())
	assert.True(t, IsNoData(g.At(-1, 0)))
	assert.True(t, IsNoData(g.At(0, -1)))
	assert.True(t, IsNoData(g.At(2, 0)))
	assert.True(t, IsNoData(g.At(0, 2)))
}

func TestAlignedSameGeo(t *testing.T) {
	a := NewGrid(10, 8, utmGeo())
	b := NewGrid(10, 8, utmGeo())
	assert.NoError(t, a.Aligned(b))
}

func TestAlignedSizeMismatch(t *testing.T) {
	a := NewGrid(10, 8, utmGeo())
	b := NewGrid(10, 9, utmGeo())
	err := a.Aligned(b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAlignedTransformMismatch(t *testing.T) {
	a := NewGrid(10, 8, utmGeo())
	geo := utmGeo()
	geo.Transform[0] += 30 // shifted one pixel east
	b := NewGrid(10, 8, geo)
	assert.ErrorIs(t, a.Aligned(b), ErrShapeMismatch)
}

func TestAlignedTransformWithinEpsilon(t *testing.T) {
	a := NewGrid(10, 8, utmGeo())
	geo := utmGeo()
	geo.Transform[0] += 1e-7 // float noise from a round-trip, not a real shift
	b := NewGrid(10, 8, geo)
	assert.NoError(t, a.Aligned(b))
}

func TestAlignedReferenceSystemMismatch(t *testing.T) {
	a := NewGrid(10, 8, utmGeo())
	geo := utmGeo()
	geo.EPSG = 32645
	b := NewGrid(10, 8, geo)
	assert.ErrorIs(t, a.Aligned(b), ErrShapeMismatch)
}

func TestAlignedFallsBackToWKT(t *testing.T) {
	geoA := GeoRef{Transform: utmGeo().Transform, WKT: `PROJCS["WGS 84 / UTM zone 46N"]`}
	geoB := GeoRef{Transform: utmGeo().Transform, WKT: `PROJCS["WGS 84 / UTM zone 45N"]`}
	a := NewGrid(4, 4, geoA)
	b := NewGrid(4, 4, geoB)
	assert.ErrorIs(t, a.Aligned(b), ErrShapeMismatch)

	c := NewGrid(4, 4, geoA)
	assert.NoError(t, a.Aligned(c))
}

func TestAlignedNil(t *testing.T) {
	a := NewGrid(2, 2, utmGeo())
	assert.ErrorIs(t, a.Aligned(nil), ErrShapeMismatch)
}

func TestPixelCoordRoundTrip(t *testing.T) {
	geo := utmGeo()
	cx, cy := geo.PixelToCoord(0, 0)
	assert.Equal(t, 204285+15.0, cx)
	assert.Equal(t, 2723115-15.0, cy)

	x, y := geo.CoordToPixel(cx, cy)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	x, y = geo.CoordToPixel(geo.Transform[0]+95, geo.Transform[3]-95)
	assert.Equal(t, 3, x)
	assert.Equal(t, 3, y)
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGrid(2, 2, utmGeo())
	g.Set(0, 0, 0.5)
	c := g.Clone()
	c.Set(0, 0, 0.9)
	assert.Equal(t, 0.5, g.At(0, 0))
	assert.Equal(t, 0.9, c.At(0, 0))
}

func TestValidValuesSkipsNoData(t *testing.T) {
	g, err := NewGridFromRows([][]float64{
		{1, math.NaN()},
		{math.NaN(), 4},
	}, utmGeo())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4}, g.ValidValues())
}

func TestBounds(t *testing.T) {
	g := NewGrid(100, 50, utmGeo())
	minX, minY, maxX, maxY := g.Bounds()
	assert.Equal(t, 204285.0, minX)
	assert.Equal(t, 204285.0+100*30, maxX)
	assert.Equal(t, 2723115.0, maxY)
	assert.Equal(t, 2723115.0-50*30, minY)
}
