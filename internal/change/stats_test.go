package change

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	g := gridOf(t, [][]float64{
		{0.2, -0.4, math.NaN()},
		{0.6, 0.0, math.NaN()},
	})

	s := Stats(g)
	assert.Equal(t, 4, s.ValidCells)
	assert.Equal(t, 2, s.NoDataCells)
	assert.Equal(t, -0.4, s.Min)
	assert.Equal(t, 0.6, s.Max)
	assert.InDelta(t, 0.1, s.Mean, 1e-12)
	assert.Equal(t, 2, s.GainCells)
	assert.Equal(t, 1, s.LossCells)
}

func TestStatsEmptyGrid(t *testing.T) {
	g := gridOf(t, [][]float64{{math.NaN(), math.NaN()}})

	s := Stats(g)
	assert.Equal(t, 0, s.ValidCells)
	assert.Equal(t, 2, s.NoDataCells)
	assert.True(t, math.IsNaN(s.Min))
	assert.True(t, math.IsNaN(s.Mean))
	assert.Zero(t, s.GainCells)
	assert.Zero(t, s.LossCells)
}

func TestStatsSingleCell(t *testing.T) {
	g := gridOf(t, [][]float64{{0.25}})

	s := Stats(g)
	assert.Equal(t, 1, s.ValidCells)
	assert.Equal(t, 0.25, s.Mean)
	assert.Zero(t, s.StdDev)
}
