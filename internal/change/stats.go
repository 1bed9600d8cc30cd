package change

import (
	"math"

	"github.com/greenpulse/greenpulse-cli/internal/raster"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GridStats summarizes the valid cells of a grid.
type GridStats struct {
	ValidCells  int
	NoDataCells int
	Min         float64
	Max         float64
	Mean        float64
	StdDev      float64
	// GainCells and LossCells count strictly positive and strictly
	// negative cells; meaningful for difference grids.
	GainCells int
	LossCells int
}

// Stats computes summary statistics over the valid cells of g. All
// fields except the counts are NaN when the grid holds no data.
func Stats(g *raster.Grid) GridStats {
	values := g.ValidValues()
	s := GridStats{
		ValidCells:  len(values),
		NoDataCells: g.Width()*g.Height() - len(values),
	}
	if len(values) == 0 {
		s.Min = math.NaN()
		s.Max = math.NaN()
		s.Mean = math.NaN()
		s.StdDev = math.NaN()
		return s
	}

	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	for _, v := range values {
		if v > 0 {
			s.GainCells++
		} else if v < 0 {
			s.LossCells++
		}
	}
	return s
}
