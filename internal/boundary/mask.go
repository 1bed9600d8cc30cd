package boundary

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/greenpulse/greenpulse-cli/internal/landsat"
	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

// pixelGeometry reprojects the division outline into fractional pixel
// coordinates of g, so containment checks run in pixel space without a
// transform per cell.
func pixelGeometry(d *Division, g *raster.Grid) (orb.MultiPolygon, error) {
	polys, err := d.multiPolygon()
	if err != nil {
		return nil, err
	}

	out := make(orb.MultiPolygon, len(polys))
	for i, poly := range polys {
		out[i] = make(orb.Polygon, len(poly))
		for j, ring := range poly {
			lons := make([]float64, len(ring))
			lats := make([]float64, len(ring))
			for k, pt := range ring {
				lons[k] = pt.X()
				lats[k] = pt.Y()
			}
			xs, ys, err := landsat.LonLatToPixels(g, lons, lats)
			if err != nil {
				return nil, err
			}
			projected := make(orb.Ring, len(ring))
			for k := range xs {
				projected[k] = orb.Point{xs[k], ys[k]}
			}
			out[i][j] = projected
		}
	}
	return out, nil
}

// MaskGrid nulls every cell whose center falls outside the division.
// Cells inside keep their values, no-data included.
func MaskGrid(g *raster.Grid, d *Division) (*raster.Grid, error) {
	polys, err := pixelGeometry(d, g)
	if err != nil {
		return nil, err
	}
	bound := polys.Bound()

	out := raster.NewLike(g)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := g.At(x, y)
			if raster.IsNoData(v) {
				continue
			}
			center := orb.Point{float64(x) + 0.5, float64(y) + 0.5}
			if !bound.Contains(center) {
				continue
			}
			if planar.MultiPolygonContains(polys, center) {
				out.Set(x, y, v)
			}
		}
	}
	return out, nil
}

// CropToDivision cuts g down to the pixel bounding box of the
// division. The result is not masked; pair with MaskGrid for that.
func CropToDivision(g *raster.Grid, d *Division) (*raster.Grid, error) {
	polys, err := pixelGeometry(d, g)
	if err != nil {
		return nil, err
	}
	bound := polys.Bound()

	minX := int(math.Floor(bound.Min.X()))
	minY := int(math.Floor(bound.Min.Y()))
	maxX := int(math.Ceil(bound.Max.X()))
	maxY := int(math.Ceil(bound.Max.Y()))

	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, g.Width())
	maxY = min(maxY, g.Height())
	if minX >= maxX || minY >= maxY {
		return nil, errors.New("division does not intersect the grid")
	}

	return raster.Crop(g, minX, minY, maxX-minX, maxY-minY)
}
