package change

import (
	"fmt"

	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

// Difference subtracts the earlier observation from the later one per
// cell (later - earlier). Both grids must be co-registered: same size,
// transform and reference system, otherwise raster.ErrShapeMismatch is
// returned and no cells are compared. No-data in either input makes the
// output cell no-data. For NDVI inputs the result lies in [-2, 2].
func Difference(later, earlier *raster.Grid) (*raster.Grid, error) {
	if err := later.Aligned(earlier); err != nil {
		return nil, fmt.Errorf("cannot difference grids: %w", err)
	}

	out := raster.NewLike(later)
	forEachRow(later.Width(), later.Height(), func(y int) {
		for x := 0; x < later.Width(); x++ {
			a := later.At(x, y)
			b := earlier.At(x, y)
			if raster.IsNoData(a) || raster.IsNoData(b) {
				continue
			}
			out.Set(x, y, a-b)
		}
	})
	return out, nil
}

// Threshold nulls out difference cells whose magnitude does not exceed
// t: every cell with -t <= v <= t becomes no-data, everything else is
// passed through with sign and magnitude intact. Thresholding is
// idempotent: re-applying with t' >= t equals thresholding the original
// with t' directly.
func Threshold(diff *raster.Grid, t float64) (*raster.Grid, error) {
	if t < 0 {
		return nil, fmt.Errorf("threshold must be non-negative, got %v", t)
	}

	out := raster.NewLike(diff)
	forEachRow(diff.Width(), diff.Height(), func(y int) {
		for x := 0; x < diff.Width(); x++ {
			v := diff.At(x, y)
			if raster.IsNoData(v) {
				continue
			}
			if v >= -t && v <= t {
				continue
			}
			out.Set(x, y, v)
		}
	})
	return out, nil
}
