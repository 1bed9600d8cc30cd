package change

import (
	"runtime"

	"github.com/gammazero/workerpool"
	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

// parallelCutoff is the cell count above which elementwise operations
// split their rows across a worker pool. Cells are independent, so rows
// can run in any order.
const parallelCutoff = 1 << 16

// NDVI computes the Normalized Difference Vegetation Index
// (nir-red)/(nir+red) per cell from two co-registered reflectance grids.
// A cell is no-data when either input cell is no-data or when nir+red
// is zero; the division is never attempted for those cells. The result
// lies in [-1, 1] wherever both reflectances are non-negative.
func NDVI(nir, red *raster.Grid) (*raster.Grid, error) {
	if err := nir.Aligned(red); err != nil {
		return nil, err
	}

	out := raster.NewLike(nir)
	forEachRow(nir.Width(), nir.Height(), func(y int) {
		for x := 0; x < nir.Width(); x++ {
			n := nir.At(x, y)
			r := red.At(x, y)
			if raster.IsNoData(n) || raster.IsNoData(r) {
				continue
			}
			sum := n + r
			if sum == 0 {
				continue
			}
			out.Set(x, y, (n-r)/sum)
		}
	})
	return out, nil
}

// forEachRow runs fn for every row index. Large grids fan rows out over
// a pool; each row writes a disjoint slice of the output, so no locking
// is needed.
func forEachRow(width, height int, fn func(y int)) {
	if width*height < parallelCutoff {
		for y := 0; y < height; y++ {
			fn(y)
		}
		return
	}
	wp := workerpool.New(runtime.NumCPU())
	for y := 0; y < height; y++ {
		row := y
		wp.Submit(func() { fn(row) })
	}
	wp.StopWait()
}
