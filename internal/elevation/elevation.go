package elevation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/greenpulse/greenpulse-cli/internal/landsat"
	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

// srtmVoid marks unmeasured cells in SRTM products.
const srtmVoid = -32768

// LoadDEM reads an elevation model into a grid. SRTM void cells read
// as no-data even when the file carries no nodata metadata.
func LoadDEM(path string) (*raster.Grid, error) {
	dem, err := landsat.LoadBand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load DEM %s: %w", path, err)
	}

	out := raster.NewLike(dem)
	for y := 0; y < dem.Height(); y++ {
		for x := 0; x < dem.Width(); x++ {
			v := dem.At(x, y)
			if raster.IsNoData(v) || v == srtmVoid {
				continue
			}
			out.Set(x, y, v)
		}
	}
	return out, nil
}

// SampleAt returns the elevation at a lon/lat point, nearest neighbor.
// Points outside the DEM read as NaN. The DEM must be lon/lat
// referenced, which is what the global DEM API serves.
func SampleAt(dem *raster.Grid, lon, lat float64) float64 {
	x, y := dem.Geo().CoordToPixel(lon, lat)
	return dem.At(x, y)
}

// MaskByElevation nulls every cell of g whose ground elevation falls
// outside [minElev, maxElev]. Cells without an elevation reading are
// nulled too.
func MaskByElevation(g, dem *raster.Grid, minElev, maxElev float64) (*raster.Grid, error) {
	if minElev > maxElev {
		return nil, fmt.Errorf("elevation range %g..%g is inverted", minElev, maxElev)
	}

	out := raster.NewLike(g)
	xs := make([]float64, g.Width())
	ys := make([]float64, g.Width())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			xs[x] = float64(x) + 0.5
			ys[x] = float64(y) + 0.5
		}
		lons, lats, err := landsat.PixelsToLonLat(g, xs, ys)
		if err != nil {
			return nil, err
		}
		for x := 0; x < g.Width(); x++ {
			v := g.At(x, y)
			if raster.IsNoData(v) {
				continue
			}
			elev := SampleAt(dem, lons[x], lats[x])
			if math.IsNaN(elev) || elev < minElev || elev > maxElev {
				continue
			}
			out.Set(x, y, v)
		}
	}
	return out, nil
}

// Summary describes the terrain of one area.
type Summary struct {
	Cells int     `json:"cells"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Summarize reduces a DEM to its valid-cell statistics.
func Summarize(dem *raster.Grid) Summary {
	values := dem.ValidValues()
	if len(values) == 0 {
		return Summary{}
	}
	return Summary{
		Cells: len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Mean:  stat.Mean(values, nil),
	}
}
