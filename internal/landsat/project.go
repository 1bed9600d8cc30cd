package landsat

import (
	"errors"
	"fmt"

	"github.com/airbusgeo/godal"

	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

func gridSpatialRef(g *raster.Grid) (*godal.SpatialRef, error) {
	geo := g.Geo()
	if geo.WKT != "" {
		return godal.NewSpatialRefFromWKT(geo.WKT)
	}
	if geo.EPSG != 0 {
		return godal.NewSpatialRefFromEPSG(geo.EPSG)
	}
	return nil, errors.New("grid has no spatial reference")
}

// gridIsLonLat reports whether grid coordinates already are WGS84
// lon/lat, in which case no reprojection is needed.
func gridIsLonLat(g *raster.Grid) bool {
	geo := g.Geo()
	return geo.WKT == "" && geo.EPSG == 4326
}

// PixelToLatLon converts a pixel center to WGS84 latitude/longitude.
func PixelToLatLon(g *raster.Grid, x, y int) (float64, float64, error) {
	xCoord, yCoord := g.Geo().PixelToCoord(x, y)
	if gridIsLonLat(g) {
		return yCoord, xCoord, nil
	}

	srcSR, err := gridSpatialRef(g)
	if err != nil {
		return 0, 0, err
	}
	defer srcSR.Close()
	dstSR, _ := godal.NewSpatialRefFromEPSG(4326) // WGS84
	defer dstSR.Close()
	tr, err := godal.NewTransform(srcSR, dstSR)
	if err != nil {
		return 0, 0, fmt.Errorf("transform error: %w", err)
	}
	defer tr.Close()

	xs := []float64{xCoord}
	ys := []float64{yCoord}
	if err := tr.TransformEx(xs, ys, nil, nil); err != nil {
		return 0, 0, fmt.Errorf("transform error: %w", err)
	}

	return ys[0], xs[0], nil
}

// LonLatToPixels converts WGS84 vertices into fractional pixel
// coordinates of g. Both slices are transformed in one call.
func LonLatToPixels(g *raster.Grid, lons, lats []float64) ([]float64, []float64, error) {
	if len(lons) != len(lats) {
		return nil, nil, errors.New("lon/lat slices differ in length")
	}

	if gridIsLonLat(g) {
		geo := g.Geo()
		xs := make([]float64, len(lons))
		ys := make([]float64, len(lats))
		for i := range lons {
			xs[i] = (lons[i] - geo.Transform[0]) / geo.Transform[1]
			ys[i] = (lats[i] - geo.Transform[3]) / geo.Transform[5]
		}
		return xs, ys, nil
	}

	dstSR, err := gridSpatialRef(g)
	if err != nil {
		return nil, nil, err
	}
	defer dstSR.Close()
	srcSR, _ := godal.NewSpatialRefFromEPSG(4326) // WGS84
	defer srcSR.Close()
	tr, err := godal.NewTransform(srcSR, dstSR)
	if err != nil {
		return nil, nil, fmt.Errorf("transform error: %w", err)
	}
	defer tr.Close()

	xs := make([]float64, len(lons))
	ys := make([]float64, len(lats))
	copy(xs, lons)
	copy(ys, lats)
	if err := tr.TransformEx(xs, ys, nil, nil); err != nil {
		return nil, nil, fmt.Errorf("transform error: %w", err)
	}

	// Fractional pixel coordinates, north-up transform assumed.
	geo := g.Geo()
	for i := range xs {
		xs[i] = (xs[i] - geo.Transform[0]) / geo.Transform[1]
		ys[i] = (ys[i] - geo.Transform[3]) / geo.Transform[5]
	}
	return xs, ys, nil
}

// PixelsToLonLat converts fractional pixel coordinates of g into WGS84
// lon/lat in one batch.
func PixelsToLonLat(g *raster.Grid, xs, ys []float64) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, errors.New("pixel coordinate slices differ in length")
	}

	geo := g.Geo()
	lons := make([]float64, len(xs))
	lats := make([]float64, len(ys))
	for i := range xs {
		lons[i] = geo.Transform[0] + geo.Transform[1]*xs[i] + geo.Transform[2]*ys[i]
		lats[i] = geo.Transform[3] + geo.Transform[4]*xs[i] + geo.Transform[5]*ys[i]
	}
	if gridIsLonLat(g) {
		return lons, lats, nil
	}

	srcSR, err := gridSpatialRef(g)
	if err != nil {
		return nil, nil, err
	}
	defer srcSR.Close()
	dstSR, _ := godal.NewSpatialRefFromEPSG(4326) // WGS84
	defer dstSR.Close()
	tr, err := godal.NewTransform(srcSR, dstSR)
	if err != nil {
		return nil, nil, fmt.Errorf("transform error: %w", err)
	}
	defer tr.Close()

	if err := tr.TransformEx(lons, lats, nil, nil); err != nil {
		return nil, nil, fmt.Errorf("transform error: %w", err)
	}
	return lons, lats, nil
}

// LatLonBounds returns the WGS84 bounding box of a grid's footprint,
// computed from its four corners.
func LatLonBounds(g *raster.Grid) (minLon, minLat, maxLon, maxLat float64, err error) {
	if gridIsLonLat(g) {
		minX, minY, maxX, maxY := g.Bounds()
		return minX, minY, maxX, maxY, nil
	}

	srcSR, err := gridSpatialRef(g)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	defer srcSR.Close()
	dstSR, _ := godal.NewSpatialRefFromEPSG(4326) // WGS84
	defer dstSR.Close()
	tr, err := godal.NewTransform(srcSR, dstSR)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("transform error: %w", err)
	}
	defer tr.Close()

	geo := g.Geo()
	w, h := float64(g.Width()), float64(g.Height())
	xs := []float64{
		geo.Transform[0],
		geo.Transform[0] + geo.Transform[1]*w,
		geo.Transform[0],
		geo.Transform[0] + geo.Transform[1]*w,
	}
	ys := []float64{
		geo.Transform[3],
		geo.Transform[3],
		geo.Transform[3] + geo.Transform[5]*h,
		geo.Transform[3] + geo.Transform[5]*h,
	}
	if err := tr.TransformEx(xs, ys, nil, nil); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("transform error: %w", err)
	}

	minLon, maxLon = xs[0], xs[0]
	minLat, maxLat = ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minLon = min(minLon, xs[i])
		maxLon = max(maxLon, xs[i])
		minLat = min(minLat, ys[i])
		maxLat = max(maxLat, ys[i])
	}
	return minLon, minLat, maxLon, maxLat, nil
}
