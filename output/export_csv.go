package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/greenpulse/greenpulse-cli/internal/change"
	"github.com/greenpulse/greenpulse-cli/internal/landsat"
	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

// ChangeSample is one surviving cell of a thresholded change grid,
// flattened for CSV export.
type ChangeSample struct {
	X         int     `csv:"x"`
	Y         int     `csv:"y"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
	Earlier   float64 `csv:"ndvi_earlier"`
	Later     float64 `csv:"ndvi_later"`
	Change    float64 `csv:"change"`
}

// BuildChangeSamples joins every surviving cell of a thresholded grid
// with the NDVI of both dates and the cell's ground position.
func BuildChangeSamples(earlier, later, thresholded *raster.Grid) ([]ChangeSample, error) {
	if err := thresholded.Aligned(earlier); err != nil {
		return nil, err
	}
	if err := thresholded.Aligned(later); err != nil {
		return nil, err
	}

	var samples []ChangeSample
	xs := make([]float64, thresholded.Width())
	ys := make([]float64, thresholded.Width())
	for y := 0; y < thresholded.Height(); y++ {
		for x := range xs {
			xs[x] = float64(x) + 0.5
			ys[x] = float64(y) + 0.5
		}
		lons, lats, err := landsat.PixelsToLonLat(thresholded, xs, ys)
		if err != nil {
			return nil, err
		}
		for x := 0; x < thresholded.Width(); x++ {
			v := thresholded.At(x, y)
			if raster.IsNoData(v) {
				continue
			}
			samples = append(samples, ChangeSample{
				X:         x,
				Y:         y,
				Latitude:  lats[x],
				Longitude: lons[x],
				Earlier:   earlier.At(x, y),
				Later:     later.At(x, y),
				Change:    v,
			})
		}
	}
	return samples, nil
}

// WriteChangeCSV saves change samples, one row per surviving cell.
func WriteChangeCSV(samples []ChangeSample, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output folder: %v", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&samples, file); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	fmt.Println("CSV created successfully as", outputPath)
	return nil
}

// RegionRow flattens one connected change region for CSV export.
type RegionRow struct {
	Rank       int     `csv:"rank"`
	Kind       string  `csv:"kind"`
	Cells      int     `csv:"cells"`
	Latitude   float64 `csv:"latitude"`
	Longitude  float64 `csv:"longitude"`
	MeanChange float64 `csv:"mean_change"`
}

// WriteRegionsCSV saves regions largest first, centroids in lat/lon.
// The grid provides the georeferencing of the region coordinates.
func WriteRegionsCSV(g *raster.Grid, regions []change.Region, outputPath string) error {
	xs := make([]float64, len(regions))
	ys := make([]float64, len(regions))
	for i, region := range regions {
		xs[i] = region.CentroidX + 0.5
		ys[i] = region.CentroidY + 0.5
	}
	lons, lats, err := landsat.PixelsToLonLat(g, xs, ys)
	if err != nil {
		return err
	}

	rows := make([]RegionRow, len(regions))
	for i, region := range regions {
		kind := "loss"
		if region.Gain {
			kind = "gain"
		}
		rows[i] = RegionRow{
			Rank:       i + 1,
			Kind:       kind,
			Cells:      region.Cells,
			Latitude:   lats[i],
			Longitude:  lons[i],
			MeanChange: region.MeanChange,
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output folder: %v", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	fmt.Println("CSV created successfully as", outputPath)
	return nil
}
