package delivery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/greenpulse/greenpulse-cli/internal/boundary"
	"github.com/greenpulse/greenpulse-cli/internal/elevation"
	"github.com/greenpulse/greenpulse-cli/internal/properties"
	"github.com/greenpulse/greenpulse-cli/output"
)

// RegionReport summarizes a prepared administrative area: its boundary,
// its elevation profile and the files written for it.
type RegionReport struct {
	Division    *boundary.Division
	CentroidLat float64
	CentroidLon float64
	Elevation   elevation.Summary
	OutputDir   string
}

// PrepareRegion downloads the administrative boundary and the SRTM
// tile covering it, clips the DEM to the boundary and writes the
// rendered and georeferenced results. Boundary and DEM files are
// reused across calls; the elevation summary comes from the cache
// when the area was prepared before.
func PrepareRegion(ctx context.Context, iso3 string, level int, name string) (*RegionReport, error) {
	start := time.Now()

	division, err := boundary.LoadDivision(ctx, iso3, level, name)
	if err != nil {
		return nil, err
	}
	lat, lon, err := division.Centroid()
	if err != nil {
		return nil, err
	}
	bound := division.Bound()
	fmt.Printf("%s (%s): centroid %.4f, %.4f, bbox %.4f..%.4f E %.4f..%.4f N\n",
		division.Name, division.GID, lat, lon,
		bound.Min[0], bound.Max[0], bound.Min[1], bound.Max[1])

	demPath, err := elevation.FetchDivisionDEM(ctx, division, elevation.DefaultDEM)
	if err != nil {
		return nil, err
	}
	dem, err := elevation.LoadDEM(demPath)
	if err != nil {
		return nil, err
	}

	cropped, err := boundary.CropToDivision(dem, division)
	if err != nil {
		return nil, err
	}
	masked, err := boundary.MaskGrid(cropped, division)
	if err != nil {
		return nil, err
	}

	outputDir := filepath.Join(properties.OutputPath(), "regions", regionSlug(division.Name))
	if err := output.RenderElevationMap(masked, filepath.Join(outputDir, "elevation.png")); err != nil {
		return nil, err
	}
	if err := output.WriteGeoTIFF(masked, filepath.Join(outputDir, "elevation.tif")); err != nil {
		return nil, err
	}

	summary, err := elevation.DivisionSummary(ctx, division, elevation.DefaultDEM)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Elevation over %d cells: %.0f m to %.0f m, mean %.0f m\n",
		summary.Cells, summary.Min, summary.Max, summary.Mean)

	fmt.Printf("Total region preparation time: %v\n", time.Since(start))
	return &RegionReport{
		Division:    division,
		CentroidLat: lat,
		CentroidLon: lon,
		Elevation:   summary,
		OutputDir:   outputDir,
	}, nil
}

func regionSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}
