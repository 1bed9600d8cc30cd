package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/greenpulse/greenpulse-cli/internal/boundary"
	"github.com/greenpulse/greenpulse-cli/internal/catalog"
	"github.com/greenpulse/greenpulse-cli/internal/change"
	"github.com/greenpulse/greenpulse-cli/internal/elevation"
	"github.com/greenpulse/greenpulse-cli/internal/landsat"
	"github.com/greenpulse/greenpulse-cli/internal/properties"
	"github.com/greenpulse/greenpulse-cli/internal/raster"
	"github.com/greenpulse/greenpulse-cli/internal/weather"
	"github.com/greenpulse/greenpulse-cli/output"
)

const flickerCycles = 6

// ElevationBand is a closed range of ground elevations in meters.
type ElevationBand struct {
	Min float64
	Max float64
}

// ChangeOptions tune a change detection run.
type ChangeOptions struct {
	// Threshold nulls differences with magnitude at or below it.
	Threshold float64
	// MinRegionCells drops connected change regions smaller than this.
	MinRegionCells int
	// Division, when set, crops and masks both dates to an
	// administrative area before the comparison.
	Division *boundary.Division
	// Elevation, when set, keeps only cells whose ground elevation
	// falls inside the band.
	Elevation *ElevationBand
	// Animation writes an earlier/later flicker AVI next to the maps.
	Animation bool
}

func DefaultChangeOptions() ChangeOptions {
	return ChangeOptions{
		Threshold:      properties.DefaultThreshold,
		MinRegionCells: properties.DefaultMinRegionCells,
	}
}

// ChangeReport summarizes a finished change detection run.
type ChangeReport struct {
	RunID       string
	Earlier     landsat.Scene
	Later       landsat.Scene
	Division    string
	Diff        change.GridStats
	Significant change.GridStats
	Regions     []change.Region
	Weather     *weather.WindowSummary
	OutputDir   string
}

// DetectChange runs the pipeline over two downloaded scenes: load and
// rescale reflectance, NDVI per date, difference, thresholding, region
// labeling, rendered and exported outputs, and a catalog record. The
// scenes may be passed in either order.
func DetectChange(ctx context.Context, cat *catalog.Catalog, earlier, later landsat.Scene, opts ChangeOptions) (*ChangeReport, error) {
	start := time.Now()
	if later.AcquiredAt.Before(earlier.AcquiredAt) {
		earlier, later = later, earlier
	}

	stepStart := time.Now()
	earlierGrids, laterGrids, err := landsat.LoadScenePair(earlier, later, landsat.DefaultLoadOptions())
	if err != nil {
		return nil, err
	}
	fmt.Printf("LoadScenePair took %v\n", time.Since(stepStart))

	stepStart = time.Now()
	earlierNDVI, err := change.NDVI(earlierGrids.NIR, earlierGrids.Red)
	if err != nil {
		return nil, err
	}
	laterNDVI, err := change.NDVI(laterGrids.NIR, laterGrids.Red)
	if err != nil {
		return nil, err
	}
	fmt.Printf("NDVI took %v\n", time.Since(stepStart))

	divisionName := ""
	if opts.Division != nil {
		divisionName = opts.Division.Name
		fmt.Printf("Clipping both dates to %s\n", divisionName)
		if earlierNDVI, err = clipToDivision(earlierNDVI, opts.Division); err != nil {
			return nil, err
		}
		if laterNDVI, err = clipToDivision(laterNDVI, opts.Division); err != nil {
			return nil, err
		}
	}

	if opts.Elevation != nil {
		stepStart = time.Now()
		earlierNDVI, laterNDVI, err = clipToElevation(ctx, earlierNDVI, laterNDVI, *opts.Elevation)
		if err != nil {
			return nil, err
		}
		fmt.Printf("Elevation masking took %v\n", time.Since(stepStart))
	}

	stepStart = time.Now()
	diff, err := change.Difference(laterNDVI, earlierNDVI)
	if err != nil {
		return nil, err
	}
	thresholded, err := change.Threshold(diff, opts.Threshold)
	if err != nil {
		return nil, err
	}
	regions := change.Regions(thresholded, opts.MinRegionCells)
	fmt.Printf("Difference and thresholding took %v\n", time.Since(stepStart))

	diffStats := change.Stats(diff)
	significant := change.Stats(thresholded)
	fmt.Printf("Compared %d cells: %d significant gain, %d significant loss, %d regions\n",
		diffStats.ValidCells, significant.GainCells, significant.LossCells, len(regions))

	weatherSummary := windowWeather(ctx, diff, earlier, later)

	runID := catalog.NewRunID()
	outputDir := filepath.Join(properties.OutputPath(), runID)
	if err := writeRunOutputs(outputDir, earlierNDVI, laterNDVI, diff, thresholded, regions, opts.Animation); err != nil {
		return nil, err
	}

	if cat != nil {
		if err := recordScene(cat, earlierGrids); err != nil {
			fmt.Printf("\033[33mFailed to record scene %s: %v\033[0m\n", earlier.ID, err)
		}
		if err := recordScene(cat, laterGrids); err != nil {
			fmt.Printf("\033[33mFailed to record scene %s: %v\033[0m\n", later.ID, err)
		}
		err = cat.RecordRun(catalog.RunRecord{
			RunID:        runID,
			Division:     divisionName,
			EarlierScene: earlier.ID,
			LaterScene:   later.ID,
			Threshold:    opts.Threshold,
			ValidCells:   diffStats.ValidCells,
			GainCells:    significant.GainCells,
			LossCells:    significant.LossCells,
			MeanChange:   diffStats.Mean,
			StartedAt:    start,
			FinishedAt:   time.Now(),
			OutputDir:    outputDir,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
	}

	fmt.Printf("Total change detection time: %v\n", time.Since(start))
	return &ChangeReport{
		RunID:       runID,
		Earlier:     earlier,
		Later:       later,
		Division:    divisionName,
		Diff:        diffStats,
		Significant: significant,
		Regions:     regions,
		Weather:     weatherSummary,
		OutputDir:   outputDir,
	}, nil
}

func clipToDivision(g *raster.Grid, d *boundary.Division) (*raster.Grid, error) {
	cropped, err := boundary.CropToDivision(g, d)
	if err != nil {
		return nil, err
	}
	masked, err := boundary.MaskGrid(cropped, d)
	if err != nil {
		return nil, err
	}
	fmt.Printf("%d cells remain inside %s\n", masked.ValidCount(), d.Name)
	return masked, nil
}

// clipToElevation fetches the DEM tile covering the footprint and
// nulls cells outside the band in both dates.
func clipToElevation(ctx context.Context, earlierNDVI, laterNDVI *raster.Grid, band ElevationBand) (*raster.Grid, *raster.Grid, error) {
	minLon, minLat, maxLon, maxLat, err := landsat.LatLonBounds(earlierNDVI)
	if err != nil {
		return nil, nil, err
	}
	demPath, err := elevation.FetchDEM(ctx, elevation.DefaultDEM, minLon, minLat, maxLon, maxLat)
	if err != nil {
		return nil, nil, err
	}
	dem, err := elevation.LoadDEM(demPath)
	if err != nil {
		return nil, nil, err
	}

	fmt.Printf("Keeping cells between %.0f m and %.0f m\n", band.Min, band.Max)
	earlierOut, err := elevation.MaskByElevation(earlierNDVI, dem, band.Min, band.Max)
	if err != nil {
		return nil, nil, err
	}
	laterOut, err := elevation.MaskByElevation(laterNDVI, dem, band.Min, band.Max)
	if err != nil {
		return nil, nil, err
	}
	return earlierOut, laterOut, nil
}

// windowWeather pulls conditions between the two acquisitions at the
// footprint center. A failed lookup only costs the report its weather
// context.
func windowWeather(ctx context.Context, g *raster.Grid, earlier, later landsat.Scene) *weather.WindowSummary {
	lat, lon, err := landsat.PixelToLatLon(g, g.Width()/2, g.Height()/2)
	if err != nil {
		fmt.Printf("\033[33mFailed to locate the footprint center: %v\033[0m\n", err)
		return nil
	}
	summary, err := weather.FetchWindowSummary(ctx, lat, lon, earlier.AcquiredAt, later.AcquiredAt)
	if err != nil {
		fmt.Printf("\033[33mFailed to fetch weather context: %v\033[0m\n", err)
		return nil
	}
	fmt.Printf("Between acquisitions: %.1f mm total rainfall, %.1f°C mean temperature\n",
		summary.TotalPrecipitation, summary.MeanTemperature)
	return &summary
}

func writeRunOutputs(dir string, earlierNDVI, laterNDVI, diff, thresholded *raster.Grid, regions []change.Region, animation bool) error {
	earlierMap := filepath.Join(dir, "ndvi_earlier.png")
	laterMap := filepath.Join(dir, "ndvi_later.png")
	if err := output.RenderNDVIMap(earlierNDVI, earlierMap); err != nil {
		return err
	}
	if err := output.RenderNDVIMap(laterNDVI, laterMap); err != nil {
		return err
	}
	if err := output.RenderChangeMap(diff, filepath.Join(dir, "change.png")); err != nil {
		return err
	}
	if err := output.RenderRegionsMap(thresholded, regions, filepath.Join(dir, "regions.png")); err != nil {
		return err
	}
	if err := output.RenderChangeHistogram(diff, filepath.Join(dir, "change_histogram.png")); err != nil {
		return err
	}

	samples, err := output.BuildChangeSamples(earlierNDVI, laterNDVI, thresholded)
	if err != nil {
		return err
	}
	if err := output.WriteChangeCSV(samples, filepath.Join(dir, "change.csv")); err != nil {
		return err
	}
	if err := output.WriteRegionsCSV(thresholded, regions, filepath.Join(dir, "regions.csv")); err != nil {
		return err
	}
	if err := output.WriteGeoTIFF(diff, filepath.Join(dir, "change.tif")); err != nil {
		return err
	}
	if err := output.WriteGeoTIFF(thresholded, filepath.Join(dir, "significant_change.tif")); err != nil {
		return err
	}

	if animation {
		if err := output.RenderFlickerAnimation(earlierMap, laterMap, filepath.Join(dir, "flicker.avi"), flickerCycles); err != nil {
			return err
		}
	}
	return nil
}

// recordScene files a loaded scene in the catalog, dating the download
// from the red band file on disk.
func recordScene(cat *catalog.Catalog, grids *landsat.SceneGrids) error {
	scene := grids.Scene
	downloadedAt := time.Now()
	if info, err := os.Stat(filepath.Join(landsat.SceneDir(scene), scene.BandFileName(landsat.BandRed))); err == nil {
		downloadedAt = info.ModTime()
	}
	return cat.RecordScene(catalog.SceneRecord{
		SceneID:      scene.ID,
		Satellite:    scene.Satellite,
		Path:         scene.Path,
		Row:          scene.Row,
		AcquiredAt:   scene.AcquiredAt,
		DownloadedAt: downloadedAt,
		CloudCover:   grids.CloudCover,
	})
}
