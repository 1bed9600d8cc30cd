package delivery

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/greenpulse/greenpulse-cli/internal/catalog"
	"github.com/greenpulse/greenpulse-cli/internal/change"
	"github.com/greenpulse/greenpulse-cli/internal/landsat"
	"github.com/greenpulse/greenpulse-cli/internal/properties"
	"github.com/greenpulse/greenpulse-cli/output"
)

// SceneReport summarizes one scene: its cloud cover and the NDVI
// distribution of the usable cells.
type SceneReport struct {
	Scene      landsat.Scene
	CloudCover float64
	NDVI       change.GridStats
	OutputDir  string
}

// InspectScene downloads a scene's bands when missing, computes its
// NDVI and writes a rendered map and histogram for it.
func InspectScene(ctx context.Context, cat *catalog.Catalog, sceneID string) (*SceneReport, error) {
	scene, err := landsat.ParseSceneID(sceneID)
	if err != nil {
		return nil, err
	}

	if _, err := landsat.FetchScene(ctx, scene, nil); err != nil {
		return nil, err
	}

	grids, err := landsat.LoadScene(landsat.SceneDir(scene), scene, landsat.DefaultLoadOptions())
	if err != nil {
		return nil, err
	}
	fmt.Printf("Cloud cover of %s: %.1f%%\n", scene.ID, grids.CloudCover*100)

	ndvi, err := change.NDVI(grids.NIR, grids.Red)
	if err != nil {
		return nil, err
	}
	stats := change.Stats(ndvi)
	fmt.Printf("NDVI over %d cells: min %.3f, max %.3f, mean %.3f\n",
		stats.ValidCells, stats.Min, stats.Max, stats.Mean)

	outputDir := filepath.Join(properties.OutputPath(), "scenes", scene.ID)
	if err := output.RenderNDVIMap(ndvi, filepath.Join(outputDir, "ndvi.png")); err != nil {
		return nil, err
	}
	title := fmt.Sprintf("NDVI distribution %s", scene.AcquiredAt.Format("2006-01-02"))
	if err := output.RenderNDVIHistogram(ndvi, title, filepath.Join(outputDir, "ndvi_histogram.png")); err != nil {
		return nil, err
	}

	if cat != nil {
		if err := recordScene(cat, grids); err != nil {
			fmt.Printf("\033[33mFailed to record scene %s: %v\033[0m\n", scene.ID, err)
		}
	}

	return &SceneReport{
		Scene:      scene,
		CloudCover: grids.CloudCover,
		NDVI:       stats,
		OutputDir:  outputDir,
	}, nil
}
