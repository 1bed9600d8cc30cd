package output

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/greenpulse/greenpulse-cli/internal/change"
	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

const histogramBins = 60

// RenderChangeHistogram plots the distribution of NDVI change values
// with the grid's mean and spread in the title.
func RenderChangeHistogram(diff *raster.Grid, outputPath string) error {
	if !strings.HasSuffix(outputPath, ".png") {
		outputPath += ".png"
	}

	values := diff.ValidValues()
	if len(values) == 0 {
		return fmt.Errorf("no valid cells to plot")
	}
	stats := change.Stats(diff)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("NDVI change distribution (mean %.4f, std %.4f)", stats.Mean, stats.StdDev)
	p.X.Label.Text = "NDVI change"
	p.Y.Label.Text = "Cells"

	hist, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	hist.FillColor = color.RGBA{R: 70, G: 140, B: 80, A: 255}
	p.Add(hist)

	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output folder: %v", err)
	}
	if err := p.Save(10*vg.Inch, 6*vg.Inch, outputPath); err != nil {
		return fmt.Errorf("save histogram: %w", err)
	}

	fmt.Println("Histogram created successfully as", outputPath)
	return nil
}

// RenderNDVIHistogram plots the NDVI distribution of one scene.
func RenderNDVIHistogram(ndvi *raster.Grid, title, outputPath string) error {
	if !strings.HasSuffix(outputPath, ".png") {
		outputPath += ".png"
	}

	values := ndvi.ValidValues()
	if len(values) == 0 {
		return fmt.Errorf("no valid cells to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "NDVI"
	p.Y.Label.Text = "Cells"

	hist, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	hist.FillColor = color.RGBA{R: 90, G: 110, B: 200, A: 255}
	p.Add(hist)

	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output folder: %v", err)
	}
	if err := p.Save(10*vg.Inch, 6*vg.Inch, outputPath); err != nil {
		return fmt.Errorf("save histogram: %w", err)
	}

	fmt.Println("Histogram created successfully as", outputPath)
	return nil
}
