package output

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/greenpulse/greenpulse-cli/internal/change"
	"github.com/greenpulse/greenpulse-cli/internal/raster"
)

const legendHeight = 40

// noDataColor fills cells without a reading.
var noDataColor = color.RGBA{R: 230, G: 230, B: 230, A: 255}

func normalize(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	norm := (value - min) / (max - min)
	if norm < 0 {
		return 0
	}
	if norm > 1 {
		return 1
	}
	return norm
}

// ndviColor maps normalized NDVI onto a brown to green ramp.
func ndviColor(norm float64) color.RGBA {
	var r, g, b uint8
	if norm <= 0.5 {
		// Transition from brown to yellow
		ratio := norm / 0.5
		r = uint8(165 + 90*ratio)
		g = uint8(105 + 150*ratio)
		b = uint8(30 * (1 - ratio))
	} else {
		// Transition from yellow to deep green
		ratio := (norm - 0.5) / 0.5
		r = uint8(255 * (1 - ratio))
		g = uint8(255 - 155*ratio)
		b = 0
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// changeColor maps a signed change onto a red/white/green diverging
// ramp. limit is the absolute value rendered fully saturated.
func changeColor(v, limit float64) color.RGBA {
	if limit <= 0 {
		limit = 1
	}
	ratio := math.Abs(v) / limit
	if ratio > 1 {
		ratio = 1
	}
	fade := uint8(255 * (1 - ratio))
	if v < 0 {
		return color.RGBA{R: 255, G: fade, B: fade, A: 255}
	}
	return color.RGBA{R: fade, G: 255, B: fade, A: 255}
}

// symmetricLimit picks the saturation point of a diverging ramp: the
// largest magnitude present in the grid.
func symmetricLimit(g *raster.Grid) float64 {
	limit := 0.0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := g.At(x, y)
			if raster.IsNoData(v) {
				continue
			}
			limit = math.Max(limit, math.Abs(v))
		}
	}
	return limit
}

func ensurePNG(path string) string {
	if !strings.HasSuffix(path, ".png") {
		return path + ".png"
	}
	return path
}

func renderLegend(dc *gg.Context, width, top int, colorAt func(norm float64) color.RGBA, leftLabel, rightLabel string) {
	barTop := float64(top + 8)
	for x := 0; x < width; x++ {
		c := colorAt(float64(x) / float64(max(width-1, 1)))
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 255)
		dc.DrawRectangle(float64(x), barTop, 1, 12)
		dc.Fill()
	}
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(leftLabel, 2, barTop+24, 0, 0.5)
	dc.DrawStringAnchored(rightLabel, float64(width)-2, barTop+24, 1, 0.5)
}

func saveMap(dc *gg.Context, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output folder: %v", err)
	}
	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	fmt.Println("Map image created successfully as", outputPath)
	return nil
}

// RenderNDVIMap writes an NDVI grid as a PNG with a color bar. The
// ramp spans the fixed NDVI domain so maps of different dates compare
// directly.
func RenderNDVIMap(g *raster.Grid, outputPath string) error {
	outputPath = ensurePNG(outputPath)
	width, height := g.Width(), g.Height()
	if width == 0 || height == 0 {
		return fmt.Errorf("empty grid")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := g.At(x, y)
			if raster.IsNoData(v) {
				img.Set(x, y, noDataColor)
				continue
			}
			img.Set(x, y, ndviColor(normalize(v, -0.2, 1.0)))
		}
	}

	dc := gg.NewContext(width, height+legendHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(img, 0, 0)
	renderLegend(dc, width, height, ndviColor, "-0.2", "1.0")

	return saveMap(dc, outputPath)
}

// RenderChangeMap writes a difference or thresholded grid as a PNG on
// a red/white/green diverging ramp, loss in red, gain in green.
func RenderChangeMap(g *raster.Grid, outputPath string) error {
	outputPath = ensurePNG(outputPath)
	width, height := g.Width(), g.Height()
	if width == 0 || height == 0 {
		return fmt.Errorf("empty grid")
	}

	limit := symmetricLimit(g)
	if limit == 0 {
		limit = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := g.At(x, y)
			if raster.IsNoData(v) {
				img.Set(x, y, noDataColor)
				continue
			}
			img.Set(x, y, changeColor(v, limit))
		}
	}

	dc := gg.NewContext(width, height+legendHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(img, 0, 0)
	renderLegend(dc, width, height, func(norm float64) color.RGBA {
		return changeColor((norm*2-1)*limit, limit)
	}, fmt.Sprintf("%.2f", -limit), fmt.Sprintf("%.2f", limit))

	return saveMap(dc, outputPath)
}

// RenderRegionsMap draws the change map with each region's bounding
// box and centroid marked on top of it.
func RenderRegionsMap(g *raster.Grid, regions []change.Region, outputPath string) error {
	outputPath = ensurePNG(outputPath)
	width, height := g.Width(), g.Height()
	if width == 0 || height == 0 {
		return fmt.Errorf("empty grid")
	}

	limit := symmetricLimit(g)
	if limit == 0 {
		limit = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := g.At(x, y)
			if raster.IsNoData(v) {
				img.Set(x, y, noDataColor)
				continue
			}
			img.Set(x, y, changeColor(v, limit))
		}
	}

	dc := gg.NewContext(width, height+legendHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(img, 0, 0)

	for _, region := range regions {
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1)
		dc.DrawRectangle(float64(region.MinX), float64(region.MinY),
			float64(region.MaxX-region.MinX+1), float64(region.MaxY-region.MinY+1))
		dc.Stroke()

		dc.DrawCircle(region.CentroidX, region.CentroidY, 2)
		dc.Fill()
	}

	renderLegend(dc, width, height, func(norm float64) color.RGBA {
		return changeColor((norm*2-1)*limit, limit)
	}, fmt.Sprintf("%.2f", -limit), fmt.Sprintf("%.2f", limit))

	return saveMap(dc, outputPath)
}

// terrainColor maps normalized elevation onto a green-brown-white ramp.
func terrainColor(norm float64) color.RGBA {
	var r, g, b uint8
	if norm <= 0.5 {
		// Lowland green rising into brown
		ratio := norm / 0.5
		r = uint8(60 + 120*ratio)
		g = uint8(140 - 30*ratio)
		b = uint8(50 - 20*ratio)
	} else {
		// Brown fading to white peaks
		ratio := (norm - 0.5) / 0.5
		r = uint8(180 + 75*ratio)
		g = uint8(110 + 145*ratio)
		b = uint8(30 + 225*ratio)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// RenderElevationMap writes a DEM as a PNG on a terrain ramp spanning
// the grid's own range.
func RenderElevationMap(dem *raster.Grid, outputPath string) error {
	outputPath = ensurePNG(outputPath)
	width, height := dem.Width(), dem.Height()
	if width == 0 || height == 0 {
		return fmt.Errorf("empty grid")
	}

	minElev, maxElev := math.Inf(1), math.Inf(-1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := dem.At(x, y)
			if raster.IsNoData(v) {
				continue
			}
			minElev = math.Min(minElev, v)
			maxElev = math.Max(maxElev, v)
		}
	}
	if minElev > maxElev {
		return fmt.Errorf("no valid cells to render")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := dem.At(x, y)
			if raster.IsNoData(v) {
				img.Set(x, y, noDataColor)
				continue
			}
			img.Set(x, y, terrainColor(normalize(v, minElev, maxElev)))
		}
	}

	dc := gg.NewContext(width, height+legendHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(img, 0, 0)
	renderLegend(dc, width, height, terrainColor,
		fmt.Sprintf("%.0f m", minElev), fmt.Sprintf("%.0f m", maxElev))

	return saveMap(dc, outputPath)
}
